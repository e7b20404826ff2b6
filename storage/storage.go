/*
	Package storage provides a Zarr-flavored hierarchical chunked array
	store over a set of pluggable key-value engines.  Group and array nodes
	are addressed by slash-separated paths; each node persists its metadata
	documents (".zgroup", ".zarray", ".zattrs") and chunk payloads as values
	under path-derived keys.

	Each engine must register itself at init time via RegisterEngine and is
	instantiated through NewStore with an engine-specific StoreConfig.
	Values are simply []byte at this level; chunk compression and checksums
	are layered on via SerializeChunk/DeserializeChunk.
*/
package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/JaneliaSciComp/xarray-ome-ngff/ngff"

	"github.com/blang/semver"
)

// ErrKeyNotFound is returned by KeyValue.Get for absent keys.
var ErrKeyNotFound = errors.New("key not found")

// KeyValue is the flat byte store a hierarchy is built on.  Implementations
// must be safe for concurrent use; this package adds no locking of its own.
type KeyValue interface {
	// Get returns the value for a key, or ErrKeyNotFound.
	Get(k string) ([]byte, error)

	// Put stores a value under a key, overwriting any previous value.
	Put(k string, v []byte) error

	// Delete removes a key.  Deleting an absent key is not an error.
	Delete(k string) error

	// Exists says whether a key is present.
	Exists(k string) (bool, error)

	// List returns all keys with the given prefix.
	List(prefix string) ([]string, error)

	// Close releases resources held by the store.
	Close() error
}

// StoreConfig is a store-specific configuration where each engine defines
// the parameters it accepts.
type StoreConfig struct {
	ngff.Config

	// Engine is a simple name selecting the engine, e.g. "badger".
	Engine string
}

// Engine is something that can create a KeyValue store.
type Engine interface {
	GetName() string
	GetDescription() string
	GetSemVer() semver.Version
	NewStore(config StoreConfig) (KeyValue, error)
}

var (
	enginesMu sync.Mutex
	engines   = map[string]Engine{}
)

// RegisterEngine registers an engine under its name for use by NewStore.
func RegisterEngine(e Engine) {
	enginesMu.Lock()
	defer enginesMu.Unlock()
	ngff.Debugf("Engine %q registered with version %s\n", e.GetName(), e.GetSemVer())
	engines[e.GetName()] = e
}

// NewStore creates a KeyValue store using the engine named in the config.
func NewStore(config StoreConfig) (KeyValue, error) {
	enginesMu.Lock()
	e, found := engines[config.Engine]
	enginesMu.Unlock()
	if !found {
		return nil, fmt.Errorf("no storage engine %q is registered", config.Engine)
	}
	return e.NewStore(config)
}

// EnginesAvailable describes the registered engines.
func EnginesAvailable() string {
	enginesMu.Lock()
	defer enginesMu.Unlock()
	var s string
	for _, e := range engines {
		if s != "" {
			s += "; "
		}
		s += fmt.Sprintf("%s [%s]", e.GetName(), e.GetSemVer())
	}
	return s
}
