package storage

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blang/semver"
)

func init() {
	ver, err := semver.Make("1.0.0")
	if err != nil {
		panic(fmt.Sprintf("unable to make semver for memory engine: %v", err))
	}
	RegisterEngine(memEngine{"memory", "In-memory store", ver})
}

// --- Engine Implementation ------

type memEngine struct {
	name   string
	desc   string
	semver semver.Version
}

func (e memEngine) GetName() string {
	return e.name
}

func (e memEngine) GetDescription() string {
	return e.desc
}

func (e memEngine) GetSemVer() semver.Version {
	return e.semver
}

func (e memEngine) NewStore(config StoreConfig) (KeyValue, error) {
	return NewMemStore(), nil
}

// MemStore is a mutex-guarded in-memory key-value store, suitable for
// tests and small in-process hierarchies.
type MemStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

func (s *MemStore) Get(k string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, found := s.data[k]
	if !found {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *MemStore) Put(k string, v []byte) error {
	stored := make([]byte, len(v))
	copy(stored, v)
	s.mu.Lock()
	s.data[k] = stored
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Delete(k string) error {
	s.mu.Lock()
	delete(s.data, k)
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Exists(k string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, found := s.data[k]
	return found, nil
}

func (s *MemStore) List(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (s *MemStore) Close() error {
	return nil
}
