package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JaneliaSciComp/xarray-ome-ngff/ngff"

	"github.com/blang/semver"
	"github.com/dgraph-io/badger/v3"
)

// DefaultSyncWrites is true if all writes are synced to disk, thereby making
// the db resilient at cost of speed.
const DefaultSyncWrites = false

func init() {
	ver, err := semver.Make("0.1.0")
	if err != nil {
		panic(fmt.Sprintf("unable to make semver for badger engine: %v", err))
	}
	RegisterEngine(badgerEngine{"badger", "BadgerDB", ver})
}

// --- Engine Implementation ------

type badgerEngine struct {
	name   string
	desc   string
	semver semver.Version
}

func (e badgerEngine) GetName() string {
	return e.name
}

func (e badgerEngine) GetDescription() string {
	return e.desc
}

func (e badgerEngine) GetSemVer() semver.Version {
	return e.semver
}

// NewStore returns a badger-backed store.  The passed config must contain a
// "path" string; if "testing" is true the db is placed under the OS temp dir.
func (e badgerEngine) NewStore(config StoreConfig) (KeyValue, error) {
	path, testing, err := parsePathConfig(config)
	if err != nil {
		return nil, err
	}
	if testing {
		path = filepath.Join(os.TempDir(), path)
	}
	opts := badger.DefaultOptions(path)
	opts = opts.WithSyncWrites(DefaultSyncWrites)
	opts = opts.WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("could not open badger db @ %q: %w", path, err)
	}
	ngff.Infof("Opened badger db @ %s\n", path)
	return &BadgerStore{db: db, directory: path}, nil
}

// BadgerStore is a KeyValue store backed by a BadgerDB instance.
type BadgerStore struct {
	db        *badger.DB
	directory string
}

func (s *BadgerStore) String() string {
	return fmt.Sprintf("badger @ %s", s.directory)
}

func (s *BadgerStore) Get(k string) (value []byte, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(k))
		if err == badger.ErrKeyNotFound {
			return ErrKeyNotFound
		}
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	return
}

func (s *BadgerStore) Put(k string, v []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(k), v)
	})
}

func (s *BadgerStore) Delete(k string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(k))
	})
}

func (s *BadgerStore) Exists(k string) (found bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(k))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	return
}

func (s *BadgerStore) List(prefix string) (keys []string, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			k := string(it.Item().Key())
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		return nil
	})
	return
}

func (s *BadgerStore) Close() error {
	ngff.Infof("Closing badger db @ %s\n", s.directory)
	return s.db.Close()
}
