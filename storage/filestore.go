package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blang/semver"
)

func init() {
	ver, err := semver.Make("1.0.0")
	if err != nil {
		panic(fmt.Sprintf("unable to make semver for file engine: %v", err))
	}
	RegisterEngine(fileEngine{"file", "Directory store, one file per key", ver})
}

// --- Engine Implementation ------

type fileEngine struct {
	name   string
	desc   string
	semver semver.Version
}

func (e fileEngine) GetName() string {
	return e.name
}

func (e fileEngine) GetDescription() string {
	return e.desc
}

func (e fileEngine) GetSemVer() semver.Version {
	return e.semver
}

// NewStore returns a file store.  The passed config must contain a "path"
// string; if "testing" is true the path is placed under the OS temp dir.
func (e fileEngine) NewStore(config StoreConfig) (KeyValue, error) {
	root, testing, err := parsePathConfig(config)
	if err != nil {
		return nil, err
	}
	if testing {
		root = filepath.Join(os.TempDir(), root)
	}
	return NewFileStore(root)
}

func parsePathConfig(config StoreConfig) (path string, testing bool, err error) {
	path, found, err := config.GetString("path")
	if err != nil {
		return
	}
	if !found {
		err = fmt.Errorf("%q must be specified for %s engine configuration", "path", config.Engine)
		return
	}
	testing, _, err = config.GetBool("testing")
	return
}

// FileStore keeps one file per key under a root directory, with slashes in
// keys mapping to subdirectories.  This matches the on-disk layout Zarr
// directory stores use.
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("could not create file store root %q: %w", root, err)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) filename(k string) string {
	return filepath.Join(s.root, filepath.FromSlash(k))
}

func (s *FileStore) Get(k string) ([]byte, error) {
	data, err := os.ReadFile(s.filename(k))
	if os.IsNotExist(err) {
		return nil, ErrKeyNotFound
	}
	return data, err
}

func (s *FileStore) Put(k string, v []byte) error {
	fname := s.filename(k)
	if err := os.MkdirAll(filepath.Dir(fname), 0755); err != nil {
		return err
	}
	return os.WriteFile(fname, v, 0644)
}

func (s *FileStore) Delete(k string) error {
	err := os.Remove(s.filename(k))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *FileStore) Exists(k string) (bool, error) {
	_, err := os.Stat(s.filename(k))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (s *FileStore) List(prefix string) ([]string, error) {
	var keys []string
	err := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	return keys, err
}

func (s *FileStore) Close() error {
	return nil
}
