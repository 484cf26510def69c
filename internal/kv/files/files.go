// Package files implements kv.Store as one file per key inside a directory.
// Writes go to a temporary file that is renamed over the target, so a
// reader never sees a partial value.
package files

import (
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/trailmap/trailmap/internal/kv"
	"github.com/trailmap/trailmap/pkg/constants"
	"github.com/trailmap/trailmap/pkg/errors"
)

const (
	suffix     = ".json"
	tempPrefix = ".trailmap-tmp-"
)

// Store keeps each key in <dir>/<key>.json.
type Store struct {
	dir string
	mu  sync.Mutex
}

var _ kv.Store = (*Store)(nil)

// New creates dir if needed and returns a store rooted there.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.NewConfigError("cache", "directory is required", nil)
	}
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the root directory.
func (s *Store) Dir() string { return s.dir }

// fileName maps a key onto a safe file name. Keys made of letters, digits,
// '_' and '-' are used as is; anything else is hex encoded.
func fileName(key string) string {
	safe := key != "" && strings.IndexFunc(key, func(r rune) bool {
		return !(r == '_' || r == '-' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}) < 0
	if safe {
		return key + suffix
	}
	return "x-" + hex.EncodeToString([]byte(key)) + suffix
}

func keyName(file string) (string, bool) {
	base, ok := strings.CutSuffix(file, suffix)
	if !ok || strings.HasPrefix(file, tempPrefix) {
		return "", false
	}
	if enc, isHex := strings.CutPrefix(base, "x-"); isHex {
		raw, err := hex.DecodeString(enc)
		if err != nil {
			return "", false
		}
		return string(raw), true
	}
	return base, true
}

// Get implements kv.Store.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	path := filepath.Join(s.dir, fileName(key))
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.NewNotFoundError("key", key)
	}
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return data, nil
}

// Set implements kv.Store.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := filepath.Join(s.dir, fileName(key))
	if err := writeFileAtomic(path, value, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Delete implements kv.Store.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := filepath.Join(s.dir, fileName(key))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.WrapIO("delete", path, err)
	}
	return nil
}

// Keys implements kv.Store.
func (s *Store) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.WrapIO("read", s.dir, err)
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if k, ok := keyName(e.Name()); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close implements kv.Store.
func (s *Store) Close() error { return nil }

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over filename.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), tempPrefix+"*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filename)
}
