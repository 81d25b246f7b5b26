// Package cache persists the last successfully adopted configuration.
//
// The store is a flat one-key byte store: a single JSON file under a cache
// directory, written whole via a temp file and rename so concurrent
// readers never observe a torn value. It holds no merge or resolution
// logic.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/seatwise/flightconfig/internal/config"
)

// fileName is the well-known key the resolver uses.
const fileName = "configuration.json"

// Store is a file-backed configuration cache.
type Store struct {
	dir string
}

// New creates a store rooted at dir. The directory is created on first
// write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir returns the per-user cache directory for flightconfig.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolving user cache dir: %w", err)
	}
	return filepath.Join(base, "flightconfig"), nil
}

// Path returns the cache file path, for diagnostics and cache watching.
func (s *Store) Path() string {
	return filepath.Join(s.dir, fileName)
}

// Read returns the cached configuration. config.ErrAbsent when no cache
// file exists; a decode-class error when the file is malformed (callers
// treat both as "no cache").
func (s *Store) Read() (*config.Configuration, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, config.ErrAbsent
	}
	if err != nil {
		return nil, fmt.Errorf("reading cached configuration: %w", err)
	}
	return config.DecodeJSON(data)
}

// Write replaces the cached configuration atomically. Writing an equal
// value is a no-op in effect. The caller treats failure as non-fatal.
func (s *Store) Write(cfg *config.Configuration) error {
	data, err := config.EncodeJSON(cfg)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, fileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing cache file: %w", err)
	}

	if err := os.Rename(tmpName, s.Path()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}
