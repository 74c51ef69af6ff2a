// Package source is the central object that connects the driver to the
// disassembled smali tree on disk: it resolves a file reference from the
// program's growing file queue against a base directory and caches its
// contents, the way mem.Bus connects a CPU to a flat byte-addressed
// memory space, except addressed by path instead of offset.
package source

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store caches file contents read from under Root, keyed by the relative
// path a Program's file queue carries (e.g. "smali/com/example/Foo.smali").
type Store struct {
	Root string

	cache map[string]string
}

// New creates a Store rooted at root; root is typically a decompiled
// APK's extraction directory.
func New(root string) *Store {
	return &Store{Root: root, cache: map[string]string{}}
}

// Read returns the contents of path, relative to Root, reading from disk
// once and serving every subsequent call for the same path from cache.
func (s *Store) Read(path string) (string, error) {
	if contents, ok := s.cache[path]; ok {
		return contents, nil
	}

	full := filepath.Join(s.Root, path)
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("source: read %s: %w", path, err)
	}

	contents := string(data)
	s.cache[path] = contents
	return contents, nil
}

// Exists reports whether path can be resolved under Root without reading
// its contents into cache.
func (s *Store) Exists(path string) bool {
	_, err := os.Stat(filepath.Join(s.Root, path))
	return err == nil
}
