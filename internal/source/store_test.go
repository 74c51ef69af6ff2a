package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCachesContents(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "smali", "com", "example"), 0o755))
	target := filepath.Join(dir, "smali", "com", "example", "Foo.smali")
	require.NoError(t, os.WriteFile(target, []byte(".class public Lcom/example/Foo;\n"), 0o644))

	s := New(dir)
	contents, err := s.Read("smali/com/example/Foo.smali")
	require.NoError(t, err)
	assert.Contains(t, contents, ".class public Lcom/example/Foo;")

	require.NoError(t, os.Remove(target))
	contents2, err := s.Read("smali/com/example/Foo.smali")
	require.NoError(t, err)
	assert.Equal(t, contents, contents2)
}

func TestReadMissingFile(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Read("missing.smali")
	assert.Error(t, err)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.smali"), []byte("x"), 0o644))
	s := New(dir)
	assert.True(t, s.Exists("a.smali"))
	assert.False(t, s.Exists("b.smali"))
}
