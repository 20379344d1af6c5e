package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	t.Run("directory", func(t *testing.T) {
		ok, err := IsDirectory(dir)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("regular_file", func(t *testing.T) {
		ok, err := IsDirectory(file)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing", func(t *testing.T) {
		ok, err := IsDirectory(filepath.Join(dir, "nope"))
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestEnsureDirectory_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c")

	require.NoError(t, EnsureDirectory(path))
	require.NoError(t, EnsureDirectory(path))

	ok, err := IsDirectory(path)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")

	require.NoError(t, WriteFile(path, []byte{1, 2, 3}))
	require.NoError(t, WriteFile(path, []byte{4}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{4}, data)
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "out.bin"), []byte("x"))
	assert.Error(t, err)
}
