package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.nomake.dev/nomake/internal/adapters/fs"
)

func TestOSFileSystem_StatMissingIsNotAnError(t *testing.T) {
	osfs := fs.New()
	_, ok, err := osfs.Stat(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOSFileSystem_StatExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	osfs := fs.New()
	info, ok, err := osfs.Stat(path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(5), info.Size)
	assert.False(t, info.IsDir)
}

func TestOSFileSystem_RemoveMissingIsIdempotent(t *testing.T) {
	osfs := fs.New()
	err := osfs.Remove(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
}

func TestOSFileSystem_RemoveExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	osfs := fs.New()
	require.NoError(t, osfs.Remove(path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestOSFileSystem_WriteThenReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	osfs := fs.New()
	require.NoError(t, osfs.WriteFile(path, []byte("payload")))

	data, err := osfs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestOSFileSystem_ReadFileMissing(t *testing.T) {
	osfs := fs.New()
	_, err := osfs.ReadFile(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestOSFileSystem_Copy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dest := filepath.Join(dir, "dest.txt")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	osfs := fs.New()
	require.NoError(t, osfs.Copy(dest, src))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestOSFileSystem_CopyMissingSource(t *testing.T) {
	dir := t.TempDir()
	osfs := fs.New()
	err := osfs.Copy(filepath.Join(dir, "dest.txt"), filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
}
