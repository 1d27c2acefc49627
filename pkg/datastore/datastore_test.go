package datastore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.ds")

	ds, err := Open(path, Options{StoreBlobs: true})
	require.NoError(t, err)
	defer ds.Close()

	assert.DirExists(t, path)
	assert.DirExists(t, filepath.Join(path, "scratch"))
	assert.DirExists(t, filepath.Join(path, "blobs"))
	assert.FileExists(t, filepath.Join(path, "datastore.db"))
	assert.NotNil(t, ds.Store)
	assert.NotNil(t, ds.BlobFiles)

	gitignore, err := os.ReadFile(filepath.Join(path, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "*\n", string(gitignore))
}

func TestOpen_WithoutBlobStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.ds")

	ds, err := Open(path, Options{})
	require.NoError(t, err)
	defer ds.Close()

	assert.Nil(t, ds.BlobFiles)
	assert.NoDirExists(t, filepath.Join(path, "blobs"))
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("", Options{})
	assert.Error(t, err)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.ds")

	ds, err := Open(path, Options{})
	require.NoError(t, err)
	require.NoError(t, ds.Close())

	// Reopening an existing datastore preserves its database
	ds, err = Open(path, Options{})
	require.NoError(t, err)
	defer ds.Close()

	counts, err := ds.Store.Counts()
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts.Blobs)
}
