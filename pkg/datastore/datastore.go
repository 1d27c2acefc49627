package datastore

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/nightjar-sec/nightjar/pkg/store"
)

// Datastore manages a directory-based datastore: a SQLite database for scan
// results plus an optional content-addressable blob file store.
type Datastore struct {
	Path      string      // directory path (e.g., "nightjar.ds")
	Store     store.Store // store for scan results and triage overlays
	BlobFiles *FileBlobStore // nil unless Options.StoreBlobs
}

// Options configures datastore behavior.
type Options struct {
	StoreBlobs bool // retain raw blob contents alongside scan results
}

// Open opens or creates a datastore directory.
func Open(path string, opts Options) (*Datastore, error) {
	if path == "" {
		return nil, fmt.Errorf("datastore path is required")
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("creating datastore directory: %w", err)
	}

	subdirs := []string{"scratch"}
	if opts.StoreBlobs {
		subdirs = append(subdirs, "blobs")
	}
	for _, subdir := range subdirs {
		if err := os.MkdirAll(filepath.Join(path, subdir), 0755); err != nil {
			return nil, fmt.Errorf("creating %s directory: %w", subdir, err)
		}
	}

	// Keep datastore contents out of version control.
	gitignorePath := filepath.Join(path, ".gitignore")
	if err := os.WriteFile(gitignorePath, []byte("*\n"), 0644); err != nil {
		return nil, fmt.Errorf("writing .gitignore: %w", err)
	}

	dbPath := filepath.Join(path, "datastore.db")
	s, err := store.New(store.Config{Path: dbPath})
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	ds := &Datastore{
		Path:  path,
		Store: s,
	}
	if opts.StoreBlobs {
		ds.BlobFiles = &FileBlobStore{Root: filepath.Join(path, "blobs")}
	}

	log.WithFields(log.Fields{
		"path":        path,
		"store_blobs": opts.StoreBlobs,
	}).Debug("opened datastore")

	return ds, nil
}

// Close closes the datastore and releases resources.
func (d *Datastore) Close() error {
	if d.Store != nil {
		return d.Store.Close()
	}
	return nil
}
