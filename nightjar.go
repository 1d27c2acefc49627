// Package nightjar provides a persistent store for secret scanning results.
//
// Nightjar records the immutable artifacts of a secret scan (blobs, rules,
// findings, matches, snippets, provenance) under content-derived identities,
// so recording the same result twice is always a harmless no-op, and layers
// mutable triage annotations (status, comments, scores) on top.
//
// # Basic Usage
//
// Open a datastore directory and record a scanned blob:
//
//	ds, err := nightjar.Open("scan.ds")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ds.Close()
//
//	id, err := ds.Record(&nightjar.BlobReport{
//	    Content:    content,
//	    Provenance: nightjar.FileProvenance("secrets.env"),
//	    Matches:    matches,
//	})
//
// The store can then be queried through ds.Store, or reported on with the
// nightjar CLI.
package nightjar

import (
	"github.com/nightjar-sec/nightjar/pkg/datastore"
	"github.com/nightjar-sec/nightjar/pkg/store"
	"github.com/nightjar-sec/nightjar/pkg/types"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/nightjar-sec/nightjar" without subpackages.
type (
	// Datastore is an on-disk datastore directory.
	Datastore = datastore.Datastore

	// BlobReport bundles one scanned blob with its matches for recording.
	BlobReport = datastore.BlobReport

	// MatchReport is one detected match inside a BlobReport.
	MatchReport = datastore.MatchReport

	// Store is the persistence interface backing a datastore.
	Store = store.Store

	// BlobID is the git-style SHA-1 content identity of a blob.
	BlobID = types.BlobID

	// Rule is a detection rule.
	Rule = types.Rule

	// Snippet is the context surrounding a match.
	Snippet = types.Snippet

	// Location is the byte and line/column extent of a match.
	Location = types.Location

	// Status is a triage label for a match.
	Status = types.Status
)

// Triage status values.
const (
	StatusAccept = types.StatusAccept
	StatusReject = types.StatusReject
)

// ComputeBlobID returns the content identity of a blob.
func ComputeBlobID(content []byte) BlobID {
	return types.ComputeBlobID(content)
}

// FileProvenance returns a provenance record for a plain file path.
var FileProvenance = types.FileProvenance

// GitProvenance returns a provenance record for a blob found in a git repo.
var GitProvenance = types.GitProvenance

// Open opens (creating if needed) a datastore directory with blob file
// storage enabled.
func Open(path string) (*Datastore, error) {
	return datastore.Open(path, datastore.Options{StoreBlobs: true})
}
