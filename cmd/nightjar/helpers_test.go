package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nightjar-sec/nightjar/pkg/datastore"
	"github.com/nightjar-sec/nightjar/pkg/types"
)

// seedDatastore creates a datastore directory holding one recorded match
// and returns its path along with the match and finding identities.
func seedDatastore(t *testing.T) (path, matchID, findingID string) {
	t.Helper()

	path = filepath.Join(t.TempDir(), "test.ds")
	ds, err := datastore.Open(path, datastore.Options{})
	require.NoError(t, err)
	defer ds.Close()

	content := []byte("password=123\n")
	rule := &types.Rule{
		Name:   "Password Assignment",
		TextID: "np.password.1",
		Syntax: types.RuleSyntax{Pattern: `password=(\d+)`},
	}

	_, err = ds.Record(&datastore.BlobReport{
		Content:    content,
		Provenance: types.FileProvenance("/tmp/secrets.env"),
		Matches: []*datastore.MatchReport{
			{
				Rule: rule,
				Location: types.Location{
					Offset: types.OffsetSpan{Start: 9, End: 12},
					Source: types.SourceSpan{
						Start: types.SourcePoint{Line: 1, Column: 10},
						End:   types.SourcePoint{Line: 1, Column: 13},
					},
				},
				Groups: [][]byte{[]byte("123")},
				Snippet: types.Snippet{
					Before:   []byte("password="),
					Matching: []byte("123"),
					After:    []byte("\n"),
				},
			},
		},
	})
	require.NoError(t, err)

	blobID := types.ComputeBlobID(content)
	ruleSID := rule.StructuralID()
	matchID = types.ComputeMatchStructuralID(ruleSID, blobID, types.OffsetSpan{Start: 9, End: 12})
	findingID = types.ComputeFindingID(ruleSID, [][]byte{[]byte("123")})
	return path, matchID, findingID
}
