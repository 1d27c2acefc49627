package nightjar

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightjar-sec/nightjar/pkg/types"
)

func TestOpen_RecordRoundTrip(t *testing.T) {
	ds, err := Open(filepath.Join(t.TempDir(), "scan.ds"))
	require.NoError(t, err)
	defer ds.Close()

	content := []byte("api_key=abc123\n")
	id, err := ds.Record(&BlobReport{
		Content:    content,
		Provenance: FileProvenance("/repo/.env"),
		Matches: []*MatchReport{
			{
				Rule: &Rule{
					Name:   "Generic API Key",
					TextID: "np.apikey.1",
					Syntax: types.RuleSyntax{Pattern: `api_key=(\w+)`},
				},
				Location: Location{
					Offset: types.OffsetSpan{Start: 8, End: 14},
					Source: types.SourceSpan{
						Start: types.SourcePoint{Line: 1, Column: 9},
						End:   types.SourcePoint{Line: 1, Column: 15},
					},
				},
				Groups: [][]byte{[]byte("abc123")},
				Snippet: Snippet{
					Before:   []byte("api_key="),
					Matching: []byte("abc123"),
					After:    []byte("\n"),
				},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, ComputeBlobID(content), id)

	// Blob bytes are retained on disk
	stored, err := ds.BlobFiles.Get(id)
	require.NoError(t, err)
	assert.Equal(t, content, stored)

	counts, err := ds.Store.Counts()
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Matches)
}

func TestStatusConstants(t *testing.T) {
	assert.Equal(t, Status("accept"), StatusAccept)
	assert.Equal(t, Status("reject"), StatusReject)
}
