package datastore

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightjar-sec/nightjar/pkg/types"
)

func testRule() *types.Rule {
	return &types.Rule{
		Name:   "Password Assignment",
		TextID: "np.password.1",
		Syntax: types.RuleSyntax{Pattern: `password=(\d+)`},
	}
}

func testReport(content string) *BlobReport {
	return &BlobReport{
		Content:     []byte(content),
		Provenance:  types.FileProvenance("/tmp/" + content[:4]),
		MimeEssence: "text/plain",
		Charset:     "us-ascii",
		Matches: []*MatchReport{
			{
				Rule: testRule(),
				Location: types.Location{
					Offset: types.OffsetSpan{Start: 9, End: 12},
					Source: types.SourceSpan{
						Start: types.SourcePoint{Line: 1, Column: 10},
						End:   types.SourcePoint{Line: 1, Column: 13},
					},
				},
				Groups: [][]byte{[]byte(content[9:12])},
				Snippet: types.Snippet{
					Before:   []byte(content[:9]),
					Matching: []byte(content[9:12]),
					After:    []byte(content[12:]),
				},
			},
		},
	}
}

func TestRecord(t *testing.T) {
	ds, err := Open(filepath.Join(t.TempDir(), "test.ds"), Options{StoreBlobs: true})
	require.NoError(t, err)
	defer ds.Close()

	report := testReport("password=123\n")
	blobID, err := ds.Record(report)
	require.NoError(t, err)
	assert.Equal(t, types.ComputeBlobID(report.Content), blobID)

	// Blob content went to the file store as well
	content, err := ds.BlobFiles.Get(blobID)
	require.NoError(t, err)
	assert.Equal(t, report.Content, content)

	counts, err := ds.Store.Counts()
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Blobs)
	assert.Equal(t, int64(1), counts.Rules)
	assert.Equal(t, int64(1), counts.Findings)
	assert.Equal(t, int64(1), counts.Matches)

	detail, err := ds.Store.BlobDetail(blobID)
	require.NoError(t, err)
	require.NotNil(t, detail.MimeEssence)
	assert.Equal(t, "text/plain", *detail.MimeEssence)

	records, err := ds.Store.BlobProvenance(blobID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRecord_Idempotent(t *testing.T) {
	ds, err := Open(filepath.Join(t.TempDir(), "test.ds"), Options{})
	require.NoError(t, err)
	defer ds.Close()

	first, err := ds.Record(testReport("password=123\n"))
	require.NoError(t, err)
	second, err := ds.Record(testReport("password=123\n"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	counts, err := ds.Store.Counts()
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Blobs)
	assert.Equal(t, int64(1), counts.Matches)
}

func TestRecord_PreservesTriage(t *testing.T) {
	ds, err := Open(filepath.Join(t.TempDir(), "test.ds"), Options{})
	require.NoError(t, err)
	defer ds.Close()

	_, err = ds.Record(testReport("password=123\n"))
	require.NoError(t, err)

	details, err := ds.Store.MatchDetails()
	require.NoError(t, err)
	require.Len(t, details, 1)

	match, err := ds.Store.MatchByStructuralID(details[0].StructuralID)
	require.NoError(t, err)
	require.NoError(t, ds.Store.SetMatchStatus(match, types.StatusReject))
	require.NoError(t, ds.Store.SetMatchScore(match, 0.2))

	// Re-recording the same scan data leaves the annotations alone
	_, err = ds.Record(testReport("password=123\n"))
	require.NoError(t, err)

	details, err = ds.Store.MatchDetails()
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.NotNil(t, details[0].Status)
	assert.Equal(t, types.StatusReject, *details[0].Status)
	require.NotNil(t, details[0].Score)
	assert.Equal(t, 0.2, *details[0].Score)
}

func TestRecord_InvalidProvenance(t *testing.T) {
	ds, err := Open(filepath.Join(t.TempDir(), "test.ds"), Options{})
	require.NoError(t, err)
	defer ds.Close()

	report := testReport("password=123\n")
	report.Provenance = []byte(`"not an object"`)
	_, err = ds.Record(report)
	assert.Error(t, err)
}

func TestRecordAll(t *testing.T) {
	ds, err := Open(filepath.Join(t.TempDir(), "test.ds"), Options{})
	require.NoError(t, err)
	defer ds.Close()

	reports := make(chan *BlobReport)
	go func() {
		defer close(reports)
		for i := 0; i < 20; i++ {
			reports <- testReport(fmt.Sprintf("password=%03d\n", i))
		}
	}()

	require.NoError(t, ds.RecordAll(context.Background(), reports, 4))

	counts, err := ds.Store.Counts()
	require.NoError(t, err)
	assert.Equal(t, int64(20), counts.Blobs)
	assert.Equal(t, int64(20), counts.Matches)
	// All reports share the one rule
	assert.Equal(t, int64(1), counts.Rules)
}

func TestRecordAll_ContextCancel(t *testing.T) {
	ds, err := Open(filepath.Join(t.TempDir(), "test.ds"), Options{})
	require.NoError(t, err)
	defer ds.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Never closed; cancellation must unblock the workers
	reports := make(chan *BlobReport)
	err = ds.RecordAll(ctx, reports, 2)
	assert.ErrorIs(t, err, context.Canceled)
}
