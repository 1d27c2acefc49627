package store

import (
	"encoding/json"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightjar-sec/nightjar/pkg/types"
)

func TestStore_Interface(t *testing.T) {
	var _ Store = (*SQLiteStore)(nil)
	var _ Store = (*MemoryStore)(nil)
	var _ Store = (*PostgresStore)(nil)
}

func TestNew_Dispatch(t *testing.T) {
	s, err := New(Config{Path: ":memory:"})
	require.NoError(t, err)
	defer s.Close()
	_, ok := s.(*MemoryStore)
	assert.True(t, ok)

	s, err = New(Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	defer s.Close()
	_, ok = s.(*SQLiteStore)
	assert.True(t, ok)

	_, err = New(Config{})
	assert.Error(t, err)
}

// eachStore runs fn against every backend that needs no external services.
func eachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("sqlite", func(t *testing.T) {
		s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
		require.NoError(t, err)
		defer s.Close()
		fn(t, s)
	})
	t.Run("memory", func(t *testing.T) {
		s := NewMemory()
		defer s.Close()
		fn(t, s)
	})
}

// seedMatch inserts blob, span, rule, finding, and one match, returning the refs.
func seedMatch(t *testing.T, s Store) (*BlobRef, *RuleRef, *FindingRef, *MatchRef) {
	t.Helper()

	content := []byte("password=123")
	blob, err := s.UpsertBlob(types.ComputeBlobID(content), int64(len(content)))
	require.NoError(t, err)

	loc := types.Location{
		Offset: types.OffsetSpan{Start: 9, End: 12},
		Source: types.SourceSpan{
			Start: types.SourcePoint{Line: 1, Column: 10},
			End:   types.SourcePoint{Line: 1, Column: 13},
		},
	}
	require.NoError(t, s.UpsertBlobSourceSpan(blob, loc))

	rule, err := s.UpsertRule(&types.Rule{
		Name:   "Password Assignment",
		TextID: "np.password.1",
		Syntax: types.RuleSyntax{Pattern: `password=(\d+)`},
	})
	require.NoError(t, err)

	finding, err := s.UpsertFinding(rule, [][]byte{[]byte("123")})
	require.NoError(t, err)

	match, err := s.UpsertMatch(finding, blob, loc.Offset, types.Snippet{
		Before:   []byte("password="),
		Matching: []byte("123"),
		After:    []byte(""),
	})
	require.NoError(t, err)

	return blob, rule, finding, match
}

func TestUpsertBlob_Idempotent(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		id := types.ComputeBlobID([]byte("hello world"))

		first, err := s.UpsertBlob(id, 11)
		require.NoError(t, err)
		second, err := s.UpsertBlob(id, 11)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, id, second.BlobID)
		assert.Equal(t, int64(11), second.Size)

		counts, err := s.Counts()
		require.NoError(t, err)
		assert.Equal(t, int64(1), counts.Blobs)
	})
}

func TestUpsertBlob_NegativeSize(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		_, err := s.UpsertBlob(types.ComputeBlobID([]byte("x")), -1)
		assert.Error(t, err)
	})
}

func TestBlobMetadata_Overwrite(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		id := types.ComputeBlobID([]byte("some text"))
		blob, err := s.UpsertBlob(id, 9)
		require.NoError(t, err)

		// Absent before any guess is recorded
		detail, err := s.BlobDetail(id)
		require.NoError(t, err)
		assert.Nil(t, detail.MimeEssence)
		assert.Nil(t, detail.Charset)

		require.NoError(t, s.SetBlobMimeEssence(blob, "text/plain"))
		require.NoError(t, s.SetBlobCharset(blob, "us-ascii"))

		// Last write wins
		require.NoError(t, s.SetBlobMimeEssence(blob, "application/json"))

		detail, err = s.BlobDetail(id)
		require.NoError(t, err)
		require.NotNil(t, detail.MimeEssence)
		assert.Equal(t, "application/json", *detail.MimeEssence)
		require.NotNil(t, detail.Charset)
		assert.Equal(t, "us-ascii", *detail.Charset)
	})
}

func TestBlobDetail_Unknown(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		_, err := s.BlobDetail(types.ComputeBlobID([]byte("never stored")))
		assert.ErrorIs(t, err, ErrMissingBlob)
	})
}

func TestAddBlobProvenance(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		id := types.ComputeBlobID([]byte("content"))
		blob, err := s.UpsertBlob(id, 7)
		require.NoError(t, err)

		require.NoError(t, s.AddBlobProvenance(blob, types.FileProvenance("/tmp/a")))

		// Exact duplicate is a no-op
		require.NoError(t, s.AddBlobProvenance(blob, types.FileProvenance("/tmp/a")))

		// Textual variant of the same object also deduplicates
		require.NoError(t, s.AddBlobProvenance(blob, json.RawMessage(`{ "path": "/tmp/a", "kind": "file" }`)))

		// A distinct record accumulates
		require.NoError(t, s.AddBlobProvenance(blob, types.FileProvenance("/tmp/b")))

		records, err := s.BlobProvenance(id)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}

func TestAddBlobProvenance_Invalid(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		blob, err := s.UpsertBlob(types.ComputeBlobID([]byte("x")), 1)
		require.NoError(t, err)

		for _, bad := range []string{`null`, `["a"]`, `"str"`, `42`, `{broken`} {
			err := s.AddBlobProvenance(blob, json.RawMessage(bad))
			assert.ErrorIs(t, err, ErrInvalidProvenance, "payload %s", bad)
		}

		records, err := s.BlobProvenance(blob.BlobID)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestUpsertBlobSourceSpan_Invalid(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		blob, err := s.UpsertBlob(types.ComputeBlobID([]byte("x")), 1)
		require.NoError(t, err)

		err = s.UpsertBlobSourceSpan(blob, types.Location{
			Offset: types.OffsetSpan{Start: 10, End: 5},
		})
		assert.ErrorIs(t, err, ErrInvalidSpan)
	})
}

func TestUpsertSnippet_Dedup(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		a, err := s.UpsertSnippet([]byte("context bytes"))
		require.NoError(t, err)
		b, err := s.UpsertSnippet([]byte("context bytes"))
		require.NoError(t, err)
		assert.Equal(t, a.ID, b.ID)

		c, err := s.UpsertSnippet([]byte("different"))
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, c.ID)
	})
}

func TestUpsertRule(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		r := &types.Rule{
			Name:   "Generic API Key",
			TextID: "np.generic.1",
			Syntax: types.RuleSyntax{Pattern: `api_key=(\w+)`},
		}

		first, err := s.UpsertRule(r)
		require.NoError(t, err)
		assert.Equal(t, r.StructuralID(), first.StructuralID)

		second, err := s.UpsertRule(r)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		counts, err := s.Counts()
		require.NoError(t, err)
		assert.Equal(t, int64(1), counts.Rules)
	})
}

func TestUpsertRule_MetadataRefresh(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		first, err := s.UpsertRule(&types.Rule{
			Name:   "Old Name",
			TextID: "np.old.1",
			Syntax: types.RuleSyntax{Pattern: `token-[0-9]+`},
		})
		require.NoError(t, err)

		// Same pattern, renamed rule: same identity, refreshed metadata
		second, err := s.UpsertRule(&types.Rule{
			Name:   "New Name",
			TextID: "np.new.1",
			Syntax: types.RuleSyntax{Pattern: `token-[0-9]+`},
		})
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "New Name", second.Name)
		assert.Equal(t, "np.new.1", second.TextID)

		summaries, err := s.RuleSummaries()
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, "New Name", summaries[0].RuleName)
	})
}

func TestUpsertRule_IdentityConflict(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		_, err := s.UpsertRule(&types.Rule{
			Name:   "A",
			TextID: "np.a.1",
			Syntax: types.RuleSyntax{Pattern: `secret-[0-9]+`, Description: "one"},
		})
		require.NoError(t, err)

		// Same pattern hash but different syntax payload must not overwrite
		_, err = s.UpsertRule(&types.Rule{
			Name:   "A",
			TextID: "np.a.1",
			Syntax: types.RuleSyntax{Pattern: `secret-[0-9]+`, Description: "two"},
		})
		assert.ErrorIs(t, err, ErrRuleIdentityConflict)
	})
}

func TestUpsertFinding_Idempotent(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		rule, err := s.UpsertRule(&types.Rule{
			Name:   "R",
			TextID: "np.r.1",
			Syntax: types.RuleSyntax{Pattern: `x=(\d+)`},
		})
		require.NoError(t, err)

		groups := [][]byte{[]byte("42")}
		first, err := s.UpsertFinding(rule, groups)
		require.NoError(t, err)
		assert.Equal(t, types.ComputeFindingID(rule.StructuralID, groups), first.FindingID)

		second, err := s.UpsertFinding(rule, groups)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		// Different groups give a different finding
		other, err := s.UpsertFinding(rule, [][]byte{[]byte("7")})
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, other.ID)

		counts, err := s.Counts()
		require.NoError(t, err)
		assert.Equal(t, int64(2), counts.Findings)
	})
}

func TestUpsertMatch_RequiresSpan(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		content := []byte("password=123")
		blob, err := s.UpsertBlob(types.ComputeBlobID(content), int64(len(content)))
		require.NoError(t, err)

		rule, err := s.UpsertRule(&types.Rule{
			Name:   "R",
			TextID: "np.r.1",
			Syntax: types.RuleSyntax{Pattern: `password=(\d+)`},
		})
		require.NoError(t, err)
		finding, err := s.UpsertFinding(rule, [][]byte{[]byte("123")})
		require.NoError(t, err)

		// No span recorded for the byte range yet
		_, err = s.UpsertMatch(finding, blob, types.OffsetSpan{Start: 9, End: 12}, types.Snippet{})
		assert.ErrorIs(t, err, ErrMissingSpan)

		// Nothing should have been written
		counts, err := s.Counts()
		require.NoError(t, err)
		assert.Equal(t, int64(0), counts.Matches)

		// After recording the span the same insert succeeds
		require.NoError(t, s.UpsertBlobSourceSpan(blob, types.Location{
			Offset: types.OffsetSpan{Start: 9, End: 12},
			Source: types.SourceSpan{
				Start: types.SourcePoint{Line: 1, Column: 10},
				End:   types.SourcePoint{Line: 1, Column: 13},
			},
		}))
		_, err = s.UpsertMatch(finding, blob, types.OffsetSpan{Start: 9, End: 12}, types.Snippet{})
		assert.NoError(t, err)
	})
}

func TestUpsertMatch_Idempotent(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		blob, rule, finding, match := seedMatch(t, s)

		expected := types.ComputeMatchStructuralID(rule.StructuralID, blob.BlobID, types.OffsetSpan{Start: 9, End: 12})
		assert.Equal(t, expected, match.StructuralID)

		again, err := s.UpsertMatch(finding, blob, types.OffsetSpan{Start: 9, End: 12}, types.Snippet{
			Before:   []byte("password="),
			Matching: []byte("123"),
			After:    []byte(""),
		})
		require.NoError(t, err)
		assert.Equal(t, match.ID, again.ID)

		counts, err := s.Counts()
		require.NoError(t, err)
		assert.Equal(t, int64(1), counts.Matches)
	})
}

func TestUpsertMatch_InvalidOffsets(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		blob, _, finding, _ := seedMatch(t, s)

		_, err := s.UpsertMatch(finding, blob, types.OffsetSpan{Start: 5, End: 2}, types.Snippet{})
		assert.ErrorIs(t, err, ErrInvalidSpan)
	})
}

func TestMatchByStructuralID(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		_, _, _, match := seedMatch(t, s)

		found, err := s.MatchByStructuralID(match.StructuralID)
		require.NoError(t, err)
		assert.Equal(t, match.ID, found.ID)
		assert.Equal(t, match.FindingID, found.FindingID)

		_, err = s.MatchByStructuralID("0000000000000000000000000000000000000000")
		assert.ErrorIs(t, err, ErrMissingMatch)
	})
}

func TestFindingByID(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		_, rule, finding, _ := seedMatch(t, s)

		found, err := s.FindingByID(finding.FindingID)
		require.NoError(t, err)
		assert.Equal(t, finding.ID, found.ID)
		assert.Equal(t, rule.StructuralID, found.RuleStructuralID)

		_, err = s.FindingByID("0000000000000000000000000000000000000000")
		assert.ErrorIs(t, err, ErrMissingFinding)
	})
}

func TestMatchOverlays(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		_, _, _, match := seedMatch(t, s)

		require.NoError(t, s.SetMatchStatus(match, types.StatusAccept))
		require.NoError(t, s.SetMatchComment(match, "looks real"))
		require.NoError(t, s.SetMatchScore(match, 0.9))

		details, err := s.MatchDetails()
		require.NoError(t, err)
		require.Len(t, details, 1)
		d := details[0]
		require.NotNil(t, d.Status)
		assert.Equal(t, types.StatusAccept, *d.Status)
		require.NotNil(t, d.Comment)
		assert.Equal(t, "looks real", *d.Comment)
		require.NotNil(t, d.Score)
		assert.Equal(t, 0.9, *d.Score)

		// Last write wins, overlays stay independent of each other
		require.NoError(t, s.SetMatchStatus(match, types.StatusReject))
		require.NoError(t, s.SetMatchScore(match, 0.1))

		details, err = s.MatchDetails()
		require.NoError(t, err)
		require.Len(t, details, 1)
		d = details[0]
		assert.Equal(t, types.StatusReject, *d.Status)
		assert.Equal(t, 0.1, *d.Score)
		assert.Equal(t, "looks real", *d.Comment)
	})
}

func TestMatchOverlays_Validation(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		_, _, finding, match := seedMatch(t, s)

		assert.ErrorIs(t, s.SetMatchStatus(match, types.Status("maybe")), ErrInvalidStatus)
		assert.ErrorIs(t, s.SetMatchComment(match, ""), ErrEmptyComment)
		assert.ErrorIs(t, s.SetMatchScore(match, -0.1), ErrScoreOutOfRange)
		assert.ErrorIs(t, s.SetMatchScore(match, 1.1), ErrScoreOutOfRange)
		assert.ErrorIs(t, s.SetMatchScore(match, math.NaN()), ErrScoreOutOfRange)
		assert.ErrorIs(t, s.SetFindingComment(finding, ""), ErrEmptyComment)

		// Rejected scores leave no overlay row behind
		rollups, err := s.FindingRollups()
		require.NoError(t, err)
		require.Len(t, rollups, 1)
		assert.Nil(t, rollups[0].MeanScore)

		// Boundary scores are legal
		assert.NoError(t, s.SetMatchScore(match, 0))
		assert.NoError(t, s.SetMatchScore(match, 1))
	})
}

func TestMatchOverlays_SurviveReingestion(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		_, _, finding, match := seedMatch(t, s)

		require.NoError(t, s.SetMatchStatus(match, types.StatusAccept))
		require.NoError(t, s.SetMatchComment(match, "confirmed leak"))
		require.NoError(t, s.SetMatchScore(match, 0.8))
		require.NoError(t, s.SetFindingComment(finding, "rotate credential"))

		// Re-running the identical upsert chain must not touch the overlays.
		_, _, finding2, match2 := seedMatch(t, s)
		assert.Equal(t, match.StructuralID, match2.StructuralID)

		details, err := s.MatchDetails()
		require.NoError(t, err)
		require.Len(t, details, 1)
		require.NotNil(t, details[0].Status)
		assert.Equal(t, types.StatusAccept, *details[0].Status)
		require.NotNil(t, details[0].Comment)
		assert.Equal(t, "confirmed leak", *details[0].Comment)
		require.NotNil(t, details[0].Score)
		assert.Equal(t, 0.8, *details[0].Score)

		rollups, err := s.FindingRollups()
		require.NoError(t, err)
		require.Len(t, rollups, 1)
		assert.Equal(t, finding2.FindingID, rollups[0].FindingID)
		require.NotNil(t, rollups[0].Comment)
		assert.Equal(t, "rotate credential", *rollups[0].Comment)
	})
}

func TestMatchOverlays_MissingTarget(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		seedMatch(t, s)

		ghostMatch := &MatchRef{ID: 9999}
		assert.ErrorIs(t, s.SetMatchStatus(ghostMatch, types.StatusAccept), ErrMissingMatch)
		assert.ErrorIs(t, s.SetMatchComment(ghostMatch, "c"), ErrMissingMatch)
		assert.ErrorIs(t, s.SetMatchScore(ghostMatch, 0.5), ErrMissingMatch)

		ghostFinding := &FindingRef{ID: 9999}
		assert.ErrorIs(t, s.SetFindingComment(ghostFinding, "c"), ErrMissingFinding)
	})
}

func TestMatchDetails(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		blob, rule, finding, match := seedMatch(t, s)

		details, err := s.MatchDetails()
		require.NoError(t, err)
		require.Len(t, details, 1)

		d := details[0]
		assert.Equal(t, match.StructuralID, d.StructuralID)
		assert.Equal(t, finding.FindingID, d.FindingID)
		assert.Equal(t, rule.StructuralID, d.RuleStructuralID)
		assert.Equal(t, "np.password.1", d.RuleTextID)
		assert.Equal(t, "Password Assignment", d.RuleName)
		assert.Equal(t, blob.BlobID, d.BlobID)
		assert.Equal(t, types.OffsetSpan{Start: 9, End: 12}, d.Location.Offset)
		assert.Equal(t, int64(1), d.Location.Source.Start.Line)
		assert.Equal(t, [][]byte{[]byte("123")}, d.Groups)
		assert.Equal(t, []byte("password="), d.Snippet.Before)
		assert.Equal(t, []byte("123"), d.Snippet.Matching)
		assert.Nil(t, d.Status)
		assert.Nil(t, d.Comment)
		assert.Nil(t, d.Score)
	})
}

func TestFindingRollups_MeanScore(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		content := []byte("key=aaa key=aaa key=aaa extra")
		blob, err := s.UpsertBlob(types.ComputeBlobID(content), int64(len(content)))
		require.NoError(t, err)

		rule, err := s.UpsertRule(&types.Rule{
			Name:   "Key Rule",
			TextID: "np.key.1",
			Syntax: types.RuleSyntax{Pattern: `key=(\w+)`},
		})
		require.NoError(t, err)
		finding, err := s.UpsertFinding(rule, [][]byte{[]byte("aaa")})
		require.NoError(t, err)

		// Three occurrences of the same finding at different offsets
		var matches []*MatchRef
		for _, span := range []types.OffsetSpan{{Start: 0, End: 7}, {Start: 8, End: 15}, {Start: 16, End: 23}} {
			require.NoError(t, s.UpsertBlobSourceSpan(blob, types.Location{
				Offset: span,
				Source: types.SourceSpan{
					Start: types.SourcePoint{Line: 1, Column: span.Start + 1},
					End:   types.SourcePoint{Line: 1, Column: span.End},
				},
			}))
			m, err := s.UpsertMatch(finding, blob, span, types.Snippet{Matching: []byte("key=aaa")})
			require.NoError(t, err)
			matches = append(matches, m)
		}

		// Scores 0.2 and 0.4 set, third match unscored
		require.NoError(t, s.SetMatchScore(matches[0], 0.2))
		require.NoError(t, s.SetMatchScore(matches[1], 0.4))
		require.NoError(t, s.SetMatchStatus(matches[0], types.StatusAccept))
		require.NoError(t, s.SetMatchStatus(matches[1], types.StatusAccept))
		require.NoError(t, s.SetMatchStatus(matches[2], types.StatusReject))
		require.NoError(t, s.SetFindingComment(finding, "triaged"))

		rollups, err := s.FindingRollups()
		require.NoError(t, err)
		require.Len(t, rollups, 1)

		ru := rollups[0]
		assert.Equal(t, finding.FindingID, ru.FindingID)
		assert.Equal(t, int64(3), ru.NumMatches)
		require.NotNil(t, ru.MeanScore)
		assert.InDelta(t, 0.3, *ru.MeanScore, 1e-9)
		require.NotNil(t, ru.Comment)
		assert.Equal(t, "triaged", *ru.Comment)
		assert.Equal(t, []types.Status{types.StatusAccept, types.StatusReject}, ru.Statuses)
	})
}

func TestFindingRollups_Unscored(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		seedMatch(t, s)

		rollups, err := s.FindingRollups()
		require.NoError(t, err)
		require.Len(t, rollups, 1)
		assert.Equal(t, int64(1), rollups[0].NumMatches)
		assert.Nil(t, rollups[0].MeanScore)
		assert.Nil(t, rollups[0].Comment)
		assert.Empty(t, rollups[0].Statuses)
	})
}

func TestRuleSummaries(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		blob, rule, _, _ := seedMatch(t, s)

		// A second finding for the same rule, with one match
		finding2, err := s.UpsertFinding(rule, [][]byte{[]byte("456")})
		require.NoError(t, err)
		span := types.OffsetSpan{Start: 0, End: 3}
		require.NoError(t, s.UpsertBlobSourceSpan(blob, types.Location{
			Offset: span,
			Source: types.SourceSpan{
				Start: types.SourcePoint{Line: 1, Column: 1},
				End:   types.SourcePoint{Line: 1, Column: 4},
			},
		}))
		_, err = s.UpsertMatch(finding2, blob, span, types.Snippet{Matching: []byte("pas")})
		require.NoError(t, err)

		// A rule with no findings at all
		_, err = s.UpsertRule(&types.Rule{
			Name:   "Zero Hits",
			TextID: "np.zero.1",
			Syntax: types.RuleSyntax{Pattern: `never-matches-[0-9]{64}`},
		})
		require.NoError(t, err)

		summaries, err := s.RuleSummaries()
		require.NoError(t, err)
		require.Len(t, summaries, 2)

		// Ordered by rule name
		assert.Equal(t, "Password Assignment", summaries[0].RuleName)
		assert.Equal(t, int64(2), summaries[0].DistinctFindings)
		assert.Equal(t, int64(2), summaries[0].TotalMatches)

		assert.Equal(t, "Zero Hits", summaries[1].RuleName)
		assert.Equal(t, int64(0), summaries[1].DistinctFindings)
		assert.Equal(t, int64(0), summaries[1].TotalMatches)
	})
}

func TestCounts(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		counts, err := s.Counts()
		require.NoError(t, err)
		assert.Equal(t, &Counts{}, counts)

		seedMatch(t, s)

		counts, err = s.Counts()
		require.NoError(t, err)
		assert.Equal(t, int64(1), counts.Blobs)
		assert.Equal(t, int64(1), counts.Rules)
		assert.Equal(t, int64(1), counts.Findings)
		assert.Equal(t, int64(1), counts.Matches)
	})
}

func TestReopen_PersistsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")

	s, err := NewSQLite(path)
	require.NoError(t, err)
	_, _, _, match := seedMatch(t, s)
	require.NoError(t, s.SetMatchStatus(match, types.StatusAccept))
	require.NoError(t, s.Close())

	s, err = NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	counts, err := s.Counts()
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Matches)

	details, err := s.MatchDetails()
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.NotNil(t, details[0].Status)
	assert.Equal(t, types.StatusAccept, *details[0].Status)
}
