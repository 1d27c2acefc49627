package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nightjar-sec/nightjar/pkg/types"
)

// Store provides persistence for scan results and triage overlays.
// This interface abstracts the underlying storage implementation,
// allowing for different backends (SQLite, PostgreSQL, in-memory).
//
// Every upsert is atomic get-or-create keyed on content identity:
// re-inserting existing content returns the existing row without error.
// Validation and referential failures are returned synchronously and leave
// no partial writes behind.
type Store interface {
	// UpsertBlob records a blob by content hash, returning the existing row
	// if the blob is already known.
	UpsertBlob(id types.BlobID, size int64) (*BlobRef, error)

	// SetBlobMimeEssence records a best-effort MIME guess (overwrite).
	SetBlobMimeEssence(blob *BlobRef, mimeEssence string) error

	// SetBlobCharset records a best-effort charset guess (overwrite).
	SetBlobCharset(blob *BlobRef, charset string) error

	// AddBlobProvenance appends a provenance record for a blob. Identical
	// records deduplicate; distinct records accumulate.
	AddBlobProvenance(blob *BlobRef, provenance json.RawMessage) error

	// UpsertBlobSourceSpan records the line/column mapping for a byte range.
	// A span must exist before any match referencing the same range.
	UpsertBlobSourceSpan(blob *BlobRef, loc types.Location) error

	// UpsertSnippet stores a byte sequence deduplicated by exact content.
	UpsertSnippet(content []byte) (*SnippetRef, error)

	// UpsertRule records a rule keyed by structural ID. Name and text ID
	// refresh on re-insert; a differing syntax under an existing structural
	// ID fails with ErrRuleIdentityConflict.
	UpsertRule(r *types.Rule) (*RuleRef, error)

	// UpsertFinding records a finding keyed by (rule, capture groups).
	UpsertFinding(rule *RuleRef, groups [][]byte) (*FindingRef, error)

	// UpsertMatch records one occurrence of a finding within a blob.
	// Fails with ErrMissingSpan unless UpsertBlobSourceSpan was called for
	// the same byte range first. The three context snippets are upserted as
	// part of the same transaction.
	UpsertMatch(finding *FindingRef, blob *BlobRef, offsets types.OffsetSpan, snippet types.Snippet) (*MatchRef, error)

	// SetMatchStatus assigns an accept/reject label (last write wins).
	SetMatchStatus(m *MatchRef, status types.Status) error

	// SetMatchComment assigns a free-text comment to a match (last write wins).
	SetMatchComment(m *MatchRef, comment string) error

	// SetMatchScore assigns a confidence score in [0, 1] (last write wins).
	SetMatchScore(m *MatchRef, score float64) error

	// SetFindingComment assigns a free-text comment to a finding
	// (last write wins).
	SetFindingComment(f *FindingRef, comment string) error

	// MatchByStructuralID looks up a match by its content-derived ID.
	MatchByStructuralID(structuralID string) (*MatchRef, error)

	// FindingByID looks up a finding by its content-derived ID.
	FindingByID(findingID string) (*FindingRef, error)

	// BlobDetail returns a blob with its optional MIME/charset guesses.
	BlobDetail(id types.BlobID) (*BlobDetail, error)

	// BlobProvenance returns all provenance records for a blob.
	BlobProvenance(id types.BlobID) ([]json.RawMessage, error)

	// MatchDetails returns every match joined with its finding, rule, blob,
	// span, snippets, and optional triage overlays, ordered by rule then
	// finding then blob then offset.
	MatchDetails() ([]*MatchDetail, error)

	// FindingRollups returns per-finding aggregates: match count, mean score
	// over scored matches, finding comment, distinct match statuses.
	FindingRollups() ([]*FindingRollup, error)

	// RuleSummaries returns per-rule aggregates: distinct finding count and
	// total match count.
	RuleSummaries() ([]*RuleSummary, error)

	// Counts returns total row counts for reporting.
	Counts() (*Counts, error)

	// Close closes the underlying storage.
	Close() error
}

// BlobRef identifies a stored blob row.
type BlobRef struct {
	ID     int64
	BlobID types.BlobID
	Size   int64
}

// SnippetRef identifies a stored snippet row.
type SnippetRef struct {
	ID int64
}

// RuleRef identifies a stored rule row.
type RuleRef struct {
	ID           int64
	StructuralID string
	Name         string
	TextID       string
}

// FindingRef identifies a stored finding row.
type FindingRef struct {
	ID               int64
	FindingID        string
	RuleID           int64
	RuleStructuralID string
}

// MatchRef identifies a stored match row.
type MatchRef struct {
	ID           int64
	StructuralID string
	FindingID    int64
}

// BlobDetail is a blob with its optional metadata guesses.
type BlobDetail struct {
	BlobID      types.BlobID `json:"blob_id"`
	Size        int64        `json:"size"`
	MimeEssence *string      `json:"mime_essence,omitempty"`
	Charset     *string      `json:"charset,omitempty"`
}

// MatchDetail is the fully joined per-match view.
type MatchDetail struct {
	StructuralID     string         `json:"structural_id"`
	FindingID        string         `json:"finding_id"`
	RuleStructuralID string         `json:"rule_structural_id"`
	RuleTextID       string         `json:"rule_text_id"`
	RuleName         string         `json:"rule_name"`
	BlobID           types.BlobID   `json:"blob_id"`
	Location         types.Location `json:"location"`
	Groups           [][]byte       `json:"groups"`
	Snippet          types.Snippet  `json:"snippet"`
	Status           *types.Status  `json:"status,omitempty"`
	Comment          *string        `json:"comment,omitempty"`
	Score            *float64       `json:"score,omitempty"`
}

// FindingRollup is the per-finding aggregate view.
type FindingRollup struct {
	FindingID        string         `json:"finding_id"`
	RuleStructuralID string         `json:"rule_structural_id"`
	RuleTextID       string         `json:"rule_text_id"`
	RuleName         string         `json:"rule_name"`
	Groups           [][]byte       `json:"groups"`
	NumMatches       int64          `json:"num_matches"`
	MeanScore        *float64       `json:"mean_score,omitempty"`
	Comment          *string        `json:"comment,omitempty"`
	Statuses         []types.Status `json:"statuses"`
}

// RuleSummary is the per-rule aggregate view.
type RuleSummary struct {
	RuleStructuralID string `json:"rule_structural_id"`
	RuleTextID       string `json:"rule_text_id"`
	RuleName         string `json:"rule_name"`
	DistinctFindings int64  `json:"distinct_findings"`
	TotalMatches     int64  `json:"total_matches"`
}

// Counts holds total row counts.
type Counts struct {
	Blobs    int64 `json:"blobs"`
	Rules    int64 `json:"rules"`
	Findings int64 `json:"findings"`
	Matches  int64 `json:"matches"`
}

// Config for store initialization.
type Config struct {
	// Path selects the backend:
	//   ":memory:"                 in-memory store (useful for testing)
	//   "postgres://..." URL       PostgreSQL via pgx
	//   anything else              SQLite database file
	Path string
}

// New creates a Store for the configured backend.
func New(cfg Config) (Store, error) {
	switch {
	case cfg.Path == "":
		return nil, fmt.Errorf("path is required")
	case cfg.Path == ":memory:":
		return NewMemory(), nil
	case strings.HasPrefix(cfg.Path, "postgres://") || strings.HasPrefix(cfg.Path, "postgresql://"):
		return NewPostgres(cfg.Path)
	default:
		return NewSQLite(cfg.Path)
	}
}
