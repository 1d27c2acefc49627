package store

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/nightjar-sec/nightjar/pkg/types"
)

type memBlob struct {
	id          int64
	blobID      types.BlobID
	size        int64
	mimeEssence *string
	charset     *string
	provenance  []string            // canonical JSON, insertion order
	provSeen    map[string]struct{} // dedup set over provenance
	spans       map[[2]int64]types.Location
}

type memRule struct {
	id           int64
	name         string
	textID       string
	structuralID string
	syntax       string
}

type memFinding struct {
	id        int64
	findingID string
	ruleID    int64
	groups    string
	comment   *string
}

type memMatch struct {
	id           int64
	structuralID string
	findingID    int64
	blobID       int64
	offsets      types.OffsetSpan
	snippet      types.Snippet
	status       *types.Status
	comment      *string
	score        *float64
}

// MemoryStore implements Store using in-memory data structures.
// Useful for testing and for environments without a database file.
type MemoryStore struct {
	mu sync.RWMutex

	nextID   int64
	blobs    map[string]*memBlob   // keyed by BlobID.Hex()
	blobByID map[int64]*memBlob    // keyed by surrogate id
	rules    map[string]*memRule   // keyed by structural id
	snippets map[string]int64      // content -> surrogate id
	findings map[string]*memFinding // keyed by finding id
	findByID map[int64]*memFinding
	matches  map[string]*memMatch // keyed by structural id
	matchKey map[string]*memMatch // keyed by (blob, start, end, finding)
	matchID  map[int64]*memMatch
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		blobs:    make(map[string]*memBlob),
		blobByID: make(map[int64]*memBlob),
		rules:    make(map[string]*memRule),
		snippets: make(map[string]int64),
		findings: make(map[string]*memFinding),
		findByID: make(map[int64]*memFinding),
		matches:  make(map[string]*memMatch),
		matchKey: make(map[string]*memMatch),
		matchID:  make(map[int64]*memMatch),
	}
}

// Close releases resources (a no-op for the memory backend).
func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) allocID() int64 {
	m.nextID++
	return m.nextID
}

// UpsertBlob records a blob by content hash.
func (m *MemoryStore) UpsertBlob(id types.BlobID, size int64) (*BlobRef, error) {
	if size < 0 {
		return nil, fmt.Errorf("blob size must be non-negative, got %d", size)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := id.Hex()
	b, ok := m.blobs[key]
	if !ok {
		b = &memBlob{
			id:       m.allocID(),
			blobID:   id,
			size:     size,
			provSeen: make(map[string]struct{}),
			spans:    make(map[[2]int64]types.Location),
		}
		m.blobs[key] = b
		m.blobByID[b.id] = b
	}
	return &BlobRef{ID: b.id, BlobID: b.blobID, Size: b.size}, nil
}

func (m *MemoryStore) blob(ref *BlobRef) (*memBlob, error) {
	b, ok := m.blobByID[ref.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingBlob, ref.BlobID)
	}
	return b, nil
}

// SetBlobMimeEssence records a best-effort MIME guess (overwrite).
func (m *MemoryStore) SetBlobMimeEssence(blob *BlobRef, mimeEssence string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.blob(blob)
	if err != nil {
		return err
	}
	b.mimeEssence = &mimeEssence
	return nil
}

// SetBlobCharset records a best-effort charset guess (overwrite).
func (m *MemoryStore) SetBlobCharset(blob *BlobRef, charset string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.blob(blob)
	if err != nil {
		return err
	}
	b.charset = &charset
	return nil
}

// AddBlobProvenance appends a provenance record, deduplicating identical ones.
func (m *MemoryStore) AddBlobProvenance(blob *BlobRef, provenance json.RawMessage) error {
	canonical, err := types.CanonicalizeProvenance(provenance)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProvenance, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.blob(blob)
	if err != nil {
		return err
	}

	key := string(canonical)
	if _, seen := b.provSeen[key]; seen {
		return nil
	}
	b.provSeen[key] = struct{}{}
	b.provenance = append(b.provenance, key)
	return nil
}

// UpsertBlobSourceSpan records the line/column mapping for a byte range.
func (m *MemoryStore) UpsertBlobSourceSpan(blob *BlobRef, loc types.Location) error {
	if err := loc.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSpan, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.blob(blob)
	if err != nil {
		return err
	}

	key := [2]int64{loc.Offset.Start, loc.Offset.End}
	if _, ok := b.spans[key]; !ok {
		b.spans[key] = loc
	}
	return nil
}

// UpsertSnippet stores a byte sequence deduplicated by exact content.
func (m *MemoryStore) UpsertSnippet(content []byte) (*SnippetRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return &SnippetRef{ID: m.upsertSnippetLocked(content)}, nil
}

func (m *MemoryStore) upsertSnippetLocked(content []byte) int64 {
	key := string(content)
	if id, ok := m.snippets[key]; ok {
		return id
	}
	id := m.allocID()
	m.snippets[key] = id
	return id
}

// UpsertRule records a rule keyed by structural ID.
func (m *MemoryStore) UpsertRule(r *types.Rule) (*RuleRef, error) {
	structuralID := r.StructuralID()
	syntaxJSON, err := r.SyntaxJSON()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.rules[structuralID]
	if ok {
		if existing.syntax != string(syntaxJSON) {
			return nil, fmt.Errorf("%w: %s", ErrRuleIdentityConflict, structuralID)
		}
		existing.name = r.Name
		existing.textID = r.TextID
		return &RuleRef{ID: existing.id, StructuralID: structuralID, Name: r.Name, TextID: r.TextID}, nil
	}

	rule := &memRule{
		id:           m.allocID(),
		name:         r.Name,
		textID:       r.TextID,
		structuralID: structuralID,
		syntax:       string(syntaxJSON),
	}
	m.rules[structuralID] = rule
	return &RuleRef{ID: rule.id, StructuralID: structuralID, Name: r.Name, TextID: r.TextID}, nil
}

// UpsertFinding records a finding keyed by (rule, capture groups).
func (m *MemoryStore) UpsertFinding(rule *RuleRef, groups [][]byte) (*FindingRef, error) {
	findingID := types.ComputeFindingID(rule.StructuralID, groups)

	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.findings[findingID]
	if !ok {
		f = &memFinding{
			id:        m.allocID(),
			findingID: findingID,
			ruleID:    rule.ID,
			groups:    types.EncodeGroups(groups),
		}
		m.findings[findingID] = f
		m.findByID[f.id] = f
	}
	return &FindingRef{
		ID:               f.id,
		FindingID:        findingID,
		RuleID:           rule.ID,
		RuleStructuralID: rule.StructuralID,
	}, nil
}

// UpsertMatch records one occurrence of a finding within a blob.
func (m *MemoryStore) UpsertMatch(finding *FindingRef, blob *BlobRef, offsets types.OffsetSpan, snippet types.Snippet) (*MatchRef, error) {
	if err := offsets.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpan, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.blob(blob)
	if err != nil {
		return nil, err
	}
	if _, ok := b.spans[[2]int64{offsets.Start, offsets.End}]; !ok {
		return nil, fmt.Errorf("%w: blob %s [%d, %d]", ErrMissingSpan, blob.BlobID, offsets.Start, offsets.End)
	}

	m.upsertSnippetLocked(snippet.Before)
	m.upsertSnippetLocked(snippet.Matching)
	m.upsertSnippetLocked(snippet.After)

	structuralID := types.ComputeMatchStructuralID(finding.RuleStructuralID, blob.BlobID, offsets)
	key := fmt.Sprintf("%d\x00%d\x00%d\x00%d", blob.ID, offsets.Start, offsets.End, finding.ID)

	match, ok := m.matchKey[key]
	if !ok {
		if _, taken := m.matches[structuralID]; taken {
			return nil, fmt.Errorf("match structural ID %s already bound to a different finding", structuralID)
		}
		match = &memMatch{
			id:           m.allocID(),
			structuralID: structuralID,
			findingID:    finding.ID,
			blobID:       blob.ID,
			offsets:      offsets,
			snippet:      snippet,
		}
		m.matchKey[key] = match
		m.matches[structuralID] = match
		m.matchID[match.id] = match
	}
	return &MatchRef{ID: match.id, StructuralID: match.structuralID, FindingID: finding.ID}, nil
}

// SetMatchStatus assigns an accept/reject label (last write wins).
func (m *MemoryStore) SetMatchStatus(ref *MatchRef, status types.Status) error {
	if _, err := types.ParseStatus(string(status)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	match, ok := m.matchID[ref.ID]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrMissingMatch, ref.ID)
	}
	match.status = &status
	return nil
}

// SetMatchComment assigns a free-text comment to a match (last write wins).
func (m *MemoryStore) SetMatchComment(ref *MatchRef, comment string) error {
	if comment == "" {
		return ErrEmptyComment
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	match, ok := m.matchID[ref.ID]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrMissingMatch, ref.ID)
	}
	match.comment = &comment
	return nil
}

// SetMatchScore assigns a confidence score in [0, 1] (last write wins).
func (m *MemoryStore) SetMatchScore(ref *MatchRef, score float64) error {
	if math.IsNaN(score) || score < 0 || score > 1 {
		return fmt.Errorf("%w: %v", ErrScoreOutOfRange, score)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	match, ok := m.matchID[ref.ID]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrMissingMatch, ref.ID)
	}
	match.score = &score
	return nil
}

// SetFindingComment assigns a free-text comment to a finding (last write wins).
func (m *MemoryStore) SetFindingComment(ref *FindingRef, comment string) error {
	if comment == "" {
		return ErrEmptyComment
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.findByID[ref.ID]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrMissingFinding, ref.ID)
	}
	f.comment = &comment
	return nil
}

// MatchByStructuralID looks up a match by its content-derived ID.
func (m *MemoryStore) MatchByStructuralID(structuralID string) (*MatchRef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	match, ok := m.matches[structuralID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingMatch, structuralID)
	}
	return &MatchRef{ID: match.id, StructuralID: match.structuralID, FindingID: match.findingID}, nil
}

// FindingByID looks up a finding by its content-derived ID.
func (m *MemoryStore) FindingByID(findingID string) (*FindingRef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.findings[findingID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingFinding, findingID)
	}

	ruleStructuralID := ""
	for _, r := range m.rules {
		if r.id == f.ruleID {
			ruleStructuralID = r.structuralID
			break
		}
	}
	return &FindingRef{
		ID:               f.id,
		FindingID:        f.findingID,
		RuleID:           f.ruleID,
		RuleStructuralID: ruleStructuralID,
	}, nil
}

// BlobDetail returns a blob with its optional MIME/charset guesses.
func (m *MemoryStore) BlobDetail(id types.BlobID) (*BlobDetail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.blobs[id.Hex()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingBlob, id)
	}
	return &BlobDetail{
		BlobID:      b.blobID,
		Size:        b.size,
		MimeEssence: b.mimeEssence,
		Charset:     b.charset,
	}, nil
}

// BlobProvenance returns all provenance records for a blob.
func (m *MemoryStore) BlobProvenance(id types.BlobID) ([]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.blobs[id.Hex()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingBlob, id)
	}

	var records []json.RawMessage
	for _, rec := range b.provenance {
		records = append(records, json.RawMessage(rec))
	}
	return records, nil
}

func (m *MemoryStore) ruleByID(id int64) *memRule {
	for _, r := range m.rules {
		if r.id == id {
			return r
		}
	}
	return nil
}

// MatchDetails returns every match joined with its finding, rule, blob,
// span, and optional triage overlays.
func (m *MemoryStore) MatchDetails() ([]*MatchDetail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var details []*MatchDetail
	for _, match := range m.matches {
		f := m.findByID[match.findingID]
		if f == nil {
			continue
		}
		rule := m.ruleByID(f.ruleID)
		b := m.blobByID[match.blobID]
		if rule == nil || b == nil {
			continue
		}

		groups, err := types.DecodeGroups(f.groups)
		if err != nil {
			return nil, fmt.Errorf("decoding groups: %w", err)
		}

		loc := b.spans[[2]int64{match.offsets.Start, match.offsets.End}]
		details = append(details, &MatchDetail{
			StructuralID:     match.structuralID,
			FindingID:        f.findingID,
			RuleStructuralID: rule.structuralID,
			RuleTextID:       rule.textID,
			RuleName:         rule.name,
			BlobID:           b.blobID,
			Location:         loc,
			Groups:           groups,
			Snippet:          match.snippet,
			Status:           match.status,
			Comment:          match.comment,
			Score:            match.score,
		})
	}

	sort.Slice(details, func(i, j int) bool {
		a, b := details[i], details[j]
		if a.RuleName != b.RuleName {
			return a.RuleName < b.RuleName
		}
		if a.FindingID != b.FindingID {
			return a.FindingID < b.FindingID
		}
		if a.BlobID != b.BlobID {
			return a.BlobID.Hex() < b.BlobID.Hex()
		}
		return a.Location.Offset.Start < b.Location.Offset.Start
	})
	return details, nil
}

// FindingRollups returns per-finding aggregates.
func (m *MemoryStore) FindingRollups() ([]*FindingRollup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rollups []*FindingRollup
	for _, f := range m.findings {
		rule := m.ruleByID(f.ruleID)
		if rule == nil {
			continue
		}

		groups, err := types.DecodeGroups(f.groups)
		if err != nil {
			return nil, fmt.Errorf("decoding groups: %w", err)
		}

		ru := &FindingRollup{
			FindingID:        f.findingID,
			RuleStructuralID: rule.structuralID,
			RuleTextID:       rule.textID,
			RuleName:         rule.name,
			Groups:           groups,
			Comment:          f.comment,
		}

		var scoreSum float64
		var scored int64
		statusSet := make(map[types.Status]struct{})
		for _, match := range m.matches {
			if match.findingID != f.id {
				continue
			}
			ru.NumMatches++
			if match.score != nil {
				scoreSum += *match.score
				scored++
			}
			if match.status != nil {
				statusSet[*match.status] = struct{}{}
			}
		}
		if scored > 0 {
			mean := scoreSum / float64(scored)
			ru.MeanScore = &mean
		}
		for status := range statusSet {
			ru.Statuses = append(ru.Statuses, status)
		}
		sort.Slice(ru.Statuses, func(i, j int) bool { return ru.Statuses[i] < ru.Statuses[j] })

		rollups = append(rollups, ru)
	}

	sort.Slice(rollups, func(i, j int) bool {
		if rollups[i].RuleName != rollups[j].RuleName {
			return rollups[i].RuleName < rollups[j].RuleName
		}
		return rollups[i].FindingID < rollups[j].FindingID
	})
	return rollups, nil
}

// RuleSummaries returns per-rule aggregates.
func (m *MemoryStore) RuleSummaries() ([]*RuleSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var summaries []*RuleSummary
	for _, rule := range m.rules {
		sum := &RuleSummary{
			RuleStructuralID: rule.structuralID,
			RuleTextID:       rule.textID,
			RuleName:         rule.name,
		}
		for _, f := range m.findings {
			if f.ruleID != rule.id {
				continue
			}
			sum.DistinctFindings++
			for _, match := range m.matches {
				if match.findingID == f.id {
					sum.TotalMatches++
				}
			}
		}
		summaries = append(summaries, sum)
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].RuleName < summaries[j].RuleName })
	return summaries, nil
}

// Counts returns total row counts for reporting.
func (m *MemoryStore) Counts() (*Counts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return &Counts{
		Blobs:    int64(len(m.blobs)),
		Rules:    int64(len(m.rules)),
		Findings: int64(len(m.findings)),
		Matches:  int64(len(m.matches)),
	}, nil
}
