package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"

	// pgx registers its database/sql driver as "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/nightjar-sec/nightjar/pkg/types"
)

// PostgresStore implements Store using PostgreSQL via pgx.
// Semantics are identical to the SQLite backend; every dedup-sensitive
// insert is INSERT ... ON CONFLICT DO NOTHING followed by a select of the
// surviving row, inside one transaction.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres creates a PostgreSQL-backed store from a connection URL.
func NewPostgres(url string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createPostgresSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func createPostgresSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS blobs (
			id BIGSERIAL PRIMARY KEY,
			blob_id TEXT NOT NULL UNIQUE CHECK (length(blob_id) = 40),
			size BIGINT NOT NULL CHECK (size >= 0)
		)`,
		`CREATE TABLE IF NOT EXISTS blob_mime_essence (
			blob_id BIGINT PRIMARY KEY REFERENCES blobs(id),
			mime_essence TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS blob_charset (
			blob_id BIGINT PRIMARY KEY REFERENCES blobs(id),
			charset TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS blob_source_spans (
			blob_id BIGINT NOT NULL REFERENCES blobs(id),
			start_byte BIGINT NOT NULL,
			end_byte BIGINT NOT NULL,
			start_line BIGINT NOT NULL,
			start_column BIGINT NOT NULL,
			end_line BIGINT NOT NULL,
			end_column BIGINT NOT NULL,
			PRIMARY KEY (blob_id, start_byte, end_byte),
			CHECK (0 <= start_byte AND start_byte <= end_byte),
			CHECK (0 <= start_line AND start_line <= end_line),
			CHECK (0 <= start_column AND 0 <= end_column)
		)`,
		`CREATE TABLE IF NOT EXISTS blob_provenance (
			id BIGSERIAL PRIMARY KEY,
			blob_id BIGINT NOT NULL REFERENCES blobs(id),
			provenance JSONB NOT NULL,
			UNIQUE (blob_id, provenance)
		)`,
		`CREATE TABLE IF NOT EXISTS rules (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			text_id TEXT NOT NULL,
			structural_id TEXT NOT NULL UNIQUE,
			syntax TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS snippets (
			id BIGSERIAL PRIMARY KEY,
			content BYTEA NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS findings (
			id BIGSERIAL PRIMARY KEY,
			finding_id TEXT NOT NULL UNIQUE,
			rule_id BIGINT NOT NULL REFERENCES rules(id),
			groups TEXT NOT NULL,
			UNIQUE (rule_id, groups)
		)`,
		`CREATE TABLE IF NOT EXISTS matches (
			id BIGSERIAL PRIMARY KEY,
			structural_id TEXT NOT NULL UNIQUE,
			finding_id BIGINT NOT NULL REFERENCES findings(id),
			blob_id BIGINT NOT NULL REFERENCES blobs(id),
			start_byte BIGINT NOT NULL,
			end_byte BIGINT NOT NULL,
			before_snippet_id BIGINT NOT NULL REFERENCES snippets(id),
			matching_snippet_id BIGINT NOT NULL REFERENCES snippets(id),
			after_snippet_id BIGINT NOT NULL REFERENCES snippets(id),
			UNIQUE (blob_id, start_byte, end_byte, finding_id),
			FOREIGN KEY (blob_id, start_byte, end_byte)
				REFERENCES blob_source_spans(blob_id, start_byte, end_byte)
		)`,
		`CREATE TABLE IF NOT EXISTS match_status (
			match_id BIGINT PRIMARY KEY REFERENCES matches(id),
			status TEXT NOT NULL CHECK (status IN ('accept', 'reject'))
		)`,
		`CREATE TABLE IF NOT EXISTS match_comment (
			match_id BIGINT PRIMARY KEY REFERENCES matches(id),
			comment TEXT NOT NULL CHECK (comment <> '')
		)`,
		`CREATE TABLE IF NOT EXISTS finding_comment (
			finding_id BIGINT PRIMARY KEY REFERENCES findings(id),
			comment TEXT NOT NULL CHECK (comment <> '')
		)`,
		`CREATE TABLE IF NOT EXISTS match_score (
			match_id BIGINT PRIMARY KEY REFERENCES matches(id),
			score DOUBLE PRECISION NOT NULL CHECK (score BETWEEN 0 AND 1)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_blob_provenance_blob_id ON blob_provenance(blob_id)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_finding_id ON matches(finding_id)`,
		`CREATE INDEX IF NOT EXISTS idx_findings_rule_id ON findings(rule_id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES ($1)", SchemaVersion); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// UpsertBlob records a blob by content hash.
func (s *PostgresStore) UpsertBlob(id types.BlobID, size int64) (*BlobRef, error) {
	if size < 0 {
		return nil, fmt.Errorf("blob size must be non-negative, got %d", size)
	}

	ref := &BlobRef{BlobID: id}
	err := s.withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(
			"INSERT INTO blobs (blob_id, size) VALUES ($1, $2) ON CONFLICT (blob_id) DO NOTHING",
			id.Hex(), size,
		)
		if err != nil {
			return fmt.Errorf("inserting blob: %w", err)
		}
		return tx.QueryRow("SELECT id, size FROM blobs WHERE blob_id = $1", id.Hex()).
			Scan(&ref.ID, &ref.Size)
	})
	if err != nil {
		return nil, err
	}
	return ref, nil
}

// SetBlobMimeEssence records a best-effort MIME guess (overwrite).
func (s *PostgresStore) SetBlobMimeEssence(blob *BlobRef, mimeEssence string) error {
	_, err := s.db.Exec(`
		INSERT INTO blob_mime_essence (blob_id, mime_essence) VALUES ($1, $2)
		ON CONFLICT (blob_id) DO UPDATE SET mime_essence = excluded.mime_essence
	`, blob.ID, mimeEssence)
	if err != nil {
		return fmt.Errorf("setting mime essence: %w", err)
	}
	return nil
}

// SetBlobCharset records a best-effort charset guess (overwrite).
func (s *PostgresStore) SetBlobCharset(blob *BlobRef, charset string) error {
	_, err := s.db.Exec(`
		INSERT INTO blob_charset (blob_id, charset) VALUES ($1, $2)
		ON CONFLICT (blob_id) DO UPDATE SET charset = excluded.charset
	`, blob.ID, charset)
	if err != nil {
		return fmt.Errorf("setting charset: %w", err)
	}
	return nil
}

// AddBlobProvenance appends a provenance record for a blob.
func (s *PostgresStore) AddBlobProvenance(blob *BlobRef, provenance json.RawMessage) error {
	canonical, err := types.CanonicalizeProvenance(provenance)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProvenance, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO blob_provenance (blob_id, provenance) VALUES ($1, $2)
		ON CONFLICT (blob_id, provenance) DO NOTHING
	`, blob.ID, string(canonical))
	if err != nil {
		return fmt.Errorf("inserting provenance: %w", err)
	}
	return nil
}

// UpsertBlobSourceSpan records the line/column mapping for a byte range.
func (s *PostgresStore) UpsertBlobSourceSpan(blob *BlobRef, loc types.Location) error {
	if err := loc.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSpan, err)
	}

	_, err := s.db.Exec(`
		INSERT INTO blob_source_spans
			(blob_id, start_byte, end_byte, start_line, start_column, end_line, end_column)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (blob_id, start_byte, end_byte) DO NOTHING
	`,
		blob.ID,
		loc.Offset.Start, loc.Offset.End,
		loc.Source.Start.Line, loc.Source.Start.Column,
		loc.Source.End.Line, loc.Source.End.Column,
	)
	if err != nil {
		return fmt.Errorf("inserting source span: %w", err)
	}
	return nil
}

// UpsertSnippet stores a byte sequence deduplicated by exact content.
func (s *PostgresStore) UpsertSnippet(content []byte) (*SnippetRef, error) {
	ref := &SnippetRef{}
	err := s.withTx(func(tx *sql.Tx) error {
		id, err := s.upsertSnippetTx(tx, content)
		if err != nil {
			return err
		}
		ref.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ref, nil
}

func (s *PostgresStore) upsertSnippetTx(tx *sql.Tx, content []byte) (int64, error) {
	if content == nil {
		content = []byte{}
	}
	if _, err := tx.Exec(
		"INSERT INTO snippets (content) VALUES ($1) ON CONFLICT (content) DO NOTHING", content,
	); err != nil {
		return 0, fmt.Errorf("inserting snippet: %w", err)
	}
	var id int64
	if err := tx.QueryRow("SELECT id FROM snippets WHERE content = $1", content).Scan(&id); err != nil {
		return 0, fmt.Errorf("selecting snippet: %w", err)
	}
	return id, nil
}

// UpsertRule records a rule keyed by structural ID.
func (s *PostgresStore) UpsertRule(r *types.Rule) (*RuleRef, error) {
	structuralID := r.StructuralID()
	syntaxJSON, err := r.SyntaxJSON()
	if err != nil {
		return nil, err
	}

	ref := &RuleRef{StructuralID: structuralID, Name: r.Name, TextID: r.TextID}
	err = s.withTx(func(tx *sql.Tx) error {
		// Insert-first: concurrent writers of the same new rule must both
		// land on the surviving row.
		if _, err := tx.Exec(`
			INSERT INTO rules (name, text_id, structural_id, syntax) VALUES ($1, $2, $3, $4)
			ON CONFLICT (structural_id) DO NOTHING
		`, r.Name, r.TextID, structuralID, string(syntaxJSON)); err != nil {
			return fmt.Errorf("inserting rule: %w", err)
		}

		var existingSyntax string
		if err := tx.QueryRow("SELECT id, syntax FROM rules WHERE structural_id = $1", structuralID).
			Scan(&ref.ID, &existingSyntax); err != nil {
			return fmt.Errorf("selecting rule: %w", err)
		}

		if existingSyntax != string(syntaxJSON) {
			return fmt.Errorf("%w: %s", ErrRuleIdentityConflict, structuralID)
		}

		if _, err := tx.Exec(
			"UPDATE rules SET name = $1, text_id = $2 WHERE id = $3",
			r.Name, r.TextID, ref.ID,
		); err != nil {
			return fmt.Errorf("refreshing rule metadata: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ref, nil
}

// UpsertFinding records a finding keyed by (rule, capture groups).
func (s *PostgresStore) UpsertFinding(rule *RuleRef, groups [][]byte) (*FindingRef, error) {
	findingID := types.ComputeFindingID(rule.StructuralID, groups)
	groupsJSON := types.EncodeGroups(groups)

	ref := &FindingRef{
		FindingID:        findingID,
		RuleID:           rule.ID,
		RuleStructuralID: rule.StructuralID,
	}
	err := s.withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO findings (finding_id, rule_id, groups) VALUES ($1, $2, $3)
			ON CONFLICT (finding_id) DO NOTHING
		`, findingID, rule.ID, groupsJSON)
		if err != nil {
			return fmt.Errorf("inserting finding: %w", err)
		}
		return tx.QueryRow("SELECT id FROM findings WHERE finding_id = $1", findingID).Scan(&ref.ID)
	})
	if err != nil {
		return nil, err
	}
	return ref, nil
}

// UpsertMatch records one occurrence of a finding within a blob.
func (s *PostgresStore) UpsertMatch(finding *FindingRef, blob *BlobRef, offsets types.OffsetSpan, snippet types.Snippet) (*MatchRef, error) {
	if err := offsets.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpan, err)
	}

	structuralID := types.ComputeMatchStructuralID(finding.RuleStructuralID, blob.BlobID, offsets)
	ref := &MatchRef{StructuralID: structuralID, FindingID: finding.ID}

	err := s.withTx(func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRow(`
			SELECT 1 FROM blob_source_spans
			WHERE blob_id = $1 AND start_byte = $2 AND end_byte = $3
		`, blob.ID, offsets.Start, offsets.End).Scan(&exists)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: blob %s [%d, %d]", ErrMissingSpan, blob.BlobID, offsets.Start, offsets.End)
		}
		if err != nil {
			return fmt.Errorf("checking source span: %w", err)
		}

		beforeID, err := s.upsertSnippetTx(tx, snippet.Before)
		if err != nil {
			return err
		}
		matchingID, err := s.upsertSnippetTx(tx, snippet.Matching)
		if err != nil {
			return err
		}
		afterID, err := s.upsertSnippetTx(tx, snippet.After)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO matches
				(structural_id, finding_id, blob_id, start_byte, end_byte,
				 before_snippet_id, matching_snippet_id, after_snippet_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (blob_id, start_byte, end_byte, finding_id) DO NOTHING
		`, structuralID, finding.ID, blob.ID, offsets.Start, offsets.End,
			beforeID, matchingID, afterID)
		if err != nil {
			return fmt.Errorf("inserting match: %w", err)
		}

		err = tx.QueryRow(`
			SELECT id FROM matches
			WHERE blob_id = $1 AND start_byte = $2 AND end_byte = $3 AND finding_id = $4
		`, blob.ID, offsets.Start, offsets.End, finding.ID).Scan(&ref.ID)
		if err == sql.ErrNoRows {
			return fmt.Errorf("match structural ID %s already bound to a different finding", structuralID)
		}
		if err != nil {
			return fmt.Errorf("selecting match: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ref, nil
}

// SetMatchStatus assigns an accept/reject label (last write wins).
func (s *PostgresStore) SetMatchStatus(m *MatchRef, status types.Status) error {
	if _, err := types.ParseStatus(string(status)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.setMatchOverlay(m, `
		INSERT INTO match_status (match_id, status) VALUES ($1, $2)
		ON CONFLICT (match_id) DO UPDATE SET status = excluded.status
	`, string(status))
}

// SetMatchComment assigns a free-text comment to a match (last write wins).
func (s *PostgresStore) SetMatchComment(m *MatchRef, comment string) error {
	if comment == "" {
		return ErrEmptyComment
	}
	return s.setMatchOverlay(m, `
		INSERT INTO match_comment (match_id, comment) VALUES ($1, $2)
		ON CONFLICT (match_id) DO UPDATE SET comment = excluded.comment
	`, comment)
}

// SetMatchScore assigns a confidence score in [0, 1] (last write wins).
func (s *PostgresStore) SetMatchScore(m *MatchRef, score float64) error {
	if math.IsNaN(score) || score < 0 || score > 1 {
		return fmt.Errorf("%w: %v", ErrScoreOutOfRange, score)
	}
	return s.setMatchOverlay(m, `
		INSERT INTO match_score (match_id, score) VALUES ($1, $2)
		ON CONFLICT (match_id) DO UPDATE SET score = excluded.score
	`, score)
}

func (s *PostgresStore) setMatchOverlay(m *MatchRef, query string, value interface{}) error {
	return s.withTx(func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRow("SELECT 1 FROM matches WHERE id = $1", m.ID).Scan(&exists)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: id %d", ErrMissingMatch, m.ID)
		}
		if err != nil {
			return fmt.Errorf("checking match: %w", err)
		}

		if _, err := tx.Exec(query, m.ID, value); err != nil {
			return fmt.Errorf("setting match overlay: %w", err)
		}
		return nil
	})
}

// SetFindingComment assigns a free-text comment to a finding (last write wins).
func (s *PostgresStore) SetFindingComment(f *FindingRef, comment string) error {
	if comment == "" {
		return ErrEmptyComment
	}
	return s.withTx(func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRow("SELECT 1 FROM findings WHERE id = $1", f.ID).Scan(&exists)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: id %d", ErrMissingFinding, f.ID)
		}
		if err != nil {
			return fmt.Errorf("checking finding: %w", err)
		}

		_, err = tx.Exec(`
			INSERT INTO finding_comment (finding_id, comment) VALUES ($1, $2)
			ON CONFLICT (finding_id) DO UPDATE SET comment = excluded.comment
		`, f.ID, comment)
		if err != nil {
			return fmt.Errorf("setting finding comment: %w", err)
		}
		return nil
	})
}

// MatchByStructuralID looks up a match by its content-derived ID.
func (s *PostgresStore) MatchByStructuralID(structuralID string) (*MatchRef, error) {
	ref := &MatchRef{StructuralID: structuralID}
	err := s.db.QueryRow(
		"SELECT id, finding_id FROM matches WHERE structural_id = $1", structuralID,
	).Scan(&ref.ID, &ref.FindingID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrMissingMatch, structuralID)
	}
	if err != nil {
		return nil, fmt.Errorf("selecting match: %w", err)
	}
	return ref, nil
}

// FindingByID looks up a finding by its content-derived ID.
func (s *PostgresStore) FindingByID(findingID string) (*FindingRef, error) {
	ref := &FindingRef{FindingID: findingID}
	err := s.db.QueryRow(`
		SELECT f.id, f.rule_id, r.structural_id
		FROM findings f
		JOIN rules r ON r.id = f.rule_id
		WHERE f.finding_id = $1
	`, findingID).Scan(&ref.ID, &ref.RuleID, &ref.RuleStructuralID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrMissingFinding, findingID)
	}
	if err != nil {
		return nil, fmt.Errorf("selecting finding: %w", err)
	}
	return ref, nil
}

// BlobDetail returns a blob with its optional MIME/charset guesses.
func (s *PostgresStore) BlobDetail(id types.BlobID) (*BlobDetail, error) {
	detail := &BlobDetail{}
	var mime, charset sql.NullString
	err := s.db.QueryRow(`
		SELECT b.blob_id, b.size, m.mime_essence, c.charset
		FROM blobs b
		LEFT JOIN blob_mime_essence m ON m.blob_id = b.id
		LEFT JOIN blob_charset c ON c.blob_id = b.id
		WHERE b.blob_id = $1
	`, id.Hex()).Scan(&detail.BlobID, &detail.Size, &mime, &charset)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrMissingBlob, id)
	}
	if err != nil {
		return nil, fmt.Errorf("selecting blob: %w", err)
	}

	if mime.Valid {
		detail.MimeEssence = &mime.String
	}
	if charset.Valid {
		detail.Charset = &charset.String
	}
	return detail, nil
}

// BlobProvenance returns all provenance records for a blob.
func (s *PostgresStore) BlobProvenance(id types.BlobID) ([]json.RawMessage, error) {
	var blobRowID int64
	err := s.db.QueryRow("SELECT id FROM blobs WHERE blob_id = $1", id.Hex()).Scan(&blobRowID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrMissingBlob, id)
	}
	if err != nil {
		return nil, fmt.Errorf("selecting blob: %w", err)
	}

	rows, err := s.db.Query(
		"SELECT provenance FROM blob_provenance WHERE blob_id = $1 ORDER BY id", blobRowID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying provenance: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var rec string
		if err := rows.Scan(&rec); err != nil {
			return nil, fmt.Errorf("scanning provenance: %w", err)
		}
		records = append(records, json.RawMessage(rec))
	}
	return records, rows.Err()
}

// MatchDetails returns every match joined with its finding, rule, blob,
// span, snippets, and optional triage overlays.
func (s *PostgresStore) MatchDetails() ([]*MatchDetail, error) {
	rows, err := s.db.Query(`
		SELECT m.structural_id, f.finding_id, r.structural_id, r.text_id, r.name,
		       b.blob_id, m.start_byte, m.end_byte,
		       sp.start_line, sp.start_column, sp.end_line, sp.end_column,
		       f.groups,
		       sb.content, sm.content, sa.content,
		       ms.status, mc.comment, msc.score
		FROM matches m
		JOIN findings f ON f.id = m.finding_id
		JOIN rules r ON r.id = f.rule_id
		JOIN blobs b ON b.id = m.blob_id
		JOIN blob_source_spans sp
			ON sp.blob_id = m.blob_id AND sp.start_byte = m.start_byte AND sp.end_byte = m.end_byte
		JOIN snippets sb ON sb.id = m.before_snippet_id
		JOIN snippets sm ON sm.id = m.matching_snippet_id
		JOIN snippets sa ON sa.id = m.after_snippet_id
		LEFT JOIN match_status ms ON ms.match_id = m.id
		LEFT JOIN match_comment mc ON mc.match_id = m.id
		LEFT JOIN match_score msc ON msc.match_id = m.id
		ORDER BY r.name, f.finding_id, b.blob_id, m.start_byte, m.end_byte
	`)
	if err != nil {
		return nil, fmt.Errorf("querying match details: %w", err)
	}
	defer rows.Close()

	var details []*MatchDetail
	for rows.Next() {
		d := &MatchDetail{}
		var groupsJSON string
		var status, comment sql.NullString
		var score sql.NullFloat64

		err := rows.Scan(
			&d.StructuralID, &d.FindingID, &d.RuleStructuralID, &d.RuleTextID, &d.RuleName,
			&d.BlobID, &d.Location.Offset.Start, &d.Location.Offset.End,
			&d.Location.Source.Start.Line, &d.Location.Source.Start.Column,
			&d.Location.Source.End.Line, &d.Location.Source.End.Column,
			&groupsJSON,
			&d.Snippet.Before, &d.Snippet.Matching, &d.Snippet.After,
			&status, &comment, &score,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning match detail: %w", err)
		}

		if d.Groups, err = types.DecodeGroups(groupsJSON); err != nil {
			return nil, fmt.Errorf("decoding groups: %w", err)
		}
		if status.Valid {
			st := types.Status(status.String)
			d.Status = &st
		}
		if comment.Valid {
			d.Comment = &comment.String
		}
		if score.Valid {
			d.Score = &score.Float64
		}

		details = append(details, d)
	}
	return details, rows.Err()
}

// FindingRollups returns per-finding aggregates.
func (s *PostgresStore) FindingRollups() ([]*FindingRollup, error) {
	rows, err := s.db.Query(`
		SELECT f.finding_id, r.structural_id, r.text_id, r.name, f.groups,
		       COUNT(DISTINCT m.id), AVG(msc.score), fc.comment
		FROM findings f
		JOIN rules r ON r.id = f.rule_id
		LEFT JOIN matches m ON m.finding_id = f.id
		LEFT JOIN match_score msc ON msc.match_id = m.id
		LEFT JOIN finding_comment fc ON fc.finding_id = f.id
		GROUP BY f.id, f.finding_id, r.structural_id, r.text_id, r.name, f.groups, fc.comment
		ORDER BY r.name, f.finding_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying finding rollups: %w", err)
	}
	defer rows.Close()

	var rollups []*FindingRollup
	byID := make(map[string]*FindingRollup)
	for rows.Next() {
		ru := &FindingRollup{}
		var groupsJSON string
		var meanScore sql.NullFloat64
		var comment sql.NullString

		err := rows.Scan(
			&ru.FindingID, &ru.RuleStructuralID, &ru.RuleTextID, &ru.RuleName,
			&groupsJSON, &ru.NumMatches, &meanScore, &comment,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning finding rollup: %w", err)
		}

		if ru.Groups, err = types.DecodeGroups(groupsJSON); err != nil {
			return nil, fmt.Errorf("decoding groups: %w", err)
		}
		if meanScore.Valid {
			ru.MeanScore = &meanScore.Float64
		}
		if comment.Valid {
			ru.Comment = &comment.String
		}

		rollups = append(rollups, ru)
		byID[ru.FindingID] = ru
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	statusRows, err := s.db.Query(`
		SELECT DISTINCT f.finding_id, ms.status
		FROM findings f
		JOIN matches m ON m.finding_id = f.id
		JOIN match_status ms ON ms.match_id = m.id
		ORDER BY f.finding_id, ms.status
	`)
	if err != nil {
		return nil, fmt.Errorf("querying statuses: %w", err)
	}
	defer statusRows.Close()

	for statusRows.Next() {
		var findingID, status string
		if err := statusRows.Scan(&findingID, &status); err != nil {
			return nil, fmt.Errorf("scanning status: %w", err)
		}
		if ru, ok := byID[findingID]; ok {
			ru.Statuses = append(ru.Statuses, types.Status(status))
		}
	}
	return rollups, statusRows.Err()
}

// RuleSummaries returns per-rule aggregates.
func (s *PostgresStore) RuleSummaries() ([]*RuleSummary, error) {
	rows, err := s.db.Query(`
		SELECT r.structural_id, r.text_id, r.name,
		       COUNT(DISTINCT f.id), COUNT(m.id)
		FROM rules r
		LEFT JOIN findings f ON f.rule_id = r.id
		LEFT JOIN matches m ON m.finding_id = f.id
		GROUP BY r.id, r.structural_id, r.text_id, r.name
		ORDER BY r.name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying rule summaries: %w", err)
	}
	defer rows.Close()

	var summaries []*RuleSummary
	for rows.Next() {
		sum := &RuleSummary{}
		err := rows.Scan(
			&sum.RuleStructuralID, &sum.RuleTextID, &sum.RuleName,
			&sum.DistinctFindings, &sum.TotalMatches,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning rule summary: %w", err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// Counts returns total row counts for reporting.
func (s *PostgresStore) Counts() (*Counts, error) {
	counts := &Counts{}
	queries := []struct {
		sql  string
		dest *int64
	}{
		{"SELECT COUNT(*) FROM blobs", &counts.Blobs},
		{"SELECT COUNT(*) FROM rules", &counts.Rules},
		{"SELECT COUNT(*) FROM findings", &counts.Findings},
		{"SELECT COUNT(*) FROM matches", &counts.Matches},
	}
	for _, q := range queries {
		if err := s.db.QueryRow(q.sql).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("counting rows: %w", err)
		}
	}
	return counts, nil
}
