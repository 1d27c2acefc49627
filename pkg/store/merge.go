package store

import (
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// MergeConfig configures the merge operation.
type MergeConfig struct {
	// SourcePaths are the SQLite database files to merge from.
	SourcePaths []string
	// DestPath is the destination database file.
	DestPath string
}

// MergeStats tracks merge operation statistics.
type MergeStats struct {
	BlobsMerged      int64
	SpansMerged      int64
	ProvenanceMerged int64
	RulesMerged      int64
	SnippetsMerged   int64
	FindingsMerged   int64
	MatchesMerged    int64
	OverlaysMerged   int64
	SourcesProcessed int
}

// Merge combines multiple datastores into one. Because every row is keyed
// by a content-derived identity, merging is a pure set union: each source
// is attached and copied with INSERT OR IGNORE, joining through content
// keys to remap surrogate ids.
func Merge(cfg MergeConfig) (*MergeStats, error) {
	if len(cfg.SourcePaths) == 0 {
		return nil, fmt.Errorf("no source databases specified")
	}
	if cfg.DestPath == "" {
		return nil, fmt.Errorf("destination path is required")
	}

	dest, err := NewSQLite(cfg.DestPath)
	if err != nil {
		return nil, fmt.Errorf("opening destination database: %w", err)
	}
	defer dest.Close()

	stats := &MergeStats{}
	for _, sourcePath := range cfg.SourcePaths {
		log.WithField("source", sourcePath).Debug("merging datastore")
		if err := mergeFrom(dest.db, sourcePath, stats); err != nil {
			return stats, fmt.Errorf("merging from %s: %w", sourcePath, err)
		}
		stats.SourcesProcessed++
	}

	return stats, nil
}

// mergeFrom copies one source database into dest. Tables are copied in
// dependency order so that every content-key join finds its target rows.
func mergeFrom(db *sql.DB, sourcePath string, stats *MergeStats) error {
	if _, err := db.Exec("ATTACH DATABASE ? AS src", sourcePath); err != nil {
		return fmt.Errorf("attaching source: %w", err)
	}
	defer db.Exec("DETACH DATABASE src")

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	steps := []struct {
		sql  string
		dest *int64
	}{
		{`
			INSERT OR IGNORE INTO blobs (blob_id, size)
			SELECT blob_id, size FROM src.blobs
		`, &stats.BlobsMerged},
		{`
			INSERT INTO blob_mime_essence (blob_id, mime_essence)
			SELECT b.id, sm.mime_essence
			FROM src.blob_mime_essence sm
			JOIN src.blobs sb ON sb.id = sm.blob_id
			JOIN blobs b ON b.blob_id = sb.blob_id
			WHERE true
			ON CONFLICT (blob_id) DO UPDATE SET mime_essence = excluded.mime_essence
		`, nil},
		{`
			INSERT INTO blob_charset (blob_id, charset)
			SELECT b.id, sc.charset
			FROM src.blob_charset sc
			JOIN src.blobs sb ON sb.id = sc.blob_id
			JOIN blobs b ON b.blob_id = sb.blob_id
			WHERE true
			ON CONFLICT (blob_id) DO UPDATE SET charset = excluded.charset
		`, nil},
		{`
			INSERT OR IGNORE INTO blob_source_spans
				(blob_id, start_byte, end_byte, start_line, start_column, end_line, end_column)
			SELECT b.id, ss.start_byte, ss.end_byte,
			       ss.start_line, ss.start_column, ss.end_line, ss.end_column
			FROM src.blob_source_spans ss
			JOIN src.blobs sb ON sb.id = ss.blob_id
			JOIN blobs b ON b.blob_id = sb.blob_id
		`, &stats.SpansMerged},
		{`
			INSERT OR IGNORE INTO blob_provenance (blob_id, provenance)
			SELECT b.id, sp.provenance
			FROM src.blob_provenance sp
			JOIN src.blobs sb ON sb.id = sp.blob_id
			JOIN blobs b ON b.blob_id = sb.blob_id
		`, &stats.ProvenanceMerged},
		{`
			INSERT OR IGNORE INTO rules (name, text_id, structural_id, syntax)
			SELECT name, text_id, structural_id, syntax FROM src.rules
		`, &stats.RulesMerged},
		{`
			INSERT OR IGNORE INTO snippets (content)
			SELECT content FROM src.snippets
		`, &stats.SnippetsMerged},
		{`
			INSERT OR IGNORE INTO findings (finding_id, rule_id, groups)
			SELECT sf.finding_id, r.id, sf.groups
			FROM src.findings sf
			JOIN src.rules sr ON sr.id = sf.rule_id
			JOIN rules r ON r.structural_id = sr.structural_id
		`, &stats.FindingsMerged},
		{`
			INSERT OR IGNORE INTO matches
				(structural_id, finding_id, blob_id, start_byte, end_byte,
				 before_snippet_id, matching_snippet_id, after_snippet_id)
			SELECT sm.structural_id, f.id, b.id, sm.start_byte, sm.end_byte,
			       nb.id, nm.id, na.id
			FROM src.matches sm
			JOIN src.findings sf ON sf.id = sm.finding_id
			JOIN findings f ON f.finding_id = sf.finding_id
			JOIN src.blobs sb ON sb.id = sm.blob_id
			JOIN blobs b ON b.blob_id = sb.blob_id
			JOIN src.snippets ssb ON ssb.id = sm.before_snippet_id
			JOIN snippets nb ON nb.content = ssb.content
			JOIN src.snippets ssm ON ssm.id = sm.matching_snippet_id
			JOIN snippets nm ON nm.content = ssm.content
			JOIN src.snippets ssa ON ssa.id = sm.after_snippet_id
			JOIN snippets na ON na.content = ssa.content
		`, &stats.MatchesMerged},
		// Overlays: last write wins, so source values overwrite.
		{`
			INSERT INTO match_status (match_id, status)
			SELECT m.id, sms.status
			FROM src.match_status sms
			JOIN src.matches sm ON sm.id = sms.match_id
			JOIN matches m ON m.structural_id = sm.structural_id
			WHERE true
			ON CONFLICT (match_id) DO UPDATE SET status = excluded.status
		`, &stats.OverlaysMerged},
		{`
			INSERT INTO match_comment (match_id, comment)
			SELECT m.id, smc.comment
			FROM src.match_comment smc
			JOIN src.matches sm ON sm.id = smc.match_id
			JOIN matches m ON m.structural_id = sm.structural_id
			WHERE true
			ON CONFLICT (match_id) DO UPDATE SET comment = excluded.comment
		`, &stats.OverlaysMerged},
		{`
			INSERT INTO match_score (match_id, score)
			SELECT m.id, sms.score
			FROM src.match_score sms
			JOIN src.matches sm ON sm.id = sms.match_id
			JOIN matches m ON m.structural_id = sm.structural_id
			WHERE true
			ON CONFLICT (match_id) DO UPDATE SET score = excluded.score
		`, &stats.OverlaysMerged},
		{`
			INSERT INTO finding_comment (finding_id, comment)
			SELECT f.id, sfc.comment
			FROM src.finding_comment sfc
			JOIN src.findings sf ON sf.id = sfc.finding_id
			JOIN findings f ON f.finding_id = sf.finding_id
			WHERE true
			ON CONFLICT (finding_id) DO UPDATE SET comment = excluded.comment
		`, &stats.OverlaysMerged},
	}

	for _, step := range steps {
		res, err := tx.Exec(step.sql)
		if err != nil {
			return fmt.Errorf("copying rows: %w", err)
		}
		if step.dest != nil {
			n, err := res.RowsAffected()
			if err == nil {
				*step.dest += n
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing merge: %w", err)
	}
	return nil
}
