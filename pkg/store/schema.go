package store

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// CreateSchema creates the SQLite schema if it doesn't exist.
//
// Scan facts (blobs, rules, snippets, findings, matches, spans, provenance)
// are append-only and keyed by content-derived identities. Triage overlays
// live in their own tables so re-scans never touch reviewer decisions.
func CreateSchema(db *sql.DB) error {
	if err := createSchemaVersionTable(db); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	stmts := []struct {
		name string
		sql  string
	}{
		{"blobs", `
			CREATE TABLE IF NOT EXISTS blobs (
				id INTEGER PRIMARY KEY,
				blob_id TEXT NOT NULL UNIQUE CHECK (length(blob_id) = 40),
				size INTEGER NOT NULL CHECK (size >= 0)
			)
		`},
		{"blob_mime_essence", `
			CREATE TABLE IF NOT EXISTS blob_mime_essence (
				blob_id INTEGER PRIMARY KEY REFERENCES blobs(id),
				mime_essence TEXT NOT NULL
			)
		`},
		{"blob_charset", `
			CREATE TABLE IF NOT EXISTS blob_charset (
				blob_id INTEGER PRIMARY KEY REFERENCES blobs(id),
				charset TEXT NOT NULL
			)
		`},
		{"blob_source_spans", `
			CREATE TABLE IF NOT EXISTS blob_source_spans (
				blob_id INTEGER NOT NULL REFERENCES blobs(id),
				start_byte INTEGER NOT NULL,
				end_byte INTEGER NOT NULL,
				start_line INTEGER NOT NULL,
				start_column INTEGER NOT NULL,
				end_line INTEGER NOT NULL,
				end_column INTEGER NOT NULL,
				PRIMARY KEY (blob_id, start_byte, end_byte),
				CHECK (0 <= start_byte AND start_byte <= end_byte),
				CHECK (0 <= start_line AND start_line <= end_line),
				CHECK (0 <= start_column AND 0 <= end_column)
			)
		`},
		{"blob_provenance", `
			CREATE TABLE IF NOT EXISTS blob_provenance (
				id INTEGER PRIMARY KEY,
				blob_id INTEGER NOT NULL REFERENCES blobs(id),
				provenance TEXT NOT NULL,
				UNIQUE (blob_id, provenance)
			)
		`},
		{"rules", `
			CREATE TABLE IF NOT EXISTS rules (
				id INTEGER PRIMARY KEY,
				name TEXT NOT NULL,
				text_id TEXT NOT NULL,
				structural_id TEXT NOT NULL UNIQUE,
				syntax TEXT NOT NULL
			)
		`},
		{"snippets", `
			CREATE TABLE IF NOT EXISTS snippets (
				id INTEGER PRIMARY KEY,
				content BLOB NOT NULL UNIQUE
			)
		`},
		{"findings", `
			CREATE TABLE IF NOT EXISTS findings (
				id INTEGER PRIMARY KEY,
				finding_id TEXT NOT NULL UNIQUE,
				rule_id INTEGER NOT NULL REFERENCES rules(id),
				groups TEXT NOT NULL,
				UNIQUE (rule_id, groups)
			)
		`},
		{"matches", `
			CREATE TABLE IF NOT EXISTS matches (
				id INTEGER PRIMARY KEY,
				structural_id TEXT NOT NULL UNIQUE,
				finding_id INTEGER NOT NULL REFERENCES findings(id),
				blob_id INTEGER NOT NULL REFERENCES blobs(id),
				start_byte INTEGER NOT NULL,
				end_byte INTEGER NOT NULL,
				before_snippet_id INTEGER NOT NULL REFERENCES snippets(id),
				matching_snippet_id INTEGER NOT NULL REFERENCES snippets(id),
				after_snippet_id INTEGER NOT NULL REFERENCES snippets(id),
				UNIQUE (blob_id, start_byte, end_byte, finding_id),
				FOREIGN KEY (blob_id, start_byte, end_byte)
					REFERENCES blob_source_spans(blob_id, start_byte, end_byte)
			)
		`},
		{"match_status", `
			CREATE TABLE IF NOT EXISTS match_status (
				match_id INTEGER PRIMARY KEY REFERENCES matches(id),
				status TEXT NOT NULL CHECK (status IN ('accept', 'reject'))
			)
		`},
		{"match_comment", `
			CREATE TABLE IF NOT EXISTS match_comment (
				match_id INTEGER PRIMARY KEY REFERENCES matches(id),
				comment TEXT NOT NULL CHECK (comment <> '')
			)
		`},
		{"finding_comment", `
			CREATE TABLE IF NOT EXISTS finding_comment (
				finding_id INTEGER PRIMARY KEY REFERENCES findings(id),
				comment TEXT NOT NULL CHECK (comment <> '')
			)
		`},
		{"match_score", `
			CREATE TABLE IF NOT EXISTS match_score (
				match_id INTEGER PRIMARY KEY REFERENCES matches(id),
				score REAL NOT NULL CHECK (score BETWEEN 0 AND 1)
			)
		`},
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt.sql); err != nil {
			return fmt.Errorf("creating %s table: %w", stmt.name, err)
		}
	}

	// Lookup indexes for the aggregation queries.
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_blob_provenance_blob_id ON blob_provenance(blob_id)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_finding_id ON matches(finding_id)`,
		`CREATE INDEX IF NOT EXISTS idx_findings_rule_id ON findings(rule_id)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}

	return nil
}

func createSchemaVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Insert version if table is empty
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count)
	if err != nil {
		return err
	}

	if count == 0 {
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion)
		return err
	}

	return nil
}
