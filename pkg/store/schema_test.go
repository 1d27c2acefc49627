package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSchema_Idempotent(t *testing.T) {
	db, err := sql.Open(sqliteDriverName, filepath.Join(t.TempDir(), "schema.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, CreateSchema(db))
	// Running again against an existing schema must be harmless
	require.NoError(t, CreateSchema(db))

	var version int
	require.NoError(t, db.QueryRow("SELECT version FROM schema_version").Scan(&version))
	assert.Equal(t, SchemaVersion, version)
}

func TestSchema_EnforcesChecks(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "checks.db"))
	require.NoError(t, err)
	defer s.Close()

	// blob_id must be 40 hex characters
	_, err = s.db.Exec("INSERT INTO blobs (blob_id, size) VALUES ('short', 1)")
	assert.Error(t, err)

	// size must be non-negative
	_, err = s.db.Exec("INSERT INTO blobs (blob_id, size) VALUES (?, -1)",
		"0123456789012345678901234567890123456789")
	assert.Error(t, err)
}
