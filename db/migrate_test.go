package db

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateCreatesSchema(t *testing.T) {
	db := openMemoryDB(t)
	require.NoError(t, Migrate(db, nil))

	for _, table := range []string{"schema_migrations", "applicants", "courses", "settings", "notification_log"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openMemoryDB(t)
	require.NoError(t, Migrate(db, nil))
	require.NoError(t, Migrate(db, nil))

	var applied int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.GreaterOrEqual(t, applied, 2)
}

func TestOpenAndMigrateOnDisk(t *testing.T) {
	path := t.TempDir() + "/admissions.db"

	db, err := Open(path, nil)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db, nil))

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}
