package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMigratedDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func TestMigrate(t *testing.T) {
	db := newMigratedDB(t)

	var version int
	require.NoError(t, db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version))
	assert.Equal(t, 1, version)

	// Re-running must be a no-op.
	require.NoError(t, db.Migrate(context.Background()))
	var rows int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestNotesRoundTrip(t *testing.T) {
	db := newMigratedDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, "INSERT INTO notes (id, title, body) VALUES (?, ?, ?)", "n1", "title", "body")
	require.NoError(t, err)

	var title string
	require.NoError(t, db.QueryRowContext(ctx, "SELECT title FROM notes WHERE id = ?", "n1").Scan(&title))
	assert.Equal(t, "title", title)
}

func TestTransactionRollbackDiscardsWrites(t *testing.T) {
	db := newMigratedDB(t)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = tx.ExecContext(ctx, "INSERT INTO notes (id, title, body) VALUES (?, ?, ?)", "n1", "title", "")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&n))
	assert.Equal(t, 0, n)
}
