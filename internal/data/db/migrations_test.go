package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(t.TempDir(), DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func openRawConn(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "quill.db")
	conn, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", dbPath))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestMigrateUp_FreshDB(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	// Verify schema_migrations has all versions recorded.
	rows, err := database.Conn().QueryContext(ctx, "SELECT version FROM schema_migrations ORDER BY version")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var versions []int
	for rows.Next() {
		var v int
		require.NoError(t, rows.Scan(&v))
		versions = append(versions, v)
	}
	require.NoError(t, rows.Err())

	migrations, err := loadMigrations()
	require.NoError(t, err)

	require.Len(t, versions, len(migrations))
	for i, m := range migrations {
		assert.Equal(t, m.Version, versions[i])
	}

	// Verify core tables exist by doing simple queries.
	_, err = database.Conn().ExecContext(ctx, "SELECT 1 FROM kv_store LIMIT 0")
	require.NoError(t, err, "kv_store table should exist")

	_, err = database.Conn().ExecContext(ctx, "SELECT 1 FROM notifications LIMIT 0")
	require.NoError(t, err, "notifications table should exist")

	_, err = database.Conn().ExecContext(ctx, "SELECT 1 FROM drafts LIMIT 0")
	require.NoError(t, err, "drafts table should exist")
}

func TestMigrateUp_Idempotent(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	// Running migrateUp again should be a no-op.
	err := migrateUp(ctx, database.Conn())
	assert.NoError(t, err, "second migrateUp should be idempotent")
}

func TestMigrateDown(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	conn := database.Conn()

	// Insert a notification row so we can verify the table still works.
	_, err := conn.ExecContext(ctx, `
		INSERT INTO notifications (level, message, created_at)
		VALUES ('info', 'hello', 1)
	`)
	require.NoError(t, err)

	// Revert the last migration (drafts).
	err = MigrateDown(ctx, conn, 1)
	require.NoError(t, err)

	// drafts table should be gone.
	_, err = conn.ExecContext(ctx, "SELECT 1 FROM drafts LIMIT 0")
	require.Error(t, err, "drafts should not exist after down migration")

	// notifications table should still exist.
	var count int
	err = conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM notifications").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "notification row should be preserved")
}

func TestMigrateDown_InvalidN(t *testing.T) {
	conn := openRawConn(t)
	ctx := context.Background()

	err := MigrateDown(ctx, conn, 0)
	require.Error(t, err, "n=0 should fail")

	err = MigrateDown(ctx, conn, -1)
	require.Error(t, err, "n=-1 should fail")
}

func TestMigrateDown_TooMany(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	migrations, err := loadMigrations()
	require.NoError(t, err)

	err = MigrateDown(ctx, database.Conn(), len(migrations)+1)
	assert.Error(t, err, "requesting more down migrations than applied should fail")
}

func TestLoadMigrations_Valid(t *testing.T) {
	migrations, err := loadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	// Verify ascending version order.
	for i := 1; i < len(migrations); i++ {
		assert.Greater(t, migrations[i].Version, migrations[i-1].Version,
			"migrations should be in ascending version order")
	}

	// Every migration must have both up and down SQL.
	for _, m := range migrations {
		assert.NotEmpty(t, m.UpSQL, "migration %d up SQL should not be empty", m.Version)
		assert.NotEmpty(t, m.DownSQL, "migration %d down SQL should not be empty", m.Version)
		assert.NotEmpty(t, m.Name, "migration %d name should not be empty", m.Version)
	}
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		filename      string
		wantVersion   int
		wantName      string
		wantDirection string
		wantErr       bool
	}{
		{"0001_core.up.sql", 1, "core", "up", false},
		{"0001_core.down.sql", 1, "core", "down", false},
		{"0002_drafts.up.sql", 2, "drafts", "up", false},
		{"0100_big_version.down.sql", 100, "big_version", "down", false},
		{"bad.sql", 0, "", "", true},
		{"0001_core.sql", 0, "", "", true},
		{"0000_zero.up.sql", 0, "", "", true},
		{"-1_negative.up.sql", 0, "", "", true},
		{"abc_notnumber.up.sql", 0, "", "", true},
		{"0001_.up.sql", 0, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			version, name, direction, err := parseFilename(tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, version)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantDirection, direction)
		})
	}
}

func TestWithTx_Rollback(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := database.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO notifications (level, message, created_at)
			VALUES ('info', 'rolled back', 1)
		`)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	err = database.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM notifications").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "insert should have been rolled back")
}
