// Package db owns the SQLite connection and schema migrations for the
// dashboard's local state: UI key-value data, notification history, and the
// response draft cache.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	maxRetries  = 5
	initialWait = 100 * time.Millisecond
)

// OpenOptions configures connection pooling and SQLite pragmas.
type OpenOptions struct {
	MaxOpenConns int
	MaxIdleConns int
	BusyTimeout  int // milliseconds
}

// DefaultOpenOptions returns the options used outside of tests.
func DefaultOpenOptions() OpenOptions {
	return OpenOptions{
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		BusyTimeout:  5000,
	}
}

// DB wraps a SQL database connection with retry logic and migrations.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection with connection pooling and retry
// logic, and applies any pending migrations. The database file is created in
// the specified data directory.
func Open(dataDir string, opts OpenOptions) (*DB, error) {
	dbPath := filepath.Join(dataDir, "quill.db")

	// Open with pragmas for WAL mode and busy timeout
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)", dbPath, opts.BusyTimeout)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(opts.MaxOpenConns)
	conn.SetMaxIdleConns(opts.MaxIdleConns)
	conn.SetConnMaxLifetime(0) // Connections live forever

	db := &DB{conn: conn}

	// Verify connectivity with retry
	if err := db.pingWithRetry(context.Background()); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrateUp(context.Background(), conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying connection for store implementations.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// WithTx executes a function within a transaction.
// If the function returns an error, the transaction is rolled back.
func (db *DB) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// pingWithRetry attempts to ping the database with exponential backoff.
func (db *DB) pingWithRetry(ctx context.Context) error {
	wait := initialWait
	for i := 0; i < maxRetries; i++ {
		if err := db.conn.PingContext(ctx); err == nil {
			return nil
		}

		if i < maxRetries-1 {
			time.Sleep(wait)
			wait *= 2
		}
	}

	return fmt.Errorf("failed to ping database after %d retries", maxRetries)
}
