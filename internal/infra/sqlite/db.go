// Package sqlite persists the dream bank in a single SQLite file using the
// pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// FileName is the database file created inside the data directory.
const FileName = "dreambank.db"

// DB wraps the SQLite handle and implements domain.Gateway.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the database in dir and applies migrations.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(dir, FileName)
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// One writer; SQLite serializes anyway and this keeps WAL simple.
	sqlDB.SetMaxOpenConns(1)

	db := &DB{db: sqlDB, path: path}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Close releases the database handle.
func (db *DB) Close() error {
	return db.db.Close()
}

// Path returns the database file path.
func (db *DB) Path() string { return db.path }

func (db *DB) migrate() error {
	for i, stmt := range Migrations() {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// withTx runs fn inside a transaction, rolling back on any error.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ─── Schema ─────────────────────────────────────────────────────────────────

// Migrations returns the schema statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		// Roster, in insertion order
		`CREATE TABLE IF NOT EXISTS users (
			id       TEXT PRIMARY KEY,
			position INTEGER NOT NULL
		)`,

		// Catalog
		`CREATE TABLE IF NOT EXISTS activities (
			id       TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			name     TEXT NOT NULL,
			points   INTEGER NOT NULL CHECK(points >= 1)
		)`,
		`CREATE TABLE IF NOT EXISTS treats (
			id       TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			name     TEXT NOT NULL,
			cost     INTEGER NOT NULL CHECK(cost >= 1)
		)`,
		`CREATE TABLE IF NOT EXISTS dreams (
			id       TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			name     TEXT NOT NULL,
			cost     INTEGER NOT NULL CHECK(cost >= 1)
		)`,
		`CREATE TABLE IF NOT EXISTS dream_purchasers (
			dream_id TEXT NOT NULL,
			user_id  TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (dream_id, user_id)
		)`,

		// Ledgers
		`CREATE TABLE IF NOT EXISTS ledgers (
			user_id  TEXT PRIMARY KEY,
			balance  INTEGER NOT NULL DEFAULT 0 CHECK(balance >= 0),
			lifetime INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS treat_purchases (
			user_id  TEXT NOT NULL,
			treat_id TEXT NOT NULL,
			PRIMARY KEY (user_id, treat_id)
		)`,

		// Single-row bank header; its presence marks a saved bank.
		`CREATE TABLE IF NOT EXISTS bank_state (
			id         INTEGER PRIMARY KEY CHECK(id = 1),
			dream_pool INTEGER NOT NULL DEFAULT 0 CHECK(dream_pool >= 0),
			saved_at   TEXT NOT NULL DEFAULT (datetime('now'))
		)`,

		// Activity log
		`CREATE TABLE IF NOT EXISTS activity_log (
			id        TEXT PRIMARY KEY,
			user_id   TEXT NOT NULL,
			seq       INTEGER NOT NULL,
			timestamp TEXT NOT NULL,
			kind      TEXT NOT NULL DEFAULT 'ACTIVITY',
			activity  TEXT NOT NULL,
			points    INTEGER NOT NULL,
			level     INTEGER NOT NULL DEFAULT 0,
			bonus_for TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_log_user ON activity_log(user_id, seq)`,
	}
}
