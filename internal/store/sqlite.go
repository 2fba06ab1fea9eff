// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Owns the single connection, creates the schema and serializes every operation

package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// busyTimeoutMillis bounds how long SQLite waits on a locked file.
const busyTimeoutMillis = 5000

// SQLiteStore implements the Store interface using SQLite.
//
// It owns exactly one connection. mu is held for the full duration of every
// public method, so operations never interleave.
type SQLiteStore struct {
	mu     sync.Mutex
	db     *sql.DB
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithLogger sets the logger used by the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *SQLiteStore) {
		s.logger = logger.With("component", "store")
	}
}

// WithClock overrides the time source used for created_at/updated_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *SQLiteStore) {
		s.now = now
	}
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
// Every failure wraps ErrInit.
func NewSQLiteStore(path string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{
		path:   path,
		logger: slog.Default().With("component", "store"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: creating database directory: %v", ErrInit, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", ErrInit, err)
	}

	// One connection for the life of the store. PRAGMAs below are
	// per-connection, so it must never be recycled.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	s.db = db

	if err := s.configure(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrInit, err)
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: creating schema: %v", ErrInit, err)
	}

	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: running migrations: %v", ErrInit, err)
	}

	if err := s.createIndexes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: creating indexes: %v", ErrInit, err)
	}

	s.logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

func (s *SQLiteStore) configure() error {
	// WAL is refused for in-memory databases; the reply is just "memory".
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := s.db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("enabling foreign keys: %w", err)
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeoutMillis)); err != nil {
		return fmt.Errorf("setting busy timeout: %w", err)
	}

	return nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			device_id TEXT UNIQUE NOT NULL,
			phone TEXT,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS settings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id),
			UNIQUE(user_id, key)
		);

		CREATE TABLE IF NOT EXISTS timer_records (
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			record_type TEXT NOT NULL,
			mode TEXT,
			name TEXT,
			category TEXT,
			start_time INTEGER NOT NULL,
			end_time INTEGER NOT NULL,
			duration INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// runMigrations applies additive column changes for databases created by
// older releases. Each ALTER is attempted every startup; "duplicate column"
// means it is already applied.
func (s *SQLiteStore) runMigrations() error {
	migrations := []struct {
		table  string
		column string
		apply  string
	}{
		{
			table:  "timer_records",
			column: "category",
			apply:  `ALTER TABLE timer_records ADD COLUMN category TEXT`,
		},
	}

	for _, m := range migrations {
		_, err := s.db.Exec(m.apply)
		if err == nil {
			s.logger.Info("applied migration", "column", m.column, "table", m.table)
			continue
		}
		if isDuplicateColumn(err) {
			s.logger.Debug("migration already applied", "column", m.column, "table", m.table)
			continue
		}
		return fmt.Errorf("adding %s column to %s: %w", m.column, m.table, err)
	}

	return nil
}

// createIndexes builds the read-path indexes on timer_records. Runs after
// migrations so every indexed column exists.
func (s *SQLiteStore) createIndexes() error {
	_, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_timer_records_user_id
			ON timer_records(user_id);

		CREATE INDEX IF NOT EXISTS idx_timer_records_end_time
			ON timer_records(end_time DESC);
	`)
	return err
}

// Path returns the filesystem location of the database.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// nowMillis returns the store clock in unix milliseconds.
func (s *SQLiteStore) nowMillis() int64 {
	return s.now().UnixMilli()
}

// nullString maps an optional string to a column value.
func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

// stringPtr maps a nullable column back to an optional string.
func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

// ensure SQLiteStore satisfies Store
var _ Store = (*SQLiteStore)(nil)
