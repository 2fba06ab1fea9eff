// ABOUTME: Tests for SQLite store initialization
// ABOUTME: Covers file creation, reopening, legacy schema upgrade, and init failures

package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestNewSQLiteStore(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	// Verify the database file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
	if store.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", store.Path(), dbPath)
	}
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created in nested directory")
	}
}

func TestNewSQLiteStore_InMemory(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore(:memory:) failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if _, err := store.GetOrCreateUser(ctx, "dev-mem"); err != nil {
		t.Fatalf("GetOrCreateUser failed: %v", err)
	}
}

func TestNewSQLiteStore_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	first, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("first open failed: %v", err)
	}
	user, err := first.GetOrCreateUser(ctx, "dev-1")
	if err != nil {
		t.Fatalf("GetOrCreateUser failed: %v", err)
	}
	if err := first.AddTimerRecord(ctx, &TimerRecord{
		ID: "r1", UserID: user.ID, RecordType: RecordTypeCountdown,
		StartTime: 1000, EndTime: 2000, Duration: 1000, CreatedAt: 2000,
	}); err != nil {
		t.Fatalf("AddTimerRecord failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Schema creation and the category migration must tolerate an initialized file
	second, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("second open failed: %v", err)
	}
	defer second.Close()

	again, err := second.GetOrCreateUser(ctx, "dev-1")
	if err != nil {
		t.Fatalf("GetOrCreateUser failed: %v", err)
	}
	if again.ID != user.ID {
		t.Errorf("user id changed across reopen: got %d, want %d", again.ID, user.ID)
	}

	records, err := second.GetTimerRecords(ctx, user.ID, 10)
	if err != nil {
		t.Fatalf("GetTimerRecords failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 record after reopen, got %d", len(records))
	}
}

func TestNewSQLiteStore_AddsCategoryToLegacySchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "legacy.db")

	// Build a file the way releases before the category column did
	legacy, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("opening legacy db: %v", err)
	}
	_, err = legacy.Exec(`
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			device_id TEXT UNIQUE NOT NULL,
			phone TEXT,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
		CREATE TABLE timer_records (
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			record_type TEXT NOT NULL,
			mode TEXT,
			name TEXT,
			start_time INTEGER NOT NULL,
			end_time INTEGER NOT NULL,
			duration INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);
		INSERT INTO users (device_id, created_at, updated_at) VALUES ('dev-old', 1, 1);
		INSERT INTO timer_records VALUES ('old-1', 1, 'countdown', 'work', 'legacy', 10, 20, 10, 20);
	`)
	if err != nil {
		t.Fatalf("creating legacy schema: %v", err)
	}
	legacy.Close()

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore on legacy file failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	records, err := store.GetTimerRecords(ctx, 1, 10)
	if err != nil {
		t.Fatalf("GetTimerRecords failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected legacy record to survive, got %d", len(records))
	}
	if records[0].Category != nil {
		t.Errorf("legacy record category = %q, want nil", *records[0].Category)
	}

	if err := store.UpdateTimerRecord(ctx, 1, "old-1", TimerRecordPatch{Category: StringPtr("work")}); err != nil {
		t.Fatalf("UpdateTimerRecord failed: %v", err)
	}
	records, _ = store.GetTimerRecords(ctx, 1, 10)
	if records[0].Category == nil || *records[0].Category != "work" {
		t.Errorf("category not persisted on migrated table: %v", records[0].Category)
	}
}

func TestNewSQLiteStore_InitError(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("writing blocker file: %v", err)
	}

	_, err := NewSQLiteStore(filepath.Join(blocker, "test.db"))
	if err == nil {
		t.Fatal("expected error opening database beneath a regular file")
	}
	if !errors.Is(err, ErrInit) {
		t.Errorf("expected ErrInit, got %v", err)
	}
}

func TestSQLiteStore_IndexesExist(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"idx_timer_records_user_id", "idx_timer_records_end_time"} {
		var got string
		err := store.db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'index' AND name = ?`, name).Scan(&got)
		if err != nil {
			t.Errorf("index %s missing: %v", name, err)
		}
	}
}

// fakeClock hands out strictly increasing times, one millisecond apart.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

// newTestStore creates a store in a temp dir that is closed when the test ends.
func newTestStore(t *testing.T, opts ...Option) *SQLiteStore {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath, opts...)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

// createUser creates a user for deviceID or fails the test.
func createUser(t *testing.T, s Store, deviceID string) *User {
	t.Helper()

	u, err := s.GetOrCreateUser(context.Background(), deviceID)
	if err != nil {
		t.Fatalf("GetOrCreateUser(%q) failed: %v", deviceID, err)
	}
	return u
}
