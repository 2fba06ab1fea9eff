// Package store provides local persistence for the tray timer using SQLite.
//
// # Architecture
//
// Store is the single interface used by the command layer. Two
// implementations exist:
//
//   - SQLiteStore: the real store, backed by one database file
//   - MockStore: an in-memory implementation for unit tests
//
// # Data Models
//
//   - User: one row per device installation, keyed by device_id
//   - Setting: opaque key/value pairs, unique per (user_id, key)
//   - TimerRecord: one completed timer session, caller-supplied id
//
// All timestamps are unix milliseconds.
//
// # Concurrency
//
// SQLiteStore owns exactly one connection and a mutex. Every public method
// holds the mutex for its whole duration, so operations are fully serialized
// and each one observes every earlier write.
//
// # SQLite Configuration
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//	PRAGMA busy_timeout=5000;
//
// # Error Handling
//
//   - ErrInit: database file or schema could not be set up
//   - ErrNotFound: lookup by required identity matched nothing
//   - ErrConstraintViolation: duplicate device_id or timer record id, or an
//     owner that does not exist
//   - ErrDuplicateKey: also wrapped when the violation is a duplicate id
//   - ErrBackend: anything else the engine reports
//
// Patches and deletes that match zero rows succeed silently.
//
// # Migrations
//
// Only additive column changes are supported. Each ALTER TABLE is attempted
// at every startup and a "duplicate column" failure is ignored.
package store
