// ABOUTME: Timer record persistence for the SQLite store
// ABOUTME: Most-recent-first listing, insert, ownership-scoped patch/delete/clear

package store

import (
	"context"
	"database/sql"
	"strings"
)

const recordColumns = `id, user_id, record_type, mode, name, category, start_time, end_time, duration, created_at`

// patchColumns maps each mutable attribute to its column. UpdateTimerRecord
// only ever emits these fixed column names.
var patchColumns = []struct {
	column string
	value  func(TimerRecordPatch) *string
}{
	{"name", func(p TimerRecordPatch) *string { return p.Name }},
	{"category", func(p TimerRecordPatch) *string { return p.Category }},
}

// GetTimerRecords returns up to limit records for the user, newest end_time first.
// A limit <= 0 returns an empty slice.
func (s *SQLiteStore) GetTimerRecords(ctx context.Context, userID int64, limit int) ([]TimerRecord, error) {
	if limit <= 0 {
		return []TimerRecord{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM timer_records
		WHERE user_id = ?
		ORDER BY end_time DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, wrapErr("querying timer records", err)
	}
	defer func() { _ = rows.Close() }()

	records := []TimerRecord{}
	for rows.Next() {
		var r TimerRecord
		var mode, name, category sql.NullString
		if err := rows.Scan(
			&r.ID, &r.UserID, &r.RecordType, &mode, &name, &category,
			&r.StartTime, &r.EndTime, &r.Duration, &r.CreatedAt,
		); err != nil {
			return nil, wrapErr("scanning timer record", err)
		}
		r.Mode = stringPtr(mode)
		r.Name = stringPtr(name)
		r.Category = stringPtr(category)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterating timer records", err)
	}
	return records, nil
}

// CountTimerRecords returns how many records the user owns.
func (s *SQLiteStore) CountTimerRecords(ctx context.Context, userID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM timer_records WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, wrapErr("counting timer records", err)
	}
	return n, nil
}

// AddTimerRecord inserts a record as given. Duration and timestamps are not
// cross-checked. A zero CreatedAt is stamped with the current time.
// Returns ErrConstraintViolation if the id is already taken (also wrapping
// ErrDuplicateKey) or the owner does not exist.
func (s *SQLiteStore) AddTimerRecord(ctx context.Context, record *TimerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.CreatedAt == 0 {
		record.CreatedAt = s.nowMillis()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO timer_records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		record.UserID,
		record.RecordType,
		nullString(record.Mode),
		nullString(record.Name),
		nullString(record.Category),
		record.StartTime,
		record.EndTime,
		record.Duration,
		record.CreatedAt,
	)
	if err != nil {
		return wrapErr("inserting timer record", err)
	}

	s.logger.Debug("added timer record", "id", record.ID, "user_id", record.UserID)
	return nil
}

// UpdateTimerRecord applies a partial patch to a record owned by userID.
// An empty patch performs no write. A record owned by someone else, or a
// missing one, affects zero rows and is not an error.
func (s *SQLiteStore) UpdateTimerRecord(ctx context.Context, userID int64, recordID string, patch TimerRecordPatch) error {
	if patch.Empty() {
		return nil
	}

	var sets []string
	var args []any
	for _, c := range patchColumns {
		if v := c.value(patch); v != nil {
			sets = append(sets, c.column+" = ?")
			args = append(args, *v)
		}
	}
	args = append(args, recordID, userID)

	query := `UPDATE timer_records SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND user_id = ?`

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapErr("updating timer record", err)
	}

	n, _ := result.RowsAffected()
	s.logger.Debug("updated timer record", "id", recordID, "user_id", userID, "rows", n)
	return nil
}

// DeleteTimerRecord deletes a record owned by userID. Missing or foreign
// records are a no-op.
func (s *SQLiteStore) DeleteTimerRecord(ctx context.Context, userID int64, recordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM timer_records WHERE id = ? AND user_id = ?`, recordID, userID); err != nil {
		return wrapErr("deleting timer record", err)
	}
	return nil
}

// ClearTimerRecords deletes every record owned by userID.
func (s *SQLiteStore) ClearTimerRecords(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM timer_records WHERE user_id = ?`, userID)
	if err != nil {
		return wrapErr("clearing timer records", err)
	}

	n, _ := result.RowsAffected()
	s.logger.Info("cleared timer records", "user_id", userID, "rows", n)
	return nil
}
