// ABOUTME: Per-user key/value settings for the SQLite store
// ABOUTME: Upserts keyed by (user_id, key); batches share one timestamp

package store

import (
	"context"
)

const upsertSetting = `
	INSERT INTO settings (user_id, key, value, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`

// GetSettings lists all settings for a user, ordered by key.
func (s *SQLiteStore) GetSettings(ctx context.Context, userID int64) ([]Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, key, value, updated_at
		FROM settings WHERE user_id = ?
		ORDER BY key ASC
	`, userID)
	if err != nil {
		return nil, wrapErr("querying settings", err)
	}
	defer func() { _ = rows.Close() }()

	settings := []Setting{}
	for rows.Next() {
		var st Setting
		if err := rows.Scan(&st.ID, &st.UserID, &st.Key, &st.Value, &st.UpdatedAt); err != nil {
			return nil, wrapErr("scanning setting", err)
		}
		settings = append(settings, st)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterating settings", err)
	}
	return settings, nil
}

// SaveSetting creates or replaces a single setting.
func (s *SQLiteStore) SaveSetting(ctx context.Context, userID int64, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, upsertSetting, userID, key, value, s.nowMillis()); err != nil {
		return wrapErr("saving setting", err)
	}
	return nil
}

// SaveSettingsBatch upserts every pair with one shared updated_at.
// Each pair is its own write; a failure part way leaves earlier pairs applied.
func (s *SQLiteStore) SaveSettingsBatch(ctx context.Context, userID int64, pairs []SettingPair) error {
	if len(pairs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowMillis()
	for _, p := range pairs {
		if _, err := s.db.ExecContext(ctx, upsertSetting, userID, p.Key, p.Value, now); err != nil {
			return wrapErr("saving setting "+p.Key, err)
		}
	}

	s.logger.Debug("saved settings batch", "user_id", userID, "count", len(pairs))
	return nil
}

// DeleteSetting removes a setting. A missing key is a no-op.
func (s *SQLiteStore) DeleteSetting(ctx context.Context, userID int64, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE user_id = ? AND key = ?`, userID, key); err != nil {
		return wrapErr("deleting setting", err)
	}
	return nil
}
