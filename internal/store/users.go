// ABOUTME: User persistence for the SQLite store
// ABOUTME: Device-bound identity lookup/creation and phone updates

package store

import (
	"context"
	"database/sql"
	"errors"
)

const userColumns = `id, device_id, phone, created_at, updated_at`

// GetOrCreateUser returns the user bound to deviceID, creating it on first
// contact. An existing row is returned unchanged.
func (s *SQLiteStore) GetOrCreateUser(ctx context.Context, deviceID string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.userByDevice(ctx, deviceID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := s.nowMillis()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO users (device_id, created_at, updated_at) VALUES (?, ?, ?)`,
		deviceID, now, now,
	)
	if err != nil {
		return nil, wrapErr("inserting user", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, wrapErr("reading new user id", err)
	}

	s.logger.Info("created user", "id", id, "device_id", deviceID)
	return &User{
		ID:        id,
		DeviceID:  deviceID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetUserByID retrieves a user by id.
// Returns ErrNotFound if the user doesn't exist.
func (s *SQLiteStore) GetUserByID(ctx context.Context, userID int64) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, userID)
	return scanUser(row)
}

// GetUserByDevice retrieves a user by device id without creating one.
// Returns ErrNotFound if no user is bound to the device.
func (s *SQLiteStore) GetUserByDevice(ctx context.Context, deviceID string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.userByDevice(ctx, deviceID)
}

// UpdateUserPhone sets or clears the phone number and refreshes updated_at.
// An unknown userID affects zero rows and is not an error. updated_at has
// millisecond resolution, so an update in the creation millisecond leaves it
// equal to created_at.
func (s *SQLiteStore) UpdateUserPhone(ctx context.Context, userID int64, phone *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET phone = ?, updated_at = ? WHERE id = ?`,
		nullString(phone), s.nowMillis(), userID,
	)
	if err != nil {
		return wrapErr("updating user phone", err)
	}

	n, _ := result.RowsAffected()
	s.logger.Debug("updated user phone", "user_id", userID, "rows", n)
	return nil
}

// userByDevice must be called with mu held.
func (s *SQLiteStore) userByDevice(ctx context.Context, deviceID string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE device_id = ?`, deviceID)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var phone sql.NullString

	err := row.Scan(&u.ID, &u.DeviceID, &phone, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("scanning user", err)
	}

	u.Phone = stringPtr(phone)
	return &u, nil
}
