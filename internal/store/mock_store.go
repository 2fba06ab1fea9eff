// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu            sync.RWMutex
	users         map[int64]*User               // keyed by user ID
	usersByDev    map[string]int64              // keyed by device ID -> user ID
	settings      map[int64]map[string]*Setting // keyed by user ID, then key
	records       map[string]*TimerRecord       // keyed by record ID
	nextUserID    int64
	nextSettingID int64
	now           func() time.Time
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		users:      make(map[int64]*User),
		usersByDev: make(map[string]int64),
		settings:   make(map[int64]map[string]*Setting),
		records:    make(map[string]*TimerRecord),
		now:        time.Now,
	}
}

// SetClock overrides the time source.
func (m *MockStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// GetOrCreateUser returns the user for deviceID, creating it if needed.
func (m *MockStore) GetOrCreateUser(ctx context.Context, deviceID string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.usersByDev[deviceID]; ok {
		u := copyUser(m.users[id])
		return &u, nil
	}

	m.nextUserID++
	now := m.now().UnixMilli()
	u := &User{
		ID:        m.nextUserID,
		DeviceID:  deviceID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.users[u.ID] = u
	m.usersByDev[deviceID] = u.ID

	result := *u
	return &result, nil
}

// GetUserByID retrieves a user by ID.
func (m *MockStore) GetUserByID(ctx context.Context, userID int64) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	result := copyUser(u)
	return &result, nil
}

// GetUserByDevice retrieves a user by device ID.
func (m *MockStore) GetUserByDevice(ctx context.Context, deviceID string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.usersByDev[deviceID]
	if !ok {
		return nil, ErrNotFound
	}
	result := copyUser(m.users[id])
	return &result, nil
}

// UpdateUserPhone sets the phone of an existing user; unknown IDs are ignored.
func (m *MockStore) UpdateUserPhone(ctx context.Context, userID int64, phone *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return nil
	}
	u.Phone = copyString(phone)
	u.UpdatedAt = m.now().UnixMilli()
	return nil
}

// GetSettings lists a user's settings ordered by key.
func (m *MockStore) GetSettings(ctx context.Context, userID int64) ([]Setting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []Setting{}
	for _, st := range m.settings[userID] {
		result = append(result, *st)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

// SaveSetting upserts one setting.
func (m *MockStore) SaveSetting(ctx context.Context, userID int64, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.upsertSetting(userID, key, value, m.now().UnixMilli())
}

// SaveSettingsBatch upserts all pairs with a shared timestamp.
func (m *MockStore) SaveSettingsBatch(ctx context.Context, userID int64, pairs []SettingPair) error {
	if len(pairs) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UnixMilli()
	for _, p := range pairs {
		if err := m.upsertSetting(userID, p.Key, p.Value, now); err != nil {
			return err
		}
	}
	return nil
}

// DeleteSetting removes a setting if present.
func (m *MockStore) DeleteSetting(ctx context.Context, userID int64, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.settings[userID], key)
	return nil
}

// upsertSetting must be called with mu held.
func (m *MockStore) upsertSetting(userID int64, key, value string, now int64) error {
	if _, ok := m.users[userID]; !ok {
		return fmt.Errorf("saving setting %s: %w: unknown user %d", key, ErrConstraintViolation, userID)
	}

	byKey, ok := m.settings[userID]
	if !ok {
		byKey = make(map[string]*Setting)
		m.settings[userID] = byKey
	}
	if st, ok := byKey[key]; ok {
		st.Value = value
		st.UpdatedAt = now
		return nil
	}

	m.nextSettingID++
	byKey[key] = &Setting{ID: m.nextSettingID, UserID: userID, Key: key, Value: value, UpdatedAt: now}
	return nil
}

// GetTimerRecords returns up to limit of the user's records, newest end_time first.
func (m *MockStore) GetTimerRecords(ctx context.Context, userID int64, limit int) ([]TimerRecord, error) {
	if limit <= 0 {
		return []TimerRecord{}, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []TimerRecord{}
	for _, r := range m.records {
		if r.UserID == userID {
			result = append(result, copyRecord(r))
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].EndTime > result[j].EndTime })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// CountTimerRecords counts the user's records.
func (m *MockStore) CountTimerRecords(ctx context.Context, userID int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, r := range m.records {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

// AddTimerRecord stores a record; duplicate IDs are rejected.
func (m *MockStore) AddTimerRecord(ctx context.Context, record *TimerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[record.ID]; ok {
		return fmt.Errorf("inserting timer record: %w: %w: id %q exists", ErrConstraintViolation, ErrDuplicateKey, record.ID)
	}
	if _, ok := m.users[record.UserID]; !ok {
		return fmt.Errorf("inserting timer record: %w: unknown user %d", ErrConstraintViolation, record.UserID)
	}
	if record.CreatedAt == 0 {
		record.CreatedAt = m.now().UnixMilli()
	}

	r := copyRecord(record)
	m.records[r.ID] = &r
	return nil
}

// UpdateTimerRecord patches name/category of a record owned by userID.
func (m *MockStore) UpdateTimerRecord(ctx context.Context, userID int64, recordID string, patch TimerRecordPatch) error {
	if patch.Empty() {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[recordID]
	if !ok || r.UserID != userID {
		return nil
	}
	if patch.Name != nil {
		r.Name = copyString(patch.Name)
	}
	if patch.Category != nil {
		r.Category = copyString(patch.Category)
	}
	return nil
}

// DeleteTimerRecord removes a record owned by userID.
func (m *MockStore) DeleteTimerRecord(ctx context.Context, userID int64, recordID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.records[recordID]; ok && r.UserID == userID {
		delete(m.records, recordID)
	}
	return nil
}

// ClearTimerRecords removes all of a user's records.
func (m *MockStore) ClearTimerRecords(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, r := range m.records {
		if r.UserID == userID {
			delete(m.records, id)
		}
	}
	return nil
}

// Close is a no-op for MockStore.
func (m *MockStore) Close() error {
	return nil
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyUser(u *User) User {
	c := *u
	c.Phone = copyString(u.Phone)
	return c
}

func copyRecord(r *TimerRecord) TimerRecord {
	c := *r
	c.Mode = copyString(r.Mode)
	c.Name = copyString(r.Name)
	c.Category = copyString(r.Category)
	return c
}

var _ Store = (*MockStore)(nil)
