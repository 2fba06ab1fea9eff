// ABOUTME: Store interface and data types for lpe-reminder persistence
// ABOUTME: Defines User, Setting, TimerRecord and the typed record patch

package store

import (
	"context"
)

// User is the identity bound to one device installation.
type User struct {
	ID        int64   `json:"id"`
	DeviceID  string  `json:"device_id"`
	Phone     *string `json:"phone"`
	CreatedAt int64   `json:"created_at"` // unix millis
	UpdatedAt int64   `json:"updated_at"` // unix millis
}

// Setting is a single key/value pair owned by a user.
// Value is opaque to the store; the UI stores JSON-encoded values.
type Setting struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedAt int64  `json:"updated_at"`
}

// SettingPair is one entry of a batch settings write.
type SettingPair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Record types written by the timer UI.
const (
	RecordTypeCountdown = "countdown"
	RecordTypeStopwatch = "stopwatch"
)

// Timer modes.
const (
	ModeWork  = "work"
	ModeBreak = "break"
)

// TimerRecord is one completed timer session.
// ID is supplied by the caller and must be globally unique.
type TimerRecord struct {
	ID         string  `json:"id"`
	UserID     int64   `json:"user_id"`
	RecordType string  `json:"record_type"`
	Mode       *string `json:"mode"`
	Name       *string `json:"name"`
	Category   *string `json:"category"`
	StartTime  int64   `json:"start_time"`
	EndTime    int64   `json:"end_time"`
	Duration   int64   `json:"duration"` // caller-computed, millis
	CreatedAt  int64   `json:"created_at"`
}

// TimerRecordPatch lists the mutable attributes of a timer record.
// Nil fields are left untouched.
type TimerRecordPatch struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
}

// Empty reports whether the patch would change nothing.
func (p TimerRecordPatch) Empty() bool {
	return p.Name == nil && p.Category == nil
}

// Store is the persistence surface used by the command layer.
// Every user-scoped method takes the owning user id explicitly.
type Store interface {
	// Users
	GetOrCreateUser(ctx context.Context, deviceID string) (*User, error)
	GetUserByID(ctx context.Context, userID int64) (*User, error)
	GetUserByDevice(ctx context.Context, deviceID string) (*User, error)
	UpdateUserPhone(ctx context.Context, userID int64, phone *string) error

	// Settings
	GetSettings(ctx context.Context, userID int64) ([]Setting, error)
	SaveSetting(ctx context.Context, userID int64, key, value string) error
	SaveSettingsBatch(ctx context.Context, userID int64, pairs []SettingPair) error
	DeleteSetting(ctx context.Context, userID int64, key string) error

	// Timer records
	GetTimerRecords(ctx context.Context, userID int64, limit int) ([]TimerRecord, error)
	CountTimerRecords(ctx context.Context, userID int64) (int, error)
	AddTimerRecord(ctx context.Context, record *TimerRecord) error
	UpdateTimerRecord(ctx context.Context, userID int64, recordID string, patch TimerRecordPatch) error
	DeleteTimerRecord(ctx context.Context, userID int64, recordID string) error
	ClearTimerRecords(ctx context.Context, userID int64) error

	// Close releases any resources held by the store
	Close() error
}

// StringPtr returns a pointer to s. Handy for optional fields.
func StringPtr(s string) *string {
	return &s
}
