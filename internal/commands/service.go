// ABOUTME: Command surface used by the tray UI shell
// ABOUTME: Resolves the current user and forwards each command to the store

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/2389/lpe-reminder/internal/session"
	"github.com/2389/lpe-reminder/internal/store"
)

// Service implements the UI-facing commands on top of a Store.
// User-scoped commands require InitUser to have run first.
type Service struct {
	store   store.Store
	current *session.Current
	logger  *slog.Logger
}

// NewService creates a command service. A nil logger uses slog.Default().
func NewService(s store.Store, current *session.Current, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if current == nil {
		current = session.New()
	}
	return &Service{
		store:   s,
		current: current,
		logger:  logger.With("component", "commands"),
	}
}

// InitUser resolves (or creates) the user for deviceID and makes it current.
func (s *Service) InitUser(ctx context.Context, deviceID string) (*store.User, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("%w: device_id is required", ErrInvalidArgument)
	}

	user, err := s.store.GetOrCreateUser(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("initializing user: %w", err)
	}

	s.current.Set(user.ID)
	s.logger.Info("current user set", "user_id", user.ID, "device_id", deviceID)
	return user, nil
}

// UpdatePhone sets or clears the current user's phone number.
func (s *Service) UpdatePhone(ctx context.Context, phone *string) error {
	userID, err := s.current.UserID()
	if err != nil {
		return err
	}
	return s.store.UpdateUserPhone(ctx, userID, phone)
}

// GetUser returns the current user.
func (s *Service) GetUser(ctx context.Context) (*store.User, error) {
	userID, err := s.current.UserID()
	if err != nil {
		return nil, err
	}
	return s.store.GetUserByID(ctx, userID)
}

// GetSettings returns all of the current user's settings.
func (s *Service) GetSettings(ctx context.Context) ([]store.Setting, error) {
	userID, err := s.current.UserID()
	if err != nil {
		return nil, err
	}
	return s.store.GetSettings(ctx, userID)
}

// SaveSetting upserts one setting for the current user.
func (s *Service) SaveSetting(ctx context.Context, key, value string) error {
	userID, err := s.current.UserID()
	if err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("%w: key is required", ErrInvalidArgument)
	}
	return s.store.SaveSetting(ctx, userID, key, value)
}

// SaveSettingsBatch upserts many settings with one timestamp. Any empty key
// rejects the whole batch before anything is written.
func (s *Service) SaveSettingsBatch(ctx context.Context, pairs []store.SettingPair) error {
	userID, err := s.current.UserID()
	if err != nil {
		return err
	}
	for i, p := range pairs {
		if p.Key == "" {
			return fmt.Errorf("%w: key is required (pair %d)", ErrInvalidArgument, i)
		}
	}
	return s.store.SaveSettingsBatch(ctx, userID, pairs)
}

// GetTimerRecords returns up to limit of the current user's most recent records.
func (s *Service) GetTimerRecords(ctx context.Context, limit int) ([]store.TimerRecord, error) {
	userID, err := s.current.UserID()
	if err != nil {
		return nil, err
	}
	return s.store.GetTimerRecords(ctx, userID, limit)
}

// AddTimerRecord stores a record for the current user. The record's UserID
// is overwritten with the current user.
func (s *Service) AddTimerRecord(ctx context.Context, record store.TimerRecord) error {
	userID, err := s.current.UserID()
	if err != nil {
		return err
	}
	if record.ID == "" {
		return fmt.Errorf("%w: record id is required", ErrInvalidArgument)
	}
	record.UserID = userID
	return s.store.AddTimerRecord(ctx, &record)
}

// UpdateTimerRecord patches name and/or category of one of the current user's records.
func (s *Service) UpdateTimerRecord(ctx context.Context, recordID string, patch store.TimerRecordPatch) error {
	userID, err := s.current.UserID()
	if err != nil {
		return err
	}
	return s.store.UpdateTimerRecord(ctx, userID, recordID, patch)
}

// DeleteTimerRecord deletes one of the current user's records.
func (s *Service) DeleteTimerRecord(ctx context.Context, recordID string) error {
	userID, err := s.current.UserID()
	if err != nil {
		return err
	}
	return s.store.DeleteTimerRecord(ctx, userID, recordID)
}

// ClearTimerRecords deletes all of the current user's records.
func (s *Service) ClearTimerRecords(ctx context.Context) error {
	userID, err := s.current.UserID()
	if err != nil {
		return err
	}
	return s.store.ClearTimerRecords(ctx, userID)
}

// CurrentUserID exposes the resolved user for collaborators such as backup.
func (s *Service) CurrentUserID() (int64, error) {
	return s.current.UserID()
}
