// ABOUTME: JSON backup export and import for one user's settings and records
// ABOUTME: Snapshots are versioned; re-importing skips records already present

package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/2389/lpe-reminder/internal/store"
)

// FormatVersion is written into every snapshot.
const FormatVersion = "1.0.0"

// ErrInvalidSnapshot is returned when a backup document is missing required parts.
var ErrInvalidSnapshot = errors.New("invalid backup file")

// Snapshot is the on-disk backup document.
type Snapshot struct {
	Version    string              `json:"version"`
	ExportTime string              `json:"export_time"` // RFC 3339
	Settings   map[string]string   `json:"settings"`
	Records    []store.TimerRecord `json:"records"`
}

// Options controls Import.
type Options struct {
	// Replace clears the user's existing records before importing.
	Replace bool
}

// Result reports what an import changed.
type Result struct {
	Settings int `json:"settings"`
	Added    int `json:"added"`
	Skipped  int `json:"skipped"`
}

// DefaultFileName names a backup taken at now.
func DefaultFileName(now time.Time) string {
	return "lpe-reminder-backup-" + now.Format("2006-01-02") + ".json"
}

// Export collects the user's settings and up to limit most recent records.
func Export(ctx context.Context, st store.Store, userID int64, limit int, now time.Time) (*Snapshot, error) {
	settings, err := st.GetSettings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("exporting settings: %w", err)
	}

	records, err := st.GetTimerRecords(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("exporting timer records: %w", err)
	}

	snap := &Snapshot{
		Version:    FormatVersion,
		ExportTime: now.UTC().Format(time.RFC3339),
		Settings:   make(map[string]string, len(settings)),
		Records:    records,
	}
	for _, s := range settings {
		snap.Settings[s.Key] = s.Value
	}
	return snap, nil
}

// Validate checks that the snapshot has a version, settings and records.
func (s *Snapshot) Validate() error {
	var errs []error
	if s.Version == "" {
		errs = append(errs, errors.New("missing version"))
	}
	if s.Settings == nil {
		errs = append(errs, errors.New("missing settings"))
	}
	if s.Records == nil {
		errs = append(errs, errors.New("missing records"))
	}
	for i, r := range s.Records {
		if r.ID == "" {
			errs = append(errs, fmt.Errorf("record %d has no id", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, errors.Join(errs...))
	}
	return nil
}

// Write encodes the snapshot as indented JSON.
func Write(w io.Writer, snap *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}
	return nil
}

// Read decodes and validates a snapshot.
func Read(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Import writes the snapshot into the store for userID. Settings are saved as
// one batch. Records are re-owned by userID; ids that already exist are
// skipped and counted rather than failing the import.
func Import(ctx context.Context, st store.Store, userID int64, snap *Snapshot, opts Options) (*Result, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	if opts.Replace {
		if err := st.ClearTimerRecords(ctx, userID); err != nil {
			return nil, fmt.Errorf("clearing records before import: %w", err)
		}
	}

	res := &Result{}

	keys := make([]string, 0, len(snap.Settings))
	for k := range snap.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]store.SettingPair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, store.SettingPair{Key: k, Value: snap.Settings[k]})
	}
	if err := st.SaveSettingsBatch(ctx, userID, pairs); err != nil {
		return nil, fmt.Errorf("importing settings: %w", err)
	}
	res.Settings = len(pairs)

	for _, r := range snap.Records {
		r.UserID = userID
		added, err := insertOrIgnore(ctx, st, &r)
		if err != nil {
			return res, fmt.Errorf("importing record %s: %w", r.ID, err)
		}
		if added {
			res.Added++
		} else {
			res.Skipped++
		}
	}
	return res, nil
}

// insertOrIgnore treats a duplicate id as "already present". Other
// constraint failures, such as an unknown owner, are returned.
func insertOrIgnore(ctx context.Context, st store.Store, r *store.TimerRecord) (bool, error) {
	err := st.AddTimerRecord(ctx, r)
	if errors.Is(err, store.ErrDuplicateKey) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
