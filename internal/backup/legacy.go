// ABOUTME: Import of the pre-SQLite browser storage layout
// ABOUTME: Settings object plus a camelCase history array, keyed as the old UI stored them

package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/2389/lpe-reminder/internal/store"
)

// Keys the old UI used for its browser storage entries.
const (
	LegacySettingsKey = "lpe-reminder-settings"
	LegacyHistoryKey  = "lpe-reminder-history"
)

// LegacyRecord is a history entry as the old UI stored it.
type LegacyRecord struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Mode      string `json:"mode,omitempty"`
	Name      string `json:"name,omitempty"`
	StartTime int64  `json:"startTime"`
	EndTime   int64  `json:"endTime"`
	Duration  int64  `json:"duration"`
}

// Legacy holds both legacy storage entries. Either may be absent.
type Legacy struct {
	Settings map[string]json.RawMessage
	History  []LegacyRecord
}

// ReadLegacy parses a dump of the old browser storage: a JSON object whose
// values are themselves JSON documents encoded as strings.
func ReadLegacy(r io.Reader) (*Legacy, error) {
	var dump map[string]string
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return nil, fmt.Errorf("decoding legacy dump: %w", err)
	}

	legacy := &Legacy{}
	if raw, ok := dump[LegacySettingsKey]; ok {
		if err := json.Unmarshal([]byte(raw), &legacy.Settings); err != nil {
			return nil, fmt.Errorf("decoding legacy settings: %w", err)
		}
	}
	if raw, ok := dump[LegacyHistoryKey]; ok {
		if err := json.Unmarshal([]byte(raw), &legacy.History); err != nil {
			return nil, fmt.Errorf("decoding legacy history: %w", err)
		}
	}
	return legacy, nil
}

// ImportLegacy migrates legacy data into the store for userID. Setting
// values are stored as compact JSON text. History entries are stamped with
// now and inserted only if their id is unused.
func ImportLegacy(ctx context.Context, st store.Store, userID int64, legacy *Legacy, now time.Time) (*Result, error) {
	res := &Result{}

	if len(legacy.Settings) > 0 {
		keys := make([]string, 0, len(legacy.Settings))
		for k := range legacy.Settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]store.SettingPair, 0, len(keys))
		for _, k := range keys {
			var buf bytes.Buffer
			if err := json.Compact(&buf, legacy.Settings[k]); err != nil {
				return nil, fmt.Errorf("encoding legacy setting %s: %w", k, err)
			}
			pairs = append(pairs, store.SettingPair{Key: k, Value: buf.String()})
		}
		if err := st.SaveSettingsBatch(ctx, userID, pairs); err != nil {
			return nil, fmt.Errorf("migrating settings: %w", err)
		}
		res.Settings = len(pairs)
	}

	createdAt := now.UnixMilli()
	for _, lr := range legacy.History {
		r := store.TimerRecord{
			ID:         lr.ID,
			UserID:     userID,
			RecordType: lr.Type,
			Mode:       optional(lr.Mode),
			Name:       optional(lr.Name),
			StartTime:  lr.StartTime,
			EndTime:    lr.EndTime,
			Duration:   lr.Duration,
			CreatedAt:  createdAt,
		}
		added, err := insertOrIgnore(ctx, st, &r)
		if err != nil {
			return res, fmt.Errorf("migrating record %s: %w", lr.ID, err)
		}
		if added {
			res.Added++
		} else {
			res.Skipped++
		}
	}
	return res, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
