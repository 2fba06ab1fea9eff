// ABOUTME: Aggregations over timer records for the history views
// ABOUTME: Today and this-week filters, total duration, per-category totals

// Package history filters and totals timer records for the history views.
package history

import (
	"sort"
	"time"

	"github.com/2389/lpe-reminder/internal/store"
)

// Uncategorized is the bucket key for records without a category.
const Uncategorized = ""

// CategoryTotal aggregates the records of one category.
type CategoryTotal struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Duration int64  `json:"duration"` // millis
}

// StartOfDay returns local midnight of the day containing now.
func StartOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// StartOfWeek returns local midnight of the Monday on or before now.
func StartOfWeek(now time.Time) time.Time {
	day := StartOfDay(now)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

// Between keeps the records whose end_time falls in [from, to), preserving order.
func Between(records []store.TimerRecord, from, to time.Time) []store.TimerRecord {
	lo, hi := from.UnixMilli(), to.UnixMilli()
	out := []store.TimerRecord{}
	for _, r := range records {
		if r.EndTime >= lo && r.EndTime < hi {
			out = append(out, r)
		}
	}
	return out
}

// TodayRecords keeps the records that ended today.
func TodayRecords(records []store.TimerRecord, now time.Time) []store.TimerRecord {
	start := StartOfDay(now)
	return Between(records, start, start.AddDate(0, 0, 1))
}

// WeekRecords keeps the records that ended in the current Monday-based week.
func WeekRecords(records []store.TimerRecord, now time.Time) []store.TimerRecord {
	start := StartOfWeek(now)
	return Between(records, start, start.AddDate(0, 0, 7))
}

// TotalDuration sums the recorded durations.
func TotalDuration(records []store.TimerRecord) time.Duration {
	var ms int64
	for _, r := range records {
		ms += r.Duration
	}
	return time.Duration(ms) * time.Millisecond
}

// ByCategory groups records by category, largest total duration first.
// Ties are broken by category name.
func ByCategory(records []store.TimerRecord) []CategoryTotal {
	idx := make(map[string]int)
	totals := []CategoryTotal{}
	for _, r := range records {
		key := Uncategorized
		if r.Category != nil {
			key = *r.Category
		}
		i, ok := idx[key]
		if !ok {
			i = len(totals)
			idx[key] = i
			totals = append(totals, CategoryTotal{Category: key})
		}
		totals[i].Count++
		totals[i].Duration += r.Duration
	}

	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Duration != totals[j].Duration {
			return totals[i].Duration > totals[j].Duration
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}
