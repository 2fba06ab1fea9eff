// ABOUTME: Sample timer records for demos and manual testing
// ABOUTME: Spreads records over today, this week and the past three months

package seed

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/2389/lpe-reminder/internal/store"
)

// IDPrefix starts every generated record id.
const IDPrefix = "test_"

type template struct {
	ago      time.Duration
	category string
	minutes  int64
	name     string
}

const day = 24 * time.Hour

var templates = []template{
	{0, "work", 45, "Feature development"},
	{1 * time.Hour, "study", 30, "Learning a new library"},
	{2 * time.Hour, "meeting", 60, "Team sync"},
	{4 * time.Hour, "work", 90, "Project work"},
	{5 * time.Hour, "entertainment", 25, "Break"},
	{1 * day, "work", 120, "Bug fixing"},
	{1 * day, "reading", 40, "Reading docs"},
	{1 * day, "study", 50, "Algorithm practice"},
	{1 * day, "work", 75, "Requirements review"},
	{3 * day, "work", 100, "Feature development"},
	{3 * day, "exercise", 35, "Workout"},
	{3 * day, "entertainment", 45, "Movie"},
	{5 * day, "meeting", 30, "Planning"},
	{10 * day, "work", 80, "Refactoring"},
	{20 * day, "study", 60, "Course"},
	{35 * day, "reading", 40, "Paper reading"},
	{60 * day, "work", 115, "Prototype"},
	{90 * day, "entertainment", 60, "Weekend"},
}

// Categories lists the categories Generate draws from.
func Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range templates {
		if !seen[t.category] {
			seen[t.category] = true
			out = append(out, t.category)
		}
	}
	return out
}

// Generate builds n countdown work records owned by userID, ending at or
// before now. n <= 0 yields one record per built-in template.
func Generate(userID int64, now time.Time, n int) []store.TimerRecord {
	if n <= 0 {
		n = len(templates)
	}

	records := make([]store.TimerRecord, 0, n)
	for i := 0; i < n; i++ {
		t := templates[i%len(templates)]
		// Later passes over the template list shift another quarter back.
		ago := t.ago + time.Duration(i/len(templates))*91*day

		end := now.Add(-ago)
		duration := t.minutes * int64(time.Minute/time.Millisecond)
		records = append(records, store.TimerRecord{
			ID:         IDPrefix + uuid.NewString(),
			UserID:     userID,
			RecordType: store.RecordTypeCountdown,
			Mode:       store.StringPtr(store.ModeWork),
			Name:       store.StringPtr(t.name),
			Category:   store.StringPtr(t.category),
			StartTime:  end.UnixMilli() - duration,
			EndTime:    end.UnixMilli(),
			Duration:   duration,
			CreatedAt:  end.UnixMilli(),
		})
	}
	return records
}

// Insert adds the records with a few concurrent writers and returns how many
// were stored. The first failure cancels the remaining inserts.
func Insert(ctx context.Context, st store.Store, records []store.TimerRecord) (int, error) {
	var added atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range records {
		r := records[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := st.AddTimerRecord(ctx, &r); err != nil {
				return fmt.Errorf("seeding record %s: %w", r.ID, err)
			}
			added.Add(1)
			return nil
		})
	}

	err := g.Wait()
	return int(added.Load()), err
}
