// ABOUTME: Tests for timer record operations
// ABOUTME: Covers ordering/limits, round-trip fidelity, ownership isolation, and concurrent access

package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"
)

func newRecord(id string, userID, start, end int64) *TimerRecord {
	return &TimerRecord{
		ID:         id,
		UserID:     userID,
		RecordType: RecordTypeCountdown,
		Mode:       StringPtr(ModeWork),
		StartTime:  start,
		EndTime:    end,
		Duration:   end - start,
		CreatedAt:  end,
	}
}

func addRecord(t *testing.T, s Store, r *TimerRecord) {
	t.Helper()
	if err := s.AddTimerRecord(context.Background(), r); err != nil {
		t.Fatalf("AddTimerRecord(%s) failed: %v", r.ID, err)
	}
}

func TestTimerRecord_RoundTrip(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		user := createUser(t, s, "dev-1")

		want := TimerRecord{
			ID:         "0b6b3c1e-round-trip",
			UserID:     user.ID,
			RecordType: RecordTypeStopwatch,
			Mode:       StringPtr(ModeBreak),
			Name:       StringPtr("reading"),
			Category:   StringPtr("study"),
			StartTime:  1_700_000_000_000,
			EndTime:    1_700_000_600_000,
			Duration:   600_000,
			CreatedAt:  1_700_000_600_123,
		}
		in := want
		addRecord(t, s, &in)

		got, err := s.GetTimerRecords(context.Background(), user.ID, 10)
		if err != nil {
			t.Fatalf("GetTimerRecords failed: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 record, got %d", len(got))
		}
		if diff := cmp.Diff(want, got[0]); diff != "" {
			t.Errorf("record mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestTimerRecord_NilOptionalFields(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		user := createUser(t, s, "dev-1")
		r := newRecord("r1", user.ID, 0, 10)
		r.Mode = nil
		addRecord(t, s, r)

		got, _ := s.GetTimerRecords(context.Background(), user.ID, 1)
		if got[0].Mode != nil || got[0].Name != nil || got[0].Category != nil {
			t.Errorf("optional fields should be nil: %+v", got[0])
		}
	})
}

func TestAddTimerRecord_StampsCreatedAt(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		user := createUser(t, s, "dev-1")
		r := newRecord("r1", user.ID, 0, 10)
		r.CreatedAt = 0
		addRecord(t, s, r)

		if r.CreatedAt == 0 {
			t.Error("expected CreatedAt to be stamped")
		}
	})
}

func TestAddTimerRecord_DuplicateID(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		alice := createUser(t, s, "dev-a")
		bob := createUser(t, s, "dev-b")
		addRecord(t, s, newRecord("dup", alice.ID, 0, 10))

		// Uniqueness is global, across users too
		err := s.AddTimerRecord(context.Background(), newRecord("dup", bob.ID, 0, 10))
		if !errors.Is(err, ErrConstraintViolation) {
			t.Errorf("expected ErrConstraintViolation, got %v", err)
		}
		if !errors.Is(err, ErrDuplicateKey) {
			t.Errorf("expected ErrDuplicateKey, got %v", err)
		}
	})
}

func TestAddTimerRecord_UnknownUser(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		err := s.AddTimerRecord(context.Background(), newRecord("r1", 77, 0, 10))
		if !errors.Is(err, ErrConstraintViolation) {
			t.Errorf("expected ErrConstraintViolation for unknown owner, got %v", err)
		}
		if errors.Is(err, ErrDuplicateKey) {
			t.Errorf("unknown owner must not look like a duplicate id: %v", err)
		}
	})
}

func TestGetTimerRecords_OrderAndLimit(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		user := createUser(t, s, "dev-1")

		ends := []int64{5000, 1000, 9000, 3000, 7000, 7000}
		for i, end := range ends {
			addRecord(t, s, newRecord(fmt.Sprintf("r%d", i), user.ID, end-500, end))
		}

		for _, limit := range []int{0, 1, 3, len(ends), len(ends) + 5} {
			got, err := s.GetTimerRecords(ctx, user.ID, limit)
			if err != nil {
				t.Fatalf("GetTimerRecords(%d) failed: %v", limit, err)
			}
			want := limit
			if want > len(ends) {
				want = len(ends)
			}
			if len(got) != want {
				t.Errorf("limit %d: got %d records, want %d", limit, len(got), want)
			}
			for i := 1; i < len(got); i++ {
				if got[i].EndTime > got[i-1].EndTime {
					t.Errorf("limit %d: record %d (end %d) newer than record %d (end %d)",
						limit, i, got[i].EndTime, i-1, got[i-1].EndTime)
				}
			}
			if limit > 0 && got[0].EndTime != 9000 {
				t.Errorf("limit %d: first end_time = %d, want 9000", limit, got[0].EndTime)
			}
		}
	})
}

func TestGetTimerRecords_NonPositiveLimit(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		user := createUser(t, s, "dev-1")
		addRecord(t, s, newRecord("r1", user.ID, 0, 10))

		got, err := s.GetTimerRecords(context.Background(), user.ID, -1)
		if err != nil {
			t.Fatalf("GetTimerRecords failed: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", got)
		}
	})
}

func TestUpdateTimerRecord_Patch(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		user := createUser(t, s, "dev-1")
		r := newRecord("r1", user.ID, 0, 10)
		r.Name = StringPtr("draft")
		r.Category = StringPtr("work")
		addRecord(t, s, r)

		// Only name supplied: category must stay
		if err := s.UpdateTimerRecord(ctx, user.ID, "r1", TimerRecordPatch{Name: StringPtr("final")}); err != nil {
			t.Fatalf("UpdateTimerRecord failed: %v", err)
		}
		got, _ := s.GetTimerRecords(ctx, user.ID, 1)
		if *got[0].Name != "final" || *got[0].Category != "work" {
			t.Errorf("after name patch: name=%q category=%q", *got[0].Name, *got[0].Category)
		}

		// Only category supplied
		if err := s.UpdateTimerRecord(ctx, user.ID, "r1", TimerRecordPatch{Category: StringPtr("study")}); err != nil {
			t.Fatalf("UpdateTimerRecord failed: %v", err)
		}
		got, _ = s.GetTimerRecords(ctx, user.ID, 1)
		if *got[0].Name != "final" || *got[0].Category != "study" {
			t.Errorf("after category patch: name=%q category=%q", *got[0].Name, *got[0].Category)
		}

		// Empty patch is a no-op
		if err := s.UpdateTimerRecord(ctx, user.ID, "r1", TimerRecordPatch{}); err != nil {
			t.Fatalf("empty patch failed: %v", err)
		}
		again, _ := s.GetTimerRecords(ctx, user.ID, 1)
		if diff := cmp.Diff(got, again); diff != "" {
			t.Errorf("empty patch changed record (-before +after):\n%s", diff)
		}
	})
}

func TestTimerRecord_OwnershipIsolation(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		owner := createUser(t, s, "dev-owner")
		intruder := createUser(t, s, "dev-intruder")

		r := newRecord("r1", owner.ID, 0, 10)
		r.Name = StringPtr("mine")
		addRecord(t, s, r)
		before, _ := s.GetTimerRecords(ctx, owner.ID, 10)

		if err := s.UpdateTimerRecord(ctx, intruder.ID, "r1", TimerRecordPatch{Name: StringPtr("stolen")}); err != nil {
			t.Errorf("foreign patch should be a silent no-op, got %v", err)
		}
		if err := s.DeleteTimerRecord(ctx, intruder.ID, "r1"); err != nil {
			t.Errorf("foreign delete should be a silent no-op, got %v", err)
		}
		if err := s.DeleteTimerRecord(ctx, owner.ID, "does-not-exist"); err != nil {
			t.Errorf("deleting a missing record should succeed, got %v", err)
		}

		after, _ := s.GetTimerRecords(ctx, owner.ID, 10)
		if diff := cmp.Diff(before, after); diff != "" {
			t.Errorf("record changed by foreign user (-before +after):\n%s", diff)
		}
	})
}

func TestDeleteTimerRecord(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		user := createUser(t, s, "dev-1")
		addRecord(t, s, newRecord("r1", user.ID, 0, 10))
		addRecord(t, s, newRecord("r2", user.ID, 10, 20))

		if err := s.DeleteTimerRecord(ctx, user.ID, "r1"); err != nil {
			t.Fatalf("DeleteTimerRecord failed: %v", err)
		}
		got, _ := s.GetTimerRecords(ctx, user.ID, 10)
		if len(got) != 1 || got[0].ID != "r2" {
			t.Errorf("unexpected records after delete: %+v", got)
		}
		n, err := s.CountTimerRecords(ctx, user.ID)
		if err != nil {
			t.Fatalf("CountTimerRecords failed: %v", err)
		}
		if n != 1 {
			t.Errorf("count = %d, want 1", n)
		}
	})
}

func TestClearTimerRecords_Scenario(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		one := createUser(t, s, "dev-1")
		two := createUser(t, s, "dev-2")

		addRecord(t, s, newRecord("r2", two.ID, 500, 900))
		addRecord(t, s, &TimerRecord{
			ID: "r1", UserID: one.ID, RecordType: RecordTypeCountdown,
			StartTime: 1000, EndTime: 2000, Duration: 1000,
		})

		if err := s.ClearTimerRecords(ctx, one.ID); err != nil {
			t.Fatalf("ClearTimerRecords failed: %v", err)
		}

		got, err := s.GetTimerRecords(ctx, one.ID, 10)
		if err != nil {
			t.Fatalf("GetTimerRecords failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no records for user 1, got %d", len(got))
		}

		others, err := s.GetTimerRecords(ctx, two.ID, 10)
		if err != nil {
			t.Fatalf("GetTimerRecords failed: %v", err)
		}
		if len(others) != 1 || others[0].ID != "r2" {
			t.Errorf("user 2 records disturbed: %+v", others)
		}
	})
}

func TestSQLiteStore_ConcurrentAccess(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Many callers racing on the same device must converge on one user
	const callers = 16
	ids := make([]int64, callers)
	var g errgroup.Group
	for i := 0; i < callers; i++ {
		g.Go(func() error {
			u, err := s.GetOrCreateUser(ctx, "shared-device")
			if err != nil {
				return err
			}
			ids[i] = u.ID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent GetOrCreateUser failed: %v", err)
	}
	for i, id := range ids {
		if id != ids[0] {
			t.Errorf("caller %d got user %d, want %d", i, id, ids[0])
		}
	}

	// Interleaved writers and readers
	var w errgroup.Group
	for i := 0; i < callers; i++ {
		w.Go(func() error {
			if err := s.AddTimerRecord(ctx, newRecord(fmt.Sprintf("c%d", i), ids[0], int64(i), int64(i+100))); err != nil {
				return err
			}
			if err := s.SaveSetting(ctx, ids[0], fmt.Sprintf("k%d", i%4), fmt.Sprint(i)); err != nil {
				return err
			}
			_, err := s.GetTimerRecords(ctx, ids[0], 5)
			return err
		})
	}
	if err := w.Wait(); err != nil {
		t.Fatalf("concurrent writes failed: %v", err)
	}

	n, err := s.CountTimerRecords(ctx, ids[0])
	if err != nil {
		t.Fatalf("CountTimerRecords failed: %v", err)
	}
	if n != callers {
		t.Errorf("count = %d, want %d", n, callers)
	}
	settings, _ := s.GetSettings(ctx, ids[0])
	if len(settings) != 4 {
		t.Errorf("expected 4 distinct settings, got %d", len(settings))
	}
}
