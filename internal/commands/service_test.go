// ABOUTME: Tests for the command surface
// ABOUTME: Covers the current-user precondition, record ownership, and error kinds

package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/lpe-reminder/internal/session"
	"github.com/2389/lpe-reminder/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.MockStore) {
	t.Helper()
	ms := store.NewMockStore()
	return NewService(ms, session.New(), nil), ms
}

func TestService_RequiresInitUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	calls := map[string]func() error{
		"update-phone": func() error { return svc.UpdatePhone(ctx, nil) },
		"get-user": func() error {
			_, err := svc.GetUser(ctx)
			return err
		},
		"get-settings": func() error {
			_, err := svc.GetSettings(ctx)
			return err
		},
		"save-setting":        func() error { return svc.SaveSetting(ctx, "k", "v") },
		"save-settings-batch": func() error { return svc.SaveSettingsBatch(ctx, nil) },
		"get-timer-records": func() error {
			_, err := svc.GetTimerRecords(ctx, 10)
			return err
		},
		"add-timer-record":    func() error { return svc.AddTimerRecord(ctx, store.TimerRecord{ID: "r1"}) },
		"update-timer-record": func() error { return svc.UpdateTimerRecord(ctx, "r1", store.TimerRecordPatch{}) },
		"delete-timer-record": func() error { return svc.DeleteTimerRecord(ctx, "r1") },
		"clear-timer-records": func() error { return svc.ClearTimerRecords(ctx) },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			require.Error(t, err)
			assert.ErrorIs(t, err, session.ErrNoCurrentUser)
			assert.Equal(t, KindPreconditionFailed, Kind(err))
		})
	}
}

func TestService_InitUserAndPhone(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.InitUser(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Nil(t, user.Phone)

	again, err := svc.InitUser(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	require.NoError(t, svc.UpdatePhone(ctx, store.StringPtr("+1555")))

	got, err := svc.GetUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, got.Phone)
	assert.Equal(t, "+1555", *got.Phone)
}

func TestService_InitUserRejectsEmptyDevice(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.InitUser(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestService_AddTimerRecordForcesOwner(t *testing.T) {
	svc, ms := newTestService(t)
	ctx := context.Background()

	other, err := ms.GetOrCreateUser(ctx, "someone-else")
	require.NoError(t, err)

	me, err := svc.InitUser(ctx, "dev-1")
	require.NoError(t, err)

	err = svc.AddTimerRecord(ctx, store.TimerRecord{
		ID: "r1", UserID: other.ID, RecordType: store.RecordTypeCountdown,
		StartTime: 1000, EndTime: 2000, Duration: 1000,
	})
	require.NoError(t, err)

	mine, err := svc.GetTimerRecords(ctx, 10)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, me.ID, mine[0].UserID)

	theirs, err := ms.GetTimerRecords(ctx, other.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestService_RecordLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.InitUser(ctx, "dev-1")
	require.NoError(t, err)

	require.NoError(t, svc.AddTimerRecord(ctx, store.TimerRecord{
		ID: "r1", RecordType: store.RecordTypeStopwatch, StartTime: 0, EndTime: 60000, Duration: 60000,
	}))

	err = svc.AddTimerRecord(ctx, store.TimerRecord{ID: "r1", RecordType: store.RecordTypeStopwatch})
	assert.Equal(t, KindConstraint, Kind(err))

	require.NoError(t, svc.UpdateTimerRecord(ctx, "r1", store.TimerRecordPatch{Category: store.StringPtr("work")}))
	records, err := svc.GetTimerRecords(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Category)
	assert.Equal(t, "work", *records[0].Category)

	require.NoError(t, svc.DeleteTimerRecord(ctx, "r1"))
	records, err = svc.GetTimerRecords(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestService_Settings(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.InitUser(ctx, "dev-1")
	require.NoError(t, err)

	require.NoError(t, svc.SaveSetting(ctx, "theme", `"dark"`))
	require.NoError(t, svc.SaveSettingsBatch(ctx, []store.SettingPair{
		{Key: "theme", Value: `"light"`},
		{Key: "timerMode", Value: `"countdown"`},
	}))

	settings, err := svc.GetSettings(ctx)
	require.NoError(t, err)
	require.Len(t, settings, 2)
	assert.Equal(t, "theme", settings[0].Key)
	assert.Equal(t, `"light"`, settings[0].Value)

	assert.ErrorIs(t, svc.SaveSetting(ctx, "", "x"), ErrInvalidArgument)

	err = svc.SaveSettingsBatch(ctx, []store.SettingPair{
		{Key: "volume", Value: "0.5"},
		{Key: "", Value: "x"},
	})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	settings, err = svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Len(t, settings, 2, "a rejected batch must not write any pair")
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "", ErrorString(nil))
	assert.Equal(t, "NotFound: not found", ErrorString(store.ErrNotFound))
	assert.Contains(t, ErrorString(session.ErrNoCurrentUser), "PreconditionFailed: ")
	assert.Equal(t, KindInit, Kind(store.ErrInit))
	assert.Equal(t, KindBackend, Kind(store.ErrBackend))
	assert.Equal(t, KindBackend, Kind(assert.AnError))
}
