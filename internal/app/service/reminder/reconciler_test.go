package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/subwise/subtrack/internal/models"
	"github.com/subwise/subtrack/internal/store"
	"github.com/subwise/subtrack/pkg/config"
	"github.com/subwise/subtrack/pkg/types"
)

func newTestService(st store.Store) *Service {
	return NewService(&config.Config{}, st, zap.NewNop().Sugar())
}

func seedSub(t *testing.T, st *store.MemStore, sub *models.Subscription) *models.Subscription {
	t.Helper()
	require.NoError(t, st.SaveSubscription(context.Background(), sub))
	return sub
}

func TestBackfill_CreatesMissingRenewalReminder(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemStore()
	now := time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC)

	sub := seedSub(t, st, &models.Subscription{
		UserID:       "u1",
		Name:         "Netflix",
		Cost:         15.99,
		BillingCycle: types.BillingCycleMonthly,
		Status:       types.SubscriptionStatusActive,
		RenewalDate:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})

	svc := newTestService(st)
	res, err := svc.Backfill(ctx, "", now)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Checked)
	assert.Equal(t, 1, res.Created)
	assert.Empty(t, res.Errors)

	rs := st.UnsentReminders(sub.ID)
	require.Len(t, rs, 1)
	assert.Equal(t, types.ReminderTypeRenewal, rs[0].ReminderType)
	// default window is 2 days before the renewal
	assert.True(t, rs[0].ReminderDate.Equal(time.Date(2024, 4, 29, 0, 0, 0, 0, time.UTC)))
}

func TestBackfill_Idempotent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemStore()
	now := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)

	sub := seedSub(t, st, &models.Subscription{
		UserID:       "u1",
		Name:         "Spotify",
		BillingCycle: types.BillingCycleMonthly,
		Status:       types.SubscriptionStatusActive,
		RenewalDate:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})

	svc := newTestService(st)
	first, err := svc.Backfill(ctx, "", now)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)

	second, err := svc.Backfill(ctx, "", now)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Len(t, st.UnsentReminders(sub.ID), 1)
}

func TestBackfill_SkipsNonFutureTrigger(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemStore()
	// renewal tomorrow with a 2-day window: trigger already passed
	now := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)

	sub := seedSub(t, st, &models.Subscription{
		UserID:       "u1",
		Name:         "iCloud",
		BillingCycle: types.BillingCycleMonthly,
		Status:       types.SubscriptionStatusActive,
		RenewalDate:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})

	svc := newTestService(st)
	res, err := svc.Backfill(ctx, "", now)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Empty(t, st.UnsentReminders(sub.ID))
}

func TestBackfill_TrialGetsTrialEndingReminder(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemStore()
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	trialEnd := time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC)

	sub := seedSub(t, st, &models.Subscription{
		UserID:       "u1",
		Name:         "Audible",
		BillingCycle: types.BillingCycleMonthly,
		Status:       types.SubscriptionStatusTrial,
		RenewalDate:  time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC),
		TrialEndDate: &trialEnd,
	})

	svc := newTestService(st)
	res, err := svc.Backfill(ctx, "", now)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)

	byType := map[types.ReminderType]bool{}
	for _, r := range st.UnsentReminders(sub.ID) {
		byType[r.ReminderType] = true
	}
	assert.True(t, byType[types.ReminderTypeRenewal])
	assert.True(t, byType[types.ReminderTypeTrialEnding])
}

func TestBackfill_HonorsUserPreferenceWindow(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemStore()
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, st.SavePreferences(ctx, &models.UserPreferences{UserID: "u1", ReminderDaysBefore: 7, EmailRemindersRenewal: true, InAppReminders: true}))
	sub := seedSub(t, st, &models.Subscription{
		UserID:       "u1",
		Name:         "NYT",
		BillingCycle: types.BillingCycleMonthly,
		Status:       types.SubscriptionStatusActive,
		RenewalDate:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})

	svc := newTestService(st)
	_, err := svc.Backfill(ctx, "", now)
	require.NoError(t, err)

	rs := st.UnsentReminders(sub.ID)
	require.Len(t, rs, 1)
	assert.True(t, rs[0].ReminderDate.Equal(time.Date(2024, 4, 24, 0, 0, 0, 0, time.UTC)))
}

func TestBackfill_ScopedToUser(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemStore()
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	mine := seedSub(t, st, &models.Subscription{
		UserID: "u1", Name: "A", BillingCycle: types.BillingCycleMonthly,
		Status: types.SubscriptionStatusActive, RenewalDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	other := seedSub(t, st, &models.Subscription{
		UserID: "u2", Name: "B", BillingCycle: types.BillingCycleMonthly,
		Status: types.SubscriptionStatusActive, RenewalDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})

	svc := newTestService(st)
	res, err := svc.Backfill(ctx, "u1", now)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Checked)
	assert.Len(t, st.UnsentReminders(mine.ID), 1)
	assert.Empty(t, st.UnsentReminders(other.ID))
}

func TestBackfill_FlagsIdleSubscription(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	renewal := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	staleUse := now.AddDate(0, -2, 0)
	recentUse := now.AddDate(0, 0, -3)

	tests := []struct {
		name        string
		unusedAfter time.Duration
		lastUsed    *time.Time
		status      types.SubscriptionStatus
		wantUnused  bool
	}{
		{name: "idle past window", unusedAfter: 30 * 24 * time.Hour, lastUsed: &staleUse, status: types.SubscriptionStatusActive, wantUnused: true},
		{name: "recently used", unusedAfter: 30 * 24 * time.Hour, lastUsed: &recentUse, status: types.SubscriptionStatusActive, wantUnused: false},
		{name: "no usage recorded", unusedAfter: 30 * 24 * time.Hour, lastUsed: nil, status: types.SubscriptionStatusActive, wantUnused: false},
		{name: "check disabled", unusedAfter: 0, lastUsed: &staleUse, status: types.SubscriptionStatusActive, wantUnused: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemStore()
			sub := seedSub(t, st, &models.Subscription{
				UserID:       "u1",
				Name:         "Gym",
				BillingCycle: types.BillingCycleMonthly,
				Status:       tt.status,
				RenewalDate:  renewal,
				LastUsed:     tt.lastUsed,
			})

			cfg := &config.Config{Engine: config.EngineConfig{UnusedAfter: tt.unusedAfter}}
			svc := NewService(cfg, st, zap.NewNop().Sugar())
			_, err := svc.Backfill(ctx, "", now)
			require.NoError(t, err)

			byType := map[types.ReminderType]bool{}
			for _, r := range st.UnsentReminders(sub.ID) {
				byType[r.ReminderType] = true
			}
			assert.True(t, byType[types.ReminderTypeRenewal])
			assert.Equal(t, tt.wantUnused, byType[types.ReminderTypeUnused])
		})
	}
}

func TestBackfill_IdleFlagIdempotent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemStore()
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	staleUse := now.AddDate(0, -2, 0)

	sub := seedSub(t, st, &models.Subscription{
		UserID:       "u1",
		Name:         "Gym",
		BillingCycle: types.BillingCycleMonthly,
		Status:       types.SubscriptionStatusActive,
		RenewalDate:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		LastUsed:     &staleUse,
	})

	cfg := &config.Config{Engine: config.EngineConfig{UnusedAfter: 30 * 24 * time.Hour}}
	svc := NewService(cfg, st, zap.NewNop().Sugar())

	first, err := svc.Backfill(ctx, "", now)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Created)

	second, err := svc.Backfill(ctx, "", now)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Len(t, st.UnsentReminders(sub.ID), 2)
}

func TestBackfill_IgnoresCancelled(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemStore()
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	sub := seedSub(t, st, &models.Subscription{
		UserID: "u1", Name: "Old", BillingCycle: types.BillingCycleMonthly,
		Status: types.SubscriptionStatusCancelled, RenewalDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})

	svc := newTestService(st)
	res, err := svc.Backfill(ctx, "", now)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Checked)
	assert.Empty(t, st.UnsentReminders(sub.ID))
}
