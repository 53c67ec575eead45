package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subwise/subtrack/internal/models"
	"github.com/subwise/subtrack/pkg/types"
)

func TestMemStore_SubscriptionQueries(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	now := time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveSubscription(ctx, &models.Subscription{ID: "s1", UserID: "u1", Status: types.SubscriptionStatusActive, RenewalDate: now.AddDate(0, 0, -3)}))
	require.NoError(t, s.SaveSubscription(ctx, &models.Subscription{ID: "s2", UserID: "u1", Status: types.SubscriptionStatusTrial, RenewalDate: now.AddDate(0, 0, 5)}))
	require.NoError(t, s.SaveSubscription(ctx, &models.Subscription{ID: "s3", UserID: "u1", Status: types.SubscriptionStatusCancelled, RenewalDate: now.AddDate(0, 0, -30)}))
	require.NoError(t, s.SaveSubscription(ctx, &models.Subscription{ID: "s4", UserID: "u2", Status: types.SubscriptionStatusActive, RenewalDate: now}))

	overdue, err := s.ListOverdueSubscriptions(ctx, now, "")
	require.NoError(t, err)
	require.Len(t, overdue, 1, "cancelled rows and renewal_date == now are not overdue")
	assert.Equal(t, "s1", overdue[0].ID)

	billable, err := s.ListBillableSubscriptions(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, billable, 2)

	_, err = s.GetSubscription(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemStore_UnsentReminderUniqueness(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	now := time.Now()

	r := &models.Reminder{SubscriptionID: "s1", UserID: "u1", ReminderType: types.ReminderTypeRenewal, ReminderDate: now}
	require.NoError(t, s.CreateReminder(ctx, r))
	// duplicate insert is silently dropped
	require.NoError(t, s.CreateReminder(ctx, &models.Reminder{SubscriptionID: "s1", UserID: "u1", ReminderType: types.ReminderTypeRenewal, ReminderDate: now.AddDate(0, 1, 0)}))
	assert.Len(t, s.UnsentReminders("s1"), 1)

	// a different type is allowed
	require.NoError(t, s.CreateReminder(ctx, &models.Reminder{SubscriptionID: "s1", UserID: "u1", ReminderType: types.ReminderTypeTrialEnding, ReminderDate: now}))
	assert.Len(t, s.UnsentReminders("s1"), 2)

	// once sent, a fresh unsent reminder of the same type may exist again
	require.NoError(t, s.MarkRemindersSent(ctx, []string{r.ID}))
	require.NoError(t, s.CreateReminder(ctx, &models.Reminder{SubscriptionID: "s1", UserID: "u1", ReminderType: types.ReminderTypeRenewal, ReminderDate: now.AddDate(0, 1, 0)}))
	assert.Len(t, s.UnsentReminders("s1"), 2)
	assert.Len(t, s.Reminders(), 3, "sent reminders are retained")
}

func TestMemStore_DeleteUnsentReminders(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	now := time.Now()

	sent := &models.Reminder{SubscriptionID: "s1", UserID: "u1", ReminderType: types.ReminderTypeRenewal, ReminderDate: now}
	require.NoError(t, s.CreateReminder(ctx, sent))
	require.NoError(t, s.MarkRemindersSent(ctx, []string{sent.ID}))
	require.NoError(t, s.CreateReminder(ctx, &models.Reminder{SubscriptionID: "s1", UserID: "u1", ReminderType: types.ReminderTypeRenewal, ReminderDate: now}))
	require.NoError(t, s.CreateReminder(ctx, &models.Reminder{SubscriptionID: "s1", UserID: "u1", ReminderType: types.ReminderTypeTrialEnding, ReminderDate: now}))

	require.NoError(t, s.DeleteUnsentReminders(ctx, "s1", types.ReminderTypeTrialEnding))
	assert.Len(t, s.UnsentReminders("s1"), 1)

	require.NoError(t, s.DeleteUnsentReminders(ctx, "s1"))
	assert.Empty(t, s.UnsentReminders("s1"))
	assert.Len(t, s.Reminders(), 1, "sent rows survive deletes")

	// deleting when nothing matches is a no-op
	require.NoError(t, s.DeleteUnsentReminders(ctx, "s1"))
}

func TestMemStore_DueReminders(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	now := time.Date(2024, time.April, 29, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateReminder(ctx, &models.Reminder{SubscriptionID: "s1", UserID: "u1", ReminderType: types.ReminderTypeRenewal, ReminderDate: now.AddDate(0, 0, -1)}))
	require.NoError(t, s.CreateReminder(ctx, &models.Reminder{SubscriptionID: "s2", UserID: "u1", ReminderType: types.ReminderTypeRenewal, ReminderDate: now}))
	require.NoError(t, s.CreateReminder(ctx, &models.Reminder{SubscriptionID: "s3", UserID: "u2", ReminderType: types.ReminderTypeRenewal, ReminderDate: now.AddDate(0, 0, 2)}))

	due, err := s.ListDueReminders(ctx, now)
	require.NoError(t, err)
	assert.Len(t, due, 2, "reminder_date == now is due")

	userDue, err := s.ListUserDueReminders(ctx, "u2", now)
	require.NoError(t, err)
	assert.Empty(t, userDue)
}

func TestMemStore_Preferences(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	_, err := s.GetPreferences(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SavePreferences(ctx, &models.UserPreferences{UserID: "u1", Email: "u1@example.com", ReminderDaysBefore: 5}))
	p, err := s.GetPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.ReminderDaysBefore)
}
