package store

import (
	"context"
	"errors"
	"time"

	"github.com/subwise/subtrack/internal/models"
	"github.com/subwise/subtrack/pkg/types"
)

// ErrNotFound is returned when a referenced record does not exist. Batch
// passes treat it as a skip, not a fault: the record may have been deleted
// mid-batch.
var ErrNotFound = errors.New("store: record not found")

// Store is the persistence boundary for the renewal and reminder engine.
// Implementations must provide at least atomic single-row writes; the engine
// never relies on multi-row transactions and tolerates partial application
// of its delete-then-create sequences.
type Store interface {
	// Subscriptions.
	SaveSubscription(ctx context.Context, sub *models.Subscription) error
	GetSubscription(ctx context.Context, id string) (*models.Subscription, error)
	ListUserSubscriptions(ctx context.Context, userID string) ([]*models.Subscription, error)
	// ListOverdueSubscriptions returns billable subscriptions with
	// renewal_date strictly before now. An empty userID means all users.
	ListOverdueSubscriptions(ctx context.Context, now time.Time, userID string) ([]*models.Subscription, error)
	// ListBillableSubscriptions returns active and trial subscriptions.
	// An empty userID means all users.
	ListBillableSubscriptions(ctx context.Context, userID string) ([]*models.Subscription, error)

	// Reminders.
	//
	// CreateReminder is a no-op when an unsent reminder of the same type
	// already exists for the subscription; the partial unique index is the
	// sole arbiter under concurrent callers.
	CreateReminder(ctx context.Context, r *models.Reminder) error
	// DeleteUnsentReminders removes unsent reminders for a subscription,
	// all types when only is empty. Deleting nothing is not an error.
	DeleteUnsentReminders(ctx context.Context, subscriptionID string, only ...types.ReminderType) error
	HasUnsentReminder(ctx context.Context, subscriptionID string, t types.ReminderType) (bool, error)
	// ListDueReminders returns unsent reminders with reminder_date <= now.
	ListDueReminders(ctx context.Context, now time.Time) ([]*models.Reminder, error)
	ListUserDueReminders(ctx context.Context, userID string, now time.Time) ([]*models.Reminder, error)
	MarkRemindersSent(ctx context.Context, ids []string) error

	// Preferences. GetPreferences returns ErrNotFound when the user has no
	// row; callers fall back to models.Defaults.
	GetPreferences(ctx context.Context, userID string) (*models.UserPreferences, error)
	SavePreferences(ctx context.Context, p *models.UserPreferences) error

	// Audit.
	SaveRenewalLog(ctx context.Context, l *models.RenewalLog) error
}
