package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/subwise/subtrack/internal/models"
	"github.com/subwise/subtrack/internal/store"
	"github.com/subwise/subtrack/pkg/types"
)

// ReminderAt returns the instant a reminder for an event becomes due:
// daysBefore days ahead of the event. A negative daysBefore is a programming
// bug, not a runtime condition, and fails immediately.
func ReminderAt(event time.Time, daysBefore int) (time.Time, error) {
	if daysBefore < 0 {
		return time.Time{}, fmt.Errorf("reminder: negative daysBefore %d", daysBefore)
	}
	return event.AddDate(0, 0, -daysBefore), nil
}

// Suppressed reports whether a reminder of the given type must be withheld
// from the given channel under the user's preferences. Suppression is
// channel-scoped: the same reminder record can be visible in-app while
// excluded from email. It is evaluated at dispatch/read time, never stored
// on the record, so preference edits apply to every future pass.
//
// Unused-subscription reminders share the renewal email gate; they have no
// preference of their own.
func Suppressed(t types.ReminderType, ch types.Channel, p *models.UserPreferences) bool {
	if p == nil {
		return false
	}
	switch ch {
	case types.ChannelInApp:
		return !p.InAppReminders
	case types.ChannelEmail:
		if t == types.ReminderTypeTrialEnding {
			return !p.EmailRemindersTrial
		}
		return !p.EmailRemindersRenewal
	default:
		return false
	}
}

// EffectivePreferences loads a user's preferences, treating a missing row as
// all-defaults and normalizing an out-of-range notice window.
func EffectivePreferences(ctx context.Context, st store.Store, userID string) (*models.UserPreferences, error) {
	p, err := st.GetPreferences(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Defaults(userID), nil
		}
		return nil, err
	}
	if !types.ValidReminderDaysBefore(p.ReminderDaysBefore) {
		p.ReminderDaysBefore = types.DefaultReminderDaysBefore
	}
	return p, nil
}
