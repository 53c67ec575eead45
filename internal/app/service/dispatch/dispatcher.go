package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/subwise/subtrack/internal/app/service/reminder"
	"github.com/subwise/subtrack/internal/models"
	"github.com/subwise/subtrack/internal/platform/email"
	"github.com/subwise/subtrack/internal/store"
	"github.com/subwise/subtrack/pkg/config"
	"github.com/subwise/subtrack/pkg/logctx"
	"github.com/subwise/subtrack/pkg/metrics"
	"github.com/subwise/subtrack/pkg/types"
)

// Service runs dispatch passes over due, unsent reminders: one grouped email
// per user per pass, suppression applied per channel, and is_sent flipped
// afterwards. Delivery is at-least-once; a failed user batch stays unsent and
// is retried by the next pass.
type Service struct {
	cfg    *config.Config
	store  store.Store
	mailer email.Mailer
	log    *zap.SugaredLogger
}

func NewService(cfg *config.Config, st store.Store, m email.Mailer, log *zap.SugaredLogger) *Service {
	return &Service{cfg: cfg, store: st, mailer: m, log: log}
}

type Result struct {
	Due        int               `json:"due"`
	Dispatched int               `json:"dispatched"`
	Suppressed int               `json:"suppressed"`
	Errors     []types.ItemError `json:"errors,omitempty"`
}

// Run selects all unsent reminders due at now and dispatches them grouped by
// user. Reminders suppressed by preference are also marked sent so they do
// not pile up and get redelivered after a preference change; a later
// re-enable applies only to reminders created afterwards. One user's
// delivery failure never blocks another's, and sent-flag updates for
// successful batches commit regardless of other batches.
func (s *Service) Run(ctx context.Context, now time.Time) (*Result, error) {
	due, err := s.store.ListDueReminders(ctx, now)
	if err != nil {
		return nil, err
	}

	res := &Result{Due: len(due)}
	byUser := lo.GroupBy(due, func(r *models.Reminder) string { return r.UserID })

	for userID, batch := range byUser {
		if err := s.dispatchUser(ctx, userID, batch, res); err != nil {
			res.Errors = append(res.Errors, types.ItemError{ID: userID, Reason: "delivery failed"})
			metrics.JobErrors.WithLabelValues("dispatch").Inc()
			logctx.FromCtx(ctx, s.log).Errorw("reminder dispatch failed", "user_id", userID, "err", err)
		}
	}

	return res, nil
}

func (s *Service) dispatchUser(ctx context.Context, userID string, batch []*models.Reminder, res *Result) error {
	if t := s.cfg.Engine.ItemTimeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	prefs, err := reminder.EffectivePreferences(ctx, s.store, userID)
	if err != nil {
		return err
	}

	var deliver []*models.Reminder
	var consumed []string
	for _, r := range batch {
		if reminder.Suppressed(r.ReminderType, types.ChannelEmail, prefs) {
			consumed = append(consumed, r.ID)
			res.Suppressed++
			metrics.RemindersSuppressed.Inc()
			continue
		}
		deliver = append(deliver, r)
	}

	if len(deliver) > 0 {
		lines, rendered, orphaned := s.renderLines(ctx, deliver)
		// reminders whose subscription vanished can never deliver; consume them
		consumed = append(consumed, orphaned...)

		switch {
		case len(rendered) == 0:
			// nothing left to send
		case prefs.Email == "":
			// no delivery address on file: undeliverable, consume rather
			// than letting the batch grow forever
			logctx.FromCtx(ctx, s.log).Warnw("no email on file, consuming due reminders", "user_id", userID, "count", len(rendered))
			consumed = append(consumed, rendered...)
		default:
			subject := fmt.Sprintf("You have %d upcoming subscription event(s)", len(rendered))
			if err := s.mailer.Send(ctx, prefs.Email, subject, strings.Join(lines, "\n")); err != nil {
				// suppressed/orphaned reminders are still consumed below;
				// deliverable ones stay unsent for the next pass
				if markErr := s.store.MarkRemindersSent(ctx, consumed); markErr != nil {
					logctx.FromCtx(ctx, s.log).Errorw("failed to mark consumed reminders sent", "user_id", userID, "err", markErr)
				}
				return err
			}
			consumed = append(consumed, rendered...)
			res.Dispatched += len(rendered)
			metrics.RemindersDispatched.WithLabelValues(string(types.ChannelEmail)).Add(float64(len(rendered)))
		}
	}

	return s.store.MarkRemindersSent(ctx, consumed)
}

// renderLines builds one message line per reminder. It returns the lines,
// the ids they were rendered from, and the ids of reminders whose
// subscription no longer exists. Reminders hit by a transient read failure
// appear in neither list and stay unsent for the next pass.
func (s *Service) renderLines(ctx context.Context, batch []*models.Reminder) ([]string, []string, []string) {
	sort.Slice(batch, func(i, j int) bool { return batch[i].ReminderDate.Before(batch[j].ReminderDate) })

	var lines []string
	var rendered []string
	var orphaned []string
	for _, r := range batch {
		sub, err := s.store.GetSubscription(ctx, r.SubscriptionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				logctx.FromCtx(ctx, s.log).Infow("reminder references deleted subscription, consuming", "reminder_id", r.ID)
				orphaned = append(orphaned, r.ID)
				continue
			}
			logctx.FromCtx(ctx, s.log).Warnw("failed to load subscription for reminder", "reminder_id", r.ID, "err", err)
			continue
		}
		lines = append(lines, renderLine(r, sub))
		rendered = append(rendered, r.ID)
	}
	return lines, rendered, orphaned
}

func renderLine(r *models.Reminder, sub *models.Subscription) string {
	switch r.ReminderType {
	case types.ReminderTypeTrialEnding:
		if sub.TrialEndDate != nil {
			return fmt.Sprintf("Your %s trial ends on %s. Cancel before then to avoid being charged.", sub.Name, sub.TrialEndDate.Format("Jan 2, 2006"))
		}
		return fmt.Sprintf("Your %s trial is ending soon.", sub.Name)
	case types.ReminderTypeUnused:
		return fmt.Sprintf("You haven't used %s in a while. It renews on %s for $%.2f.", sub.Name, sub.RenewalDate.Format("Jan 2, 2006"), sub.Cost)
	default:
		return fmt.Sprintf("%s renews on %s for $%.2f (%s).", sub.Name, sub.RenewalDate.Format("Jan 2, 2006"), sub.Cost, sub.BillingCycle)
	}
}
