package renewal

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/subwise/subtrack/internal/app/service/reminder"
	"github.com/subwise/subtrack/internal/models"
	"github.com/subwise/subtrack/internal/store"
	"github.com/subwise/subtrack/pkg/config"
	"github.com/subwise/subtrack/pkg/datecycle"
	"github.com/subwise/subtrack/pkg/logctx"
	"github.com/subwise/subtrack/pkg/metrics"
	"github.com/subwise/subtrack/pkg/types"
)

// Service advances overdue subscriptions to their next future renewal date
// and reconciles their reminders in the same pass. It is the only writer of
// renewal_date besides explicit user edits.
type Service struct {
	cfg   *config.Config
	store store.Store
	log   *zap.SugaredLogger
}

func NewService(cfg *config.Config, st store.Store, log *zap.SugaredLogger) *Service {
	return &Service{cfg: cfg, store: st, log: log}
}

type Result struct {
	Scanned          int               `json:"scanned"`
	Advanced         int               `json:"advanced"`
	RemindersCreated int               `json:"reminders_created"`
	Errors           []types.ItemError `json:"errors,omitempty"`
}

// AdvanceOverdue processes every billable subscription with
// renewal_date < now. An empty userID processes all users.
//
// Per subscription, strictly in order: persist the new date, delete all
// unsent reminders (a rollover invalidates stale renewal and trial reminders
// alike), then create one fresh renewal reminder when its trigger time is
// still in the future. Failures are collected per item; the pass never aborts
// on one bad subscription, and re-running after an interruption repeats the
// same steps without duplicating side effects.
func (s *Service) AdvanceOverdue(ctx context.Context, userID string, now time.Time) (*Result, error) {
	subs, err := s.store.ListOverdueSubscriptions(ctx, now, userID)
	if err != nil {
		return nil, err
	}

	res := &Result{Scanned: len(subs)}
	prefsByUser := make(map[string]*models.UserPreferences)

	for _, sub := range subs {
		created, err := s.advanceOne(ctx, sub, now, prefsByUser)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				logctx.FromCtx(ctx, s.log).Infow("subscription vanished during advancement, skipping", "subscription_id", sub.ID)
				continue
			}
			res.Errors = append(res.Errors, types.ItemError{ID: sub.ID, Reason: "advancement failed"})
			metrics.JobErrors.WithLabelValues("advance").Inc()
			logctx.FromCtx(ctx, s.log).Errorw("renewal advancement failed", "subscription_id", sub.ID, "err", err)
			continue
		}
		res.Advanced++
		if created {
			res.RemindersCreated++
		}
	}

	return res, nil
}

func (s *Service) advanceOne(ctx context.Context, sub *models.Subscription, now time.Time, prefsByUser map[string]*models.UserPreferences) (bool, error) {
	if t := s.cfg.Engine.ItemTimeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	newDate, err := datecycle.AdvanceUntilFuture(sub.RenewalDate, sub.BillingCycle, now)
	if err != nil {
		return false, err
	}

	before := *sub
	sub.RenewalDate = newDate
	sub.UpdatedAt = now
	if err := s.store.SaveSubscription(ctx, sub); err != nil {
		return false, err
	}
	metrics.SubscriptionsAdvanced.Inc()

	s.logAdvancement(ctx, &before, sub)

	if err := s.store.DeleteUnsentReminders(ctx, sub.ID); err != nil {
		return false, err
	}

	prefs, ok := prefsByUser[sub.UserID]
	if !ok {
		prefs, err = reminder.EffectivePreferences(ctx, s.store, sub.UserID)
		if err != nil {
			return false, err
		}
		prefsByUser[sub.UserID] = prefs
	}

	at, err := reminder.ReminderAt(newDate, prefs.ReminderDaysBefore)
	if err != nil {
		return false, err
	}
	if !at.After(now) {
		// already in the past at creation time; useless, do not create
		return false, nil
	}

	if err := s.store.CreateReminder(ctx, &models.Reminder{
		SubscriptionID: sub.ID,
		UserID:         sub.UserID,
		ReminderType:   types.ReminderTypeRenewal,
		ReminderDate:   at,
	}); err != nil {
		return false, err
	}
	metrics.RemindersCreated.WithLabelValues(string(types.ReminderTypeRenewal)).Inc()
	return true, nil
}

// logAdvancement records the before/after snapshot; audit writes never fail
// the advancement itself.
func (s *Service) logAdvancement(ctx context.Context, before, after *models.Subscription) {
	l := &models.RenewalLog{
		UserID:         after.UserID,
		SubscriptionID: after.ID,
		Before:         datatypes.NewJSONType(before),
		After:          datatypes.NewJSONType(after),
		Extra:          datatypes.JSONMap{},
	}
	if err := s.store.SaveRenewalLog(ctx, l); err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("failed to save renewal log", "subscription_id", after.ID, "err", err)
	}
}
