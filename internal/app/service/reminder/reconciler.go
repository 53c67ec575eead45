package reminder

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/subwise/subtrack/internal/models"
	"github.com/subwise/subtrack/internal/store"
	"github.com/subwise/subtrack/pkg/config"
	"github.com/subwise/subtrack/pkg/logctx"
	"github.com/subwise/subtrack/pkg/metrics"
	"github.com/subwise/subtrack/pkg/types"
)

// Service backfills missing reminders for billable subscriptions. It is
// idempotent and cheap when reminders already exist, so callers may run it
// on every session start.
type Service struct {
	cfg   *config.Config
	store store.Store
	log   *zap.SugaredLogger
}

func NewService(cfg *config.Config, st store.Store, log *zap.SugaredLogger) *Service {
	return &Service{cfg: cfg, store: st, log: log}
}

type BackfillResult struct {
	Checked int               `json:"checked"`
	Created int               `json:"created"`
	Errors  []types.ItemError `json:"errors,omitempty"`
}

// Backfill ensures every active/trial subscription has an outstanding unsent
// renewal reminder, every trial subscription with a trial end date has an
// unsent trial_ending reminder, and active subscriptions idle past the
// configured window get an unused reminder alongside the renewal one. An
// empty userID reconciles all users.
//
// Reminders whose computed trigger time is not strictly in the future are not
// created; they would be due the moment they exist. Absence checks are only a
// fast path — the store's uniqueness rule is what prevents duplicates under
// concurrent passes.
func (s *Service) Backfill(ctx context.Context, userID string, now time.Time) (*BackfillResult, error) {
	subs, err := s.store.ListBillableSubscriptions(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := &BackfillResult{}
	prefsByUser := make(map[string]*models.UserPreferences)

	for _, sub := range subs {
		res.Checked++
		if err := s.backfillOne(ctx, sub, now, prefsByUser, res); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				logctx.FromCtx(ctx, s.log).Infow("subscription vanished during backfill, skipping", "subscription_id", sub.ID)
				continue
			}
			res.Errors = append(res.Errors, types.ItemError{ID: sub.ID, Reason: "backfill failed"})
			logctx.FromCtx(ctx, s.log).Errorw("reminder backfill failed", "subscription_id", sub.ID, "err", err)
		}
	}

	return res, nil
}

func (s *Service) backfillOne(ctx context.Context, sub *models.Subscription, now time.Time, prefsByUser map[string]*models.UserPreferences, res *BackfillResult) error {
	if t := s.cfg.Engine.ItemTimeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	prefs, ok := prefsByUser[sub.UserID]
	if !ok {
		var err error
		prefs, err = EffectivePreferences(ctx, s.store, sub.UserID)
		if err != nil {
			return err
		}
		prefsByUser[sub.UserID] = prefs
	}

	created, err := s.ensureReminder(ctx, sub, types.ReminderTypeRenewal, sub.RenewalDate, prefs.ReminderDaysBefore, now)
	if err != nil {
		return err
	}
	if created {
		res.Created++
	}

	if sub.Status == types.SubscriptionStatusTrial && sub.TrialEndDate != nil {
		created, err = s.ensureReminder(ctx, sub, types.ReminderTypeTrialEnding, *sub.TrialEndDate, prefs.ReminderDaysBefore, now)
		if err != nil {
			return err
		}
		if created {
			res.Created++
		}
	}

	if s.idle(sub, now) {
		created, err = s.ensureReminder(ctx, sub, types.ReminderTypeUnused, sub.RenewalDate, prefs.ReminderDaysBefore, now)
		if err != nil {
			return err
		}
		if created {
			res.Created++
		}
	}

	return nil
}

// idle reports whether an active subscription has gone unused long enough to
// warn before the next charge. Subscriptions that never recorded usage are
// not flagged; there is nothing to compare against.
func (s *Service) idle(sub *models.Subscription, now time.Time) bool {
	after := s.cfg.Engine.UnusedAfter
	if after <= 0 || sub.Status != types.SubscriptionStatusActive || sub.LastUsed == nil {
		return false
	}
	return now.Sub(*sub.LastUsed) >= after
}

func (s *Service) ensureReminder(ctx context.Context, sub *models.Subscription, t types.ReminderType, event time.Time, daysBefore int, now time.Time) (bool, error) {
	exists, err := s.store.HasUnsentReminder(ctx, sub.ID, t)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	at, err := ReminderAt(event, daysBefore)
	if err != nil {
		return false, err
	}
	if !at.After(now) {
		return false, nil
	}

	if err := s.store.CreateReminder(ctx, &models.Reminder{
		SubscriptionID: sub.ID,
		UserID:         sub.UserID,
		ReminderType:   t,
		ReminderDate:   at,
	}); err != nil {
		return false, err
	}
	metrics.RemindersCreated.WithLabelValues(string(t)).Inc()
	return true, nil
}
