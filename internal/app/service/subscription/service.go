package subscription

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/subwise/subtrack/internal/app/service/reminder"
	"github.com/subwise/subtrack/internal/models"
	"github.com/subwise/subtrack/internal/store"
	"github.com/subwise/subtrack/pkg/config"
	"github.com/subwise/subtrack/pkg/logctx"
	"github.com/subwise/subtrack/pkg/types"
)

// Service owns subscription and preference CRUD. Renewal-date edits flow
// through the same reminder invalidation as automatic advancement, so a user
// edit can never leave a stale unsent reminder behind.
type Service struct {
	cfg   *config.Config
	store store.Store
	db    *gorm.DB
	recon *reminder.Service
	log   *zap.SugaredLogger
}

func NewService(cfg *config.Config, st store.Store, db *gorm.DB, recon *reminder.Service, log *zap.SugaredLogger) *Service {
	return &Service{cfg: cfg, store: st, db: db, recon: recon, log: log}
}

type CreateRequest struct {
	Name         string                   `json:"name" binding:"required"`
	Category     string                   `json:"category"`
	Notes        string                   `json:"notes"`
	Cost         float64                  `json:"cost" binding:"required,gt=0"`
	BillingCycle types.BillingCycle       `json:"billing_cycle" binding:"required"`
	RenewalDate  time.Time                `json:"renewal_date" binding:"required"`
	Status       types.SubscriptionStatus `json:"status"`
	TrialEndDate *time.Time               `json:"trial_end_date"`
}

func (s *Service) Create(ctx context.Context, userID string, req *CreateRequest) (*models.Subscription, error) {
	if !req.BillingCycle.Valid() {
		return nil, fmt.Errorf("invalid billing cycle: %s", req.BillingCycle)
	}
	status := req.Status
	if status == "" {
		status = types.SubscriptionStatusActive
	}
	if !status.Billable() && status != types.SubscriptionStatusCancelled {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	if status == types.SubscriptionStatusTrial && req.TrialEndDate == nil {
		return nil, fmt.Errorf("trial subscriptions require a trial end date")
	}

	sub := &models.Subscription{
		UserID:       userID,
		Name:         req.Name,
		Category:     req.Category,
		Notes:        req.Notes,
		Cost:         req.Cost,
		BillingCycle: req.BillingCycle,
		RenewalDate:  req.RenewalDate,
		Status:       status,
		TrialEndDate: req.TrialEndDate,
	}
	if err := s.store.SaveSubscription(ctx, sub); err != nil {
		return nil, err
	}

	// seed reminders right away; failure here is not fatal, the next
	// backfill pass picks it up
	if _, err := s.recon.Backfill(ctx, userID, time.Now()); err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("post-create backfill failed", "subscription_id", sub.ID, "err", err)
	}
	return sub, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]*models.Subscription, error) {
	return s.store.ListUserSubscriptions(ctx, userID)
}

type UpdateRequest struct {
	Name         *string                   `json:"name"`
	Category     *string                   `json:"category"`
	Notes        *string                   `json:"notes"`
	Cost         *float64                  `json:"cost"`
	BillingCycle *types.BillingCycle       `json:"billing_cycle"`
	RenewalDate  *time.Time                `json:"renewal_date"`
	Status       *types.SubscriptionStatus `json:"status"`
	TrialEndDate *time.Time                `json:"trial_end_date"`
	LastUsed     *time.Time                `json:"last_used"`
}

func (s *Service) Update(ctx context.Context, userID, id string, req *UpdateRequest) (*models.Subscription, error) {
	sub, err := s.ownedSubscription(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if sub.Status == types.SubscriptionStatusCancelled && req.Status == nil {
		return nil, fmt.Errorf("cancelled subscriptions cannot be edited")
	}

	dateChanged := false
	if req.Name != nil {
		sub.Name = *req.Name
	}
	if req.Category != nil {
		sub.Category = *req.Category
	}
	if req.Notes != nil {
		sub.Notes = *req.Notes
	}
	if req.Cost != nil {
		if *req.Cost <= 0 {
			return nil, fmt.Errorf("cost must be positive")
		}
		sub.Cost = *req.Cost
	}
	if req.BillingCycle != nil {
		if !req.BillingCycle.Valid() {
			return nil, fmt.Errorf("invalid billing cycle: %s", *req.BillingCycle)
		}
		sub.BillingCycle = *req.BillingCycle
	}
	if req.RenewalDate != nil && !req.RenewalDate.Equal(sub.RenewalDate) {
		sub.RenewalDate = *req.RenewalDate
		dateChanged = true
	}
	if req.TrialEndDate != nil {
		sub.TrialEndDate = req.TrialEndDate
		dateChanged = true
	}
	if req.LastUsed != nil {
		sub.LastUsed = req.LastUsed
	}
	if req.Status != nil {
		if *req.Status == types.SubscriptionStatusCancelled {
			return nil, fmt.Errorf("use cancel to end a subscription")
		}
		if !req.Status.Billable() {
			return nil, fmt.Errorf("invalid status: %s", *req.Status)
		}
		sub.Status = *req.Status
	}

	if err := s.store.SaveSubscription(ctx, sub); err != nil {
		return nil, err
	}

	if dateChanged {
		// stale unsent reminders reference the old dates; replace them
		if err := s.store.DeleteUnsentReminders(ctx, sub.ID); err != nil {
			return nil, err
		}
		if _, err := s.recon.Backfill(ctx, userID, time.Now()); err != nil {
			logctx.FromCtx(ctx, s.log).Warnw("post-edit backfill failed", "subscription_id", sub.ID, "err", err)
		}
	}
	return sub, nil
}

// Cancel ends a subscription for billing purposes. The row is retained for
// history; outstanding unsent reminders are removed since nothing will renew.
func (s *Service) Cancel(ctx context.Context, userID, id string) (*models.Subscription, error) {
	sub, err := s.ownedSubscription(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if sub.Status == types.SubscriptionStatusCancelled {
		return sub, nil
	}
	sub.Status = types.SubscriptionStatusCancelled
	if err := s.store.SaveSubscription(ctx, sub); err != nil {
		return nil, err
	}
	if err := s.store.DeleteUnsentReminders(ctx, sub.ID); err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("failed to clear reminders on cancel", "subscription_id", sub.ID, "err", err)
	}
	return sub, nil
}

func (s *Service) ownedSubscription(ctx context.Context, userID, id string) (*models.Subscription, error) {
	sub, err := s.store.GetSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.UserID != userID {
		// do not reveal other users' rows
		return nil, store.ErrNotFound
	}
	return sub, nil
}

// GetPreferences returns stored preferences, or defaults when none exist.
func (s *Service) GetPreferences(ctx context.Context, userID string) (*models.UserPreferences, error) {
	return reminder.EffectivePreferences(ctx, s.store, userID)
}

type PreferencesRequest struct {
	Email                 string `json:"email"`
	ReminderDaysBefore    int    `json:"reminder_days_before" binding:"required"`
	EmailRemindersRenewal bool   `json:"email_reminders_renewal"`
	EmailRemindersTrial   bool   `json:"email_reminders_trial"`
	InAppReminders        bool   `json:"in_app_reminders"`
}

func (s *Service) SavePreferences(ctx context.Context, userID string, req *PreferencesRequest) (*models.UserPreferences, error) {
	if !types.ValidReminderDaysBefore(req.ReminderDaysBefore) {
		return nil, fmt.Errorf("reminder_days_before must be one of %v", types.ReminderDaysBefore)
	}
	p := &models.UserPreferences{
		UserID:                userID,
		Email:                 req.Email,
		ReminderDaysBefore:    req.ReminderDaysBefore,
		EmailRemindersRenewal: req.EmailRemindersRenewal,
		EmailRemindersTrial:   req.EmailRemindersTrial,
		InAppReminders:        req.InAppReminders,
	}
	if err := s.store.SavePreferences(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DueReminders is the in-app channel surface: unsent reminders due at now
// for the user, empty when the in_app preference is off. Reading never marks
// anything sent; only a dispatch pass consumes reminders.
func (s *Service) DueReminders(ctx context.Context, userID string, now time.Time) ([]*models.Reminder, error) {
	prefs, err := reminder.EffectivePreferences(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	rs, err := s.store.ListUserDueReminders(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	var out []*models.Reminder
	for _, r := range rs {
		if reminder.Suppressed(r.ReminderType, types.ChannelInApp, prefs) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
