package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/subwise/subtrack/internal/models"
	"github.com/subwise/subtrack/pkg/tool"
	"github.com/subwise/subtrack/pkg/types"
)

// GormStore implements Store on Postgres via GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) SaveSubscription(ctx context.Context, sub *models.Subscription) error {
	if sub.ID == "" {
		sub.ID = tool.GenerateUUIDV7()
	}
	if err := s.db.WithContext(ctx).Save(sub).Error; err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	return nil
}

func (s *GormStore) GetSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &sub, nil
}

func (s *GormStore) ListUserSubscriptions(ctx context.Context, userID string) ([]*models.Subscription, error) {
	var subs []*models.Subscription
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("renewal_date asc").
		Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

func (s *GormStore) ListOverdueSubscriptions(ctx context.Context, now time.Time, userID string) ([]*models.Subscription, error) {
	q := s.db.WithContext(ctx).
		Where("status IN ?", types.BillableStatuses).
		Where("renewal_date < ?", now)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var subs []*models.Subscription
	if err := q.Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list overdue subscriptions: %w", err)
	}
	return subs, nil
}

func (s *GormStore) ListBillableSubscriptions(ctx context.Context, userID string) ([]*models.Subscription, error) {
	q := s.db.WithContext(ctx).Where("status IN ?", types.BillableStatuses)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var subs []*models.Subscription
	if err := q.Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list billable subscriptions: %w", err)
	}
	return subs, nil
}

func (s *GormStore) CreateReminder(ctx context.Context, r *models.Reminder) error {
	if r.ID == "" {
		r.ID = tool.GenerateUUIDV7()
	}
	// The partial unique index on (subscription_id, reminder_type) where
	// is_sent = false turns duplicate inserts into no-ops.
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(r).Error; err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

func (s *GormStore) DeleteUnsentReminders(ctx context.Context, subscriptionID string, only ...types.ReminderType) error {
	q := s.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Where("is_sent = ?", false)
	if len(only) > 0 {
		q = q.Where("reminder_type IN ?", only)
	}
	if err := q.Delete(&models.Reminder{}).Error; err != nil {
		return fmt.Errorf("failed to delete unsent reminders: %w", err)
	}
	return nil
}

func (s *GormStore) HasUnsentReminder(ctx context.Context, subscriptionID string, t types.ReminderType) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Reminder{}).
		Where("subscription_id = ? AND reminder_type = ? AND is_sent = ?", subscriptionID, t, false).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check unsent reminder: %w", err)
	}
	return count > 0, nil
}

func (s *GormStore) ListDueReminders(ctx context.Context, now time.Time) ([]*models.Reminder, error) {
	var rs []*models.Reminder
	if err := s.db.WithContext(ctx).
		Where("is_sent = ? AND reminder_date <= ?", false, now).
		Order("user_id, reminder_date").
		Find(&rs).Error; err != nil {
		return nil, fmt.Errorf("failed to list due reminders: %w", err)
	}
	return rs, nil
}

func (s *GormStore) ListUserDueReminders(ctx context.Context, userID string, now time.Time) ([]*models.Reminder, error) {
	var rs []*models.Reminder
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_sent = ? AND reminder_date <= ?", userID, false, now).
		Order("reminder_date").
		Find(&rs).Error; err != nil {
		return nil, fmt.Errorf("failed to list user due reminders: %w", err)
	}
	return rs, nil
}

func (s *GormStore) MarkRemindersSent(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(&models.Reminder{}).
		Where("id IN ?", ids).
		Update("is_sent", true).Error; err != nil {
		return fmt.Errorf("failed to mark reminders sent: %w", err)
	}
	return nil
}

func (s *GormStore) GetPreferences(ctx context.Context, userID string) (*models.UserPreferences, error) {
	var p models.UserPreferences
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return &p, nil
}

func (s *GormStore) SavePreferences(ctx context.Context, p *models.UserPreferences) error {
	var original models.UserPreferences
	err := s.db.WithContext(ctx).Where("user_id = ?", p.UserID).First(&original).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to load original preferences: %w", err)
	}
	if original.ID != "" {
		p.ID = original.ID
		p.CreatedAt = original.CreatedAt
	} else if p.ID == "" {
		p.ID = tool.GenerateUUIDV7()
	}
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

func (s *GormStore) SaveRenewalLog(ctx context.Context, l *models.RenewalLog) error {
	if l.ID == "" {
		l.ID = tool.GenerateUUIDV7()
	}
	if err := s.db.WithContext(ctx).Save(l).Error; err != nil {
		return fmt.Errorf("failed to save renewal log: %w", err)
	}
	return nil
}
