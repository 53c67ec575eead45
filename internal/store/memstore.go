package store

import (
	"context"
	"sync"
	"time"

	"github.com/subwise/subtrack/internal/models"
	"github.com/subwise/subtrack/pkg/tool"
	"github.com/subwise/subtrack/pkg/types"
)

// MemStore is an in-memory implementation of Store used by tests and local
// runs without a database. It applies the same per-(subscription, type)
// unsent-reminder uniqueness rule the Postgres partial index enforces.
type MemStore struct {
	mu            sync.RWMutex
	subscriptions map[string]*models.Subscription
	reminders     map[string]*models.Reminder
	preferences   map[string]*models.UserPreferences
	renewalLogs   []*models.RenewalLog
}

func NewMemStore() *MemStore {
	return &MemStore{
		subscriptions: make(map[string]*models.Subscription),
		reminders:     make(map[string]*models.Reminder),
		preferences:   make(map[string]*models.UserPreferences),
	}
}

func (s *MemStore) SaveSubscription(ctx context.Context, sub *models.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub.ID == "" {
		sub.ID = tool.GenerateUUIDV7()
	}
	cp := *sub
	s.subscriptions[sub.ID] = &cp
	return nil
}

func (s *MemStore) GetSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subscriptions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (s *MemStore) ListUserSubscriptions(ctx context.Context, userID string) ([]*models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Subscription
	for _, sub := range s.subscriptions {
		if sub.UserID == userID {
			cp := *sub
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemStore) ListOverdueSubscriptions(ctx context.Context, now time.Time, userID string) ([]*models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Subscription
	for _, sub := range s.subscriptions {
		if userID != "" && sub.UserID != userID {
			continue
		}
		if sub.Status.Billable() && sub.RenewalDate.Before(now) {
			cp := *sub
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemStore) ListBillableSubscriptions(ctx context.Context, userID string) ([]*models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Subscription
	for _, sub := range s.subscriptions {
		if userID != "" && sub.UserID != userID {
			continue
		}
		if sub.Status.Billable() {
			cp := *sub
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemStore) CreateReminder(ctx context.Context, r *models.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.reminders {
		if !existing.IsSent && existing.SubscriptionID == r.SubscriptionID && existing.ReminderType == r.ReminderType {
			// conflict with the unsent-uniqueness rule: no-op
			return nil
		}
	}
	if r.ID == "" {
		r.ID = tool.GenerateUUIDV7()
	}
	cp := *r
	s.reminders[r.ID] = &cp
	return nil
}

func (s *MemStore) DeleteUnsentReminders(ctx context.Context, subscriptionID string, only ...types.ReminderType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.reminders {
		if r.IsSent || r.SubscriptionID != subscriptionID {
			continue
		}
		if len(only) > 0 && !containsType(only, r.ReminderType) {
			continue
		}
		delete(s.reminders, id)
	}
	return nil
}

func (s *MemStore) HasUnsentReminder(ctx context.Context, subscriptionID string, t types.ReminderType) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reminders {
		if !r.IsSent && r.SubscriptionID == subscriptionID && r.ReminderType == t {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemStore) ListDueReminders(ctx context.Context, now time.Time) ([]*models.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Reminder
	for _, r := range s.reminders {
		if r.Due(now) {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemStore) ListUserDueReminders(ctx context.Context, userID string, now time.Time) ([]*models.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Reminder
	for _, r := range s.reminders {
		if r.UserID == userID && r.Due(now) {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemStore) MarkRemindersSent(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if r, ok := s.reminders[id]; ok {
			r.IsSent = true
		}
	}
	return nil
}

func (s *MemStore) GetPreferences(ctx context.Context, userID string) (*models.UserPreferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.preferences[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemStore) SavePreferences(ctx context.Context, p *models.UserPreferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = tool.GenerateUUIDV7()
	}
	cp := *p
	s.preferences[p.UserID] = &cp
	return nil
}

func (s *MemStore) SaveRenewalLog(ctx context.Context, l *models.RenewalLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == "" {
		l.ID = tool.GenerateUUIDV7()
	}
	cp := *l
	s.renewalLogs = append(s.renewalLogs, &cp)
	return nil
}

// RenewalLogs returns the recorded advancement logs, for tests.
func (s *MemStore) RenewalLogs() []*models.RenewalLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.RenewalLog, len(s.renewalLogs))
	copy(out, s.renewalLogs)
	return out
}

// UnsentReminders returns all unsent reminders for a subscription, for tests.
func (s *MemStore) UnsentReminders(subscriptionID string) []*models.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Reminder
	for _, r := range s.reminders {
		if !r.IsSent && r.SubscriptionID == subscriptionID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out
}

// Reminders returns every reminder row, sent or not, for tests.
func (s *MemStore) Reminders() []*models.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Reminder
	for _, r := range s.reminders {
		cp := *r
		out = append(out, &cp)
	}
	return out
}

func containsType(ts []types.ReminderType, t types.ReminderType) bool {
	for _, v := range ts {
		if v == t {
			return true
		}
	}
	return false
}
