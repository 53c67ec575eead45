package models

import (
	"time"

	"github.com/subwise/subtrack/pkg/types"
)

// Subscription is a recurring service a user pays for. RenewalDate is the
// next expected charge; it is mutated only by the renewal advancer or an
// explicit user edit. Cancelled rows are kept for spend history.
type Subscription struct {
	ID           string                   `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID       string                   `gorm:"column:user_id;type:varchar(64);not null;index" json:"user_id"`
	Name         string                   `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Category     string                   `gorm:"column:category;type:varchar(64)" json:"category"`
	Notes        string                   `gorm:"column:notes;type:text" json:"notes"`
	Cost         float64                  `gorm:"column:cost;type:decimal(10,2);not null" json:"cost"`
	BillingCycle types.BillingCycle       `gorm:"column:billing_cycle;type:varchar(16);not null" json:"billing_cycle"`
	RenewalDate  time.Time                `gorm:"column:renewal_date;not null;index" json:"renewal_date"`
	Status       types.SubscriptionStatus `gorm:"column:status;type:varchar(16);not null;index" json:"status"`
	// TrialEndDate is meaningful only while Status is trial.
	TrialEndDate *time.Time `gorm:"column:trial_end_date;default:null" json:"trial_end_date"`
	LastUsed     *time.Time `gorm:"column:last_used;default:null" json:"last_used"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscription"
}

// Overdue reports whether the subscription needs advancement at now.
// Renewal exactly at now is not overdue; the boundary is strict.
func (s *Subscription) Overdue(now time.Time) bool {
	return s != nil && s.Status.Billable() && s.RenewalDate.Before(now)
}
