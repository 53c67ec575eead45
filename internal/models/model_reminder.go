package models

import (
	"time"

	"github.com/subwise/subtrack/pkg/types"
)

// Reminder is a single-fire notification record tied to a subscription
// event. At most one unsent reminder of a given type may exist per
// subscription; the store enforces this with a partial unique index on
// (subscription_id, reminder_type) where is_sent = false.
//
// IsSent is terminal: once true it never reverts. Sent reminders are kept
// for audit; unsent ones are deleted and replaced when the underlying
// renewal date moves.
type Reminder struct {
	ID             string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SubscriptionID string `gorm:"column:subscription_id;type:uuid;not null;index" json:"subscription_id"`
	// UserID duplicates the owning subscription's user for cheap per-user queries.
	UserID       string             `gorm:"column:user_id;type:varchar(64);not null;index" json:"user_id"`
	ReminderType types.ReminderType `gorm:"column:reminder_type;type:varchar(16);not null" json:"reminder_type"`
	ReminderDate time.Time          `gorm:"column:reminder_date;not null;index" json:"reminder_date"`
	IsSent       bool               `gorm:"column:is_sent;not null;default:false" json:"is_sent"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func (Reminder) TableName() string {
	return "reminder"
}

// Due reports whether the reminder should be picked up by a dispatch pass.
func (r *Reminder) Due(now time.Time) bool {
	return r != nil && !r.IsSent && !r.ReminderDate.After(now)
}
