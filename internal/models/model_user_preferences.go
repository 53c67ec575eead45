package models

import (
	"time"

	"github.com/subwise/subtrack/pkg/types"
)

// UserPreferences holds notification settings, one row per user. A missing
// row is a valid state equal to Defaults().
type UserPreferences struct {
	ID     string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID string `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex" json:"user_id"`
	// Email is the delivery address for the email channel. Without it the
	// email channel is undeliverable for this user.
	Email                 string `gorm:"column:email;type:varchar(255)" json:"email"`
	ReminderDaysBefore    int    `gorm:"column:reminder_days_before;not null;default:2" json:"reminder_days_before"`
	EmailRemindersRenewal bool   `gorm:"column:email_reminders_renewal;not null;default:true" json:"email_reminders_renewal"`
	EmailRemindersTrial   bool   `gorm:"column:email_reminders_trial;not null;default:true" json:"email_reminders_trial"`
	InAppReminders        bool   `gorm:"column:in_app_reminders;not null;default:true" json:"in_app_reminders"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (UserPreferences) TableName() string {
	return "user_preferences"
}

// Defaults returns the preferences applied when a user has no stored row.
func Defaults(userID string) *UserPreferences {
	return &UserPreferences{
		UserID:                userID,
		ReminderDaysBefore:    types.DefaultReminderDaysBefore,
		EmailRemindersRenewal: true,
		EmailRemindersTrial:   true,
		InAppReminders:        true,
	}
}
