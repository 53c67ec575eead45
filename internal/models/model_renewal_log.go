package models

import (
	"time"

	"gorm.io/datatypes"
)

// RenewalLog records automatic renewal-date advancements.
// Use case: troubleshooting.
type RenewalLog struct {
	ID             string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID         string `gorm:"column:user_id;type:varchar(64);index:idx_renewal_log_user,priority:1;not null"`
	SubscriptionID string `gorm:"column:subscription_id;type:uuid;not null"`
	// Before stores the subscription before advancement in JSON format.
	Before datatypes.JSONType[*Subscription] `gorm:"column:before;type:jsonb;default:'null'"`
	// After stores the subscription after advancement in JSON format.
	After datatypes.JSONType[*Subscription] `gorm:"column:after;type:jsonb;default:'null'"`
	// Extra stores additional context such as the trigger source.
	Extra     datatypes.JSONMap `gorm:"column:extra;type:jsonb;default:'{}'"`
	CreatedAt time.Time
}

func (RenewalLog) TableName() string {
	return "renewal_log"
}
