package models

import (
	"time"

	"gorm.io/gorm"
)

// UserSubscriptionModel represents the database persistence model for
// user subscriptions. user_id is an opaque external identity; there is
// no users table to reference.
type UserSubscriptionModel struct {
	ID                 uint   `gorm:"primarykey"`
	SID                string `gorm:"uniqueIndex;not null;size:32"`
	UserID             string `gorm:"index:idx_user_status;not null;size:64"`
	PlanID             uint   `gorm:"not null;index"`
	Status             string `gorm:"index:idx_user_status;not null;size:20"`
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	TestsUsedToday     int       `gorm:"not null;default:0"`
	TestsUsedTotal     int64     `gorm:"not null;default:0"`
	UsageResetAt       time.Time `gorm:"not null"`
	BillingCustomerID  *string   `gorm:"size:64"`
	BillingSubID       *string   `gorm:"size:64"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (UserSubscriptionModel) TableName() string {
	return "user_subscriptions"
}
