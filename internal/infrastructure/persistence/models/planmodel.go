package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PlanModel represents the database persistence model for plans.
// This is the anti-corruption layer between domain and database.
type PlanModel struct {
	ID                  uint   `gorm:"primarykey"`
	SID                 string `gorm:"uniqueIndex;not null;size:32"`
	Code                string `gorm:"uniqueIndex;not null;size:32"`
	Name                string `gorm:"not null;size:100"`
	Description         string `gorm:"size:500"`
	DailyTestLimit      *int
	MaxTopicsPerSubject *int
	Price               uint64 `gorm:"not null"`
	Currency            string `gorm:"not null;size:3"`
	IsActive            bool   `gorm:"default:true"`
	SortOrder           int    `gorm:"default:0"`
	Metadata            datatypes.JSON
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (PlanModel) TableName() string {
	return "plans"
}
