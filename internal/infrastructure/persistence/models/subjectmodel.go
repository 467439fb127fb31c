package models

import (
	"time"

	"gorm.io/gorm"
)

// SubjectModel represents the database persistence model for subjects.
type SubjectModel struct {
	ID          uint   `gorm:"primarykey"`
	SID         string `gorm:"uniqueIndex;not null;size:32"`
	Name        string `gorm:"not null;size:200"`
	Description string `gorm:"size:1000"`
	IconURL     string `gorm:"size:500"`
	IsActive    bool   `gorm:"default:true;index"`
	SortOrder   int    `gorm:"default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (SubjectModel) TableName() string {
	return "subjects"
}
