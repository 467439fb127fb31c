package models

import (
	"time"

	"gorm.io/gorm"
)

// TopicModel represents the database persistence model for topics. A
// NULL parent_id marks a root topic; free-tier gating orders root topics
// by id ascending, so the primary key doubles as the gating order.
type TopicModel struct {
	ID        uint   `gorm:"primarykey"`
	SID       string `gorm:"uniqueIndex;not null;size:32"`
	SubjectID uint   `gorm:"not null;index:idx_subject_parent"`
	ParentID  *uint  `gorm:"index:idx_subject_parent"`
	Name      string `gorm:"not null;size:200"`
	IsActive  bool   `gorm:"default:true"`
	SortOrder int    `gorm:"default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (TopicModel) TableName() string {
	return "topics"
}
