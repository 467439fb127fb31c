package models

import "time"

// SubjectMasteryModel represents the database persistence model for
// per-user subject mastery aggregates. Rows are written by the scoring
// pipeline; this service reads them.
type SubjectMasteryModel struct {
	ID             uint    `gorm:"primarykey"`
	UserID         string  `gorm:"uniqueIndex:idx_user_subject;not null;size:64"`
	SubjectID      uint    `gorm:"uniqueIndex:idx_user_subject;not null"`
	MasteryPercent float64 `gorm:"not null;default:0"`
	TestsTaken     int     `gorm:"not null;default:0"`
	QuestionsSeen  int     `gorm:"not null;default:0"`
	CorrectAnswers int     `gorm:"not null;default:0"`
	LastActivityAt time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for GORM
func (SubjectMasteryModel) TableName() string {
	return "subject_mastery"
}
