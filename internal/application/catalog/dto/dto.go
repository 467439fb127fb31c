package dto

import (
	"time"

	"prepwise/internal/domain/catalog"
)

// SubjectDTO is the public projection of a subject.
type SubjectDTO struct {
	SID         string `json:"sid"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IconURL     string `json:"icon_url,omitempty"`
	SortOrder   int    `json:"sort_order"`
}

func ToSubjectDTO(subject *catalog.Subject) SubjectDTO {
	return SubjectDTO{
		SID:         subject.SID(),
		Name:        subject.Name(),
		Description: subject.Description(),
		IconURL:     subject.IconURL(),
		SortOrder:   subject.SortOrder(),
	}
}

// TopicDTO is the per-user projection of a topic. Locked reports
// free-tier gating for the requesting user, so the same cached topic
// list yields different DTOs per caller.
type TopicDTO struct {
	SID       string  `json:"sid"`
	ParentSID *string `json:"parent_sid,omitempty"`
	Name      string  `json:"name"`
	SortOrder int     `json:"sort_order"`
	Locked    bool    `json:"locked"`
}

// MasteryDTO is the public projection of a mastery aggregate.
type MasteryDTO struct {
	SubjectSID     string    `json:"subject_sid"`
	MasteryPercent float64   `json:"mastery_percent"`
	TestsTaken     int       `json:"tests_taken"`
	QuestionsSeen  int       `json:"questions_seen"`
	CorrectAnswers int       `json:"correct_answers"`
	LastActivityAt time.Time `json:"last_activity_at"`
}
