package catalog

import (
	"fmt"
	"time"
)

// SubjectMastery is the per-user aggregate of practice performance within
// a subject. It is recomputed by the scoring pipeline after each test
// session; this service only reads it.
type SubjectMastery struct {
	id             uint
	userID         string
	subjectID      uint
	masteryPercent float64
	testsTaken     int
	questionsSeen  int
	correctAnswers int
	lastActivityAt time.Time
	updatedAt      time.Time
}

func ReconstructSubjectMastery(id uint, userID string, subjectID uint,
	masteryPercent float64, testsTaken, questionsSeen, correctAnswers int,
	lastActivityAt, updatedAt time.Time) (*SubjectMastery, error) {

	if id == 0 {
		return nil, fmt.Errorf("mastery ID cannot be zero")
	}
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if subjectID == 0 {
		return nil, fmt.Errorf("subject ID cannot be zero")
	}
	if masteryPercent < 0 || masteryPercent > 100 {
		return nil, fmt.Errorf("mastery percent out of range: %f", masteryPercent)
	}

	return &SubjectMastery{
		id:             id,
		userID:         userID,
		subjectID:      subjectID,
		masteryPercent: masteryPercent,
		testsTaken:     testsTaken,
		questionsSeen:  questionsSeen,
		correctAnswers: correctAnswers,
		lastActivityAt: lastActivityAt,
		updatedAt:      updatedAt,
	}, nil
}

func (m *SubjectMastery) ID() uint                  { return m.id }
func (m *SubjectMastery) UserID() string            { return m.userID }
func (m *SubjectMastery) SubjectID() uint           { return m.subjectID }
func (m *SubjectMastery) MasteryPercent() float64   { return m.masteryPercent }
func (m *SubjectMastery) TestsTaken() int           { return m.testsTaken }
func (m *SubjectMastery) QuestionsSeen() int        { return m.questionsSeen }
func (m *SubjectMastery) CorrectAnswers() int       { return m.correctAnswers }
func (m *SubjectMastery) LastActivityAt() time.Time { return m.lastActivityAt }
func (m *SubjectMastery) UpdatedAt() time.Time      { return m.updatedAt }
