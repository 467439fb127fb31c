package catalog

import (
	"fmt"
	"time"
)

// Subject is a top-level study area (e.g. a certification track). Topics
// hang off subjects; free-tier topic gating is evaluated per subject.
type Subject struct {
	id          uint
	sid         string
	name        string
	description string
	iconURL     string
	active      bool
	sortOrder   int
	createdAt   time.Time
	updatedAt   time.Time
}

func NewSubject(name, description, iconURL string, sortOrder int) (*Subject, error) {
	if name == "" {
		return nil, fmt.Errorf("subject name is required")
	}
	if len(name) > 200 {
		return nil, fmt.Errorf("subject name too long (max 200 characters)")
	}

	now := time.Now()
	return &Subject{
		name:        name,
		description: description,
		iconURL:     iconURL,
		active:      true,
		sortOrder:   sortOrder,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructSubject(id uint, sid, name, description, iconURL string,
	active bool, sortOrder int, createdAt, updatedAt time.Time) (*Subject, error) {

	if id == 0 {
		return nil, fmt.Errorf("subject ID cannot be zero")
	}
	if name == "" {
		return nil, fmt.Errorf("subject name is required")
	}

	return &Subject{
		id:          id,
		sid:         sid,
		name:        name,
		description: description,
		iconURL:     iconURL,
		active:      active,
		sortOrder:   sortOrder,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (s *Subject) ID() uint             { return s.id }
func (s *Subject) SID() string          { return s.sid }
func (s *Subject) Name() string         { return s.name }
func (s *Subject) Description() string  { return s.description }
func (s *Subject) IconURL() string      { return s.iconURL }
func (s *Subject) IsActive() bool       { return s.active }
func (s *Subject) SortOrder() int       { return s.sortOrder }
func (s *Subject) CreatedAt() time.Time { return s.createdAt }
func (s *Subject) UpdatedAt() time.Time { return s.updatedAt }

func (s *Subject) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subject ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subject ID cannot be zero")
	}
	s.id = id
	return nil
}
