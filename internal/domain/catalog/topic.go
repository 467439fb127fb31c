package catalog

import (
	"fmt"
	"sort"
	"time"
)

// Topic is a unit of study inside a subject. Topics form a shallow tree:
// a nil parentID marks a root topic. Free-tier gating only counts root
// topics; children inherit their root's accessibility.
type Topic struct {
	id        uint
	sid       string
	subjectID uint
	parentID  *uint
	name      string
	active    bool
	sortOrder int
	createdAt time.Time
	updatedAt time.Time
}

func NewTopic(subjectID uint, parentID *uint, name string, sortOrder int) (*Topic, error) {
	if subjectID == 0 {
		return nil, fmt.Errorf("subject ID cannot be zero")
	}
	if name == "" {
		return nil, fmt.Errorf("topic name is required")
	}
	if len(name) > 200 {
		return nil, fmt.Errorf("topic name too long (max 200 characters)")
	}

	now := time.Now()
	return &Topic{
		subjectID: subjectID,
		parentID:  parentID,
		name:      name,
		active:    true,
		sortOrder: sortOrder,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructTopic(id uint, sid string, subjectID uint, parentID *uint,
	name string, active bool, sortOrder int, createdAt, updatedAt time.Time) (*Topic, error) {

	if id == 0 {
		return nil, fmt.Errorf("topic ID cannot be zero")
	}
	if subjectID == 0 {
		return nil, fmt.Errorf("subject ID cannot be zero")
	}
	if name == "" {
		return nil, fmt.Errorf("topic name is required")
	}

	return &Topic{
		id:        id,
		sid:       sid,
		subjectID: subjectID,
		parentID:  parentID,
		name:      name,
		active:    active,
		sortOrder: sortOrder,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (t *Topic) ID() uint             { return t.id }
func (t *Topic) SID() string          { return t.sid }
func (t *Topic) SubjectID() uint      { return t.subjectID }
func (t *Topic) ParentID() *uint      { return t.parentID }
func (t *Topic) Name() string         { return t.name }
func (t *Topic) IsActive() bool       { return t.active }
func (t *Topic) SortOrder() int       { return t.sortOrder }
func (t *Topic) CreatedAt() time.Time { return t.createdAt }
func (t *Topic) UpdatedAt() time.Time { return t.updatedAt }

func (t *Topic) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("topic ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("topic ID cannot be zero")
	}
	t.id = id
	return nil
}

// IsRoot reports whether the topic sits at the top of its subject's tree.
func (t *Topic) IsRoot() bool {
	return t.parentID == nil
}

// FreeTierIndex returns the 0-based position of topicID among the active
// root topics of the slice, ordered by topic ID ascending, or -1 when the
// topic is not an active root topic. The ordering is deliberately keyed
// on the immutable ID, not sortOrder: reordering the curriculum for
// display must never change which topics the free tier unlocks.
func FreeTierIndex(topics []*Topic, topicID uint) int {
	roots := make([]*Topic, 0, len(topics))
	for _, t := range topics {
		if t.IsRoot() && t.IsActive() {
			roots = append(roots, t)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].id < roots[j].id })

	for i, t := range roots {
		if t.id == topicID {
			return i
		}
	}
	return -1
}
