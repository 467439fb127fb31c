package catalog

import "context"

// SubjectRepository provides read access to the subject catalog. Lookups
// return (nil, nil) when no row matches.
type SubjectRepository interface {
	GetActive(ctx context.Context) ([]*Subject, error)
	GetBySID(ctx context.Context, sid string) (*Subject, error)
	Create(ctx context.Context, subject *Subject) error
}

// TopicRepository provides read access to topics. GetRootActiveBySubjectID
// returns active root topics ordered by topic ID ascending, the ordering
// free-tier gating depends on.
type TopicRepository interface {
	GetRootActiveBySubjectID(ctx context.Context, subjectID uint) ([]*Topic, error)
	GetActiveBySubjectID(ctx context.Context, subjectID uint) ([]*Topic, error)
	GetBySID(ctx context.Context, sid string) (*Topic, error)
	Create(ctx context.Context, topic *Topic) error
}

// MasteryRepository reads per-user mastery aggregates. A user with no
// activity in a subject has no row; GetByUserAndSubject returns (nil, nil).
type MasteryRepository interface {
	GetByUserAndSubject(ctx context.Context, userID string, subjectID uint) (*SubjectMastery, error)
}
