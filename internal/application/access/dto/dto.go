package dto

import (
	"fmt"
	"time"

	"prepwise/internal/domain/subscription"
)

// SubscriptionKey is the cache key for a user's entitlement snapshot.
// Mutation paths delete exactly this key, so every reader and writer must
// build it here.
func SubscriptionKey(userID string) string {
	return fmt.Sprintf("user:%s:subscription", userID)
}

// RootTopicsKey caches the ordered root-topic list of a subject.
func RootTopicsKey(subjectID uint) string {
	return fmt.Sprintf("subject:%d:topics", subjectID)
}

// TopicKey caches a single topic resolved by its public identifier.
func TopicKey(topicSID string) string {
	return fmt.Sprintf("topic:%s", topicSID)
}

// MasteryKey caches a user's mastery aggregate for one subject.
func MasteryKey(userID string, subjectID uint) string {
	return fmt.Sprintf("user:%s:mastery:%d", userID, subjectID)
}

// SubscriptionSnapshot is the cached projection of a user's entitlement:
// the plan limits plus the raw usage counters. The daily reset rule is
// applied when the snapshot is read, never when it is written, so a
// snapshot cached before business midnight stays correct after it.
type SubscriptionSnapshot struct {
	HasSubscription     bool      `json:"has_subscription"`
	PlanCode            string    `json:"plan_code"`
	PlanName            string    `json:"plan_name"`
	DailyTestLimit      *int      `json:"daily_test_limit"`
	MaxTopicsPerSubject *int      `json:"max_topics_per_subject"`
	Status              string    `json:"status"`
	TestsUsedToday      int       `json:"tests_used_today"`
	UsageResetAt        time.Time `json:"usage_reset_at"`
	PeriodEnd           time.Time `json:"period_end"`
}

// TopicRef is the cached projection of a topic used for access checks.
type TopicRef struct {
	ID        uint   `json:"id"`
	SID       string `json:"sid"`
	SubjectID uint   `json:"subject_id"`
	ParentID  *uint  `json:"parent_id"`
	Name      string `json:"name"`
}

// LimitStatusResult pairs a limit status with its read provenance.
// Degraded marks a free-tier answer served because the backend was
// unreachable; consumption paths must never trust a degraded result.
type LimitStatusResult struct {
	Status   subscription.LimitStatus `json:"status"`
	Source   string                   `json:"source"`
	Warning  string                   `json:"warning,omitempty"`
	Degraded bool                     `json:"degraded,omitempty"`
}

// TopicAccessResult reports whether a topic is visible to a user.
type TopicAccessResult struct {
	Allowed  bool   `json:"allowed"`
	TopicSID string `json:"topic_sid"`
	Degraded bool   `json:"degraded,omitempty"`
}

// RecordTestResult returns the limit status after a test was recorded.
type RecordTestResult struct {
	Status subscription.LimitStatus `json:"status"`
}
