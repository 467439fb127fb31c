package catalog

import (
	"testing"
	"time"
)

func uintPtr(v uint) *uint { return &v }

func mustTopic(t *testing.T, id, subjectID uint, parentID *uint, active bool, sortOrder int) *Topic {
	t.Helper()
	topic, err := ReconstructTopic(id, "top_x", subjectID, parentID, "Topic", active, sortOrder,
		time.Now(), time.Now())
	if err != nil {
		t.Fatalf("ReconstructTopic() unexpected error = %v", err)
	}
	return topic
}

func TestFreeTierIndex(t *testing.T) {
	// Deliberately out of insertion order and with sortOrder values that
	// disagree with ID order: the index must follow ID ascending.
	topics := []*Topic{
		mustTopic(t, 30, 1, nil, true, 0),
		mustTopic(t, 10, 1, nil, true, 5),
		mustTopic(t, 20, 1, nil, true, 2),
		mustTopic(t, 15, 1, uintPtr(10), true, 1), // child, never counted
		mustTopic(t, 25, 1, nil, false, 3),        // inactive root, never counted
	}

	tests := []struct {
		name    string
		topicID uint
		want    int
	}{
		{name: "lowest id is index 0", topicID: 10, want: 0},
		{name: "second lowest id", topicID: 20, want: 1},
		{name: "highest id", topicID: 30, want: 2},
		{name: "child topic not indexed", topicID: 15, want: -1},
		{name: "inactive root not indexed", topicID: 25, want: -1},
		{name: "unknown topic", topicID: 99, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FreeTierIndex(topics, tt.topicID)
			if got != tt.want {
				t.Errorf("FreeTierIndex(%d) = %d, want %d", tt.topicID, got, tt.want)
			}
		})
	}
}

func TestFreeTierIndex_Empty(t *testing.T) {
	if got := FreeTierIndex(nil, 1); got != -1 {
		t.Errorf("FreeTierIndex(nil) = %d, want -1", got)
	}
}

func TestTopicIsRoot(t *testing.T) {
	root := mustTopic(t, 1, 1, nil, true, 0)
	child := mustTopic(t, 2, 1, uintPtr(1), true, 0)

	if !root.IsRoot() {
		t.Errorf("root.IsRoot() = false, want true")
	}
	if child.IsRoot() {
		t.Errorf("child.IsRoot() = true, want false")
	}
}
