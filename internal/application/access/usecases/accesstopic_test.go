package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"prepwise/internal/domain/catalog"
	"prepwise/internal/domain/subscription"
	apperrors "prepwise/internal/shared/errors"
)

type mockTopicRepo struct {
	mock.Mock
}

func (m *mockTopicRepo) GetRootActiveBySubjectID(ctx context.Context, subjectID uint) ([]*catalog.Topic, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Topic), args.Error(1)
}

func (m *mockTopicRepo) GetActiveBySubjectID(ctx context.Context, subjectID uint) ([]*catalog.Topic, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Topic), args.Error(1)
}

func (m *mockTopicRepo) GetBySID(ctx context.Context, sid string) (*catalog.Topic, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Topic), args.Error(1)
}

func (m *mockTopicRepo) Create(ctx context.Context, topic *catalog.Topic) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}

func testTopic(t *testing.T, id uint, sid string, subjectID uint, parentID *uint) *catalog.Topic {
	t.Helper()
	topic, err := catalog.ReconstructTopic(id, sid, subjectID, parentID, "Topic", true, 0,
		time.Now(), time.Now())
	if err != nil {
		t.Fatalf("failed to build topic: %v", err)
	}
	return topic
}

func newAccessUseCase(subRepo *mockSubscriptionRepo, planRepo *mockPlanRepo, topicRepo *mockTopicRepo, store *memStore) *CanAccessTopicUseCase {
	reader := testReader(store)
	ents := NewEntitlementService(subRepo, planRepo, reader, testQuota(), time.UTC, nopLogger{})
	return NewCanAccessTopicUseCase(ents, topicRepo, reader, testQuota(), nopLogger{})
}

func freeTierMocks(t *testing.T, subRepo *mockSubscriptionRepo, planRepo *mockPlanRepo) {
	t.Helper()
	subRepo.On("GetEntitledByUserID", mock.Anything, "user_1").Return(nil, nil)
	planRepo.On("GetByCode", mock.Anything, subscription.PlanCodeFree).Return(freePlan(t), nil)
}

func TestCanAccessTopicAtIndex_FreeTierCap(t *testing.T) {
	tests := []struct {
		name       string
		topicIndex int
		want       bool
	}{
		{name: "first root topic", topicIndex: 0, want: true},
		{name: "last unlocked topic", topicIndex: 1, want: true},
		{name: "first locked topic", topicIndex: 2, want: false},
		{name: "deep topic", topicIndex: 9, want: false},
		{name: "not a root topic", topicIndex: -1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subRepo := new(mockSubscriptionRepo)
			planRepo := new(mockPlanRepo)
			freeTierMocks(t, subRepo, planRepo)

			uc := newAccessUseCase(subRepo, planRepo, new(mockTopicRepo), newMemStore())

			allowed, err := uc.ExecuteAtIndex(context.Background(), "user_1", tt.topicIndex)
			require.NoError(t, err)
			assert.Equal(t, tt.want, allowed)
		})
	}
}

func TestCanAccessTopicAtIndex_UnlimitedPlan(t *testing.T) {
	subRepo := new(mockSubscriptionRepo)
	planRepo := new(mockPlanRepo)

	plan := premiumPlan(t)
	sub := activeSubscription(t, plan.ID(), 0, time.Now())
	subRepo.On("GetEntitledByUserID", mock.Anything, "user_1").Return(sub, nil)
	planRepo.On("GetByID", mock.Anything, plan.ID()).Return(plan, nil)

	uc := newAccessUseCase(subRepo, planRepo, new(mockTopicRepo), newMemStore())

	allowed, err := uc.ExecuteAtIndex(context.Background(), "user_1", 50)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestCanAccessTopicAtIndex_BackendDownDegradesToFreeCap(t *testing.T) {
	subRepo := new(mockSubscriptionRepo)
	planRepo := new(mockPlanRepo)

	subRepo.On("GetEntitledByUserID", mock.Anything, "user_1").
		Return(nil, errors.New("connection refused"))

	uc := newAccessUseCase(subRepo, planRepo, new(mockTopicRepo), newMemStore())

	allowed, err := uc.ExecuteAtIndex(context.Background(), "user_1", 1)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = uc.ExecuteAtIndex(context.Background(), "user_1", 2)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestCanAccessTopic_GatesByIDOrder(t *testing.T) {
	subRepo := new(mockSubscriptionRepo)
	planRepo := new(mockPlanRepo)
	topicRepo := new(mockTopicRepo)
	freeTierMocks(t, subRepo, planRepo)

	roots := []*catalog.Topic{
		testTopic(t, 10, "top_a", 1, nil),
		testTopic(t, 20, "top_b", 1, nil),
		testTopic(t, 30, "top_c", 1, nil),
	}
	topicRepo.On("GetBySID", mock.Anything, "top_c").Return(roots[2], nil)
	topicRepo.On("GetRootActiveBySubjectID", mock.Anything, uint(1)).Return(roots, nil)

	uc := newAccessUseCase(subRepo, planRepo, topicRepo, newMemStore())

	result, err := uc.Execute(context.Background(), "user_1", "top_c")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.False(t, result.Degraded)
}

func TestCanAccessTopic_BackendDownMarksDegraded(t *testing.T) {
	subRepo := new(mockSubscriptionRepo)
	planRepo := new(mockPlanRepo)
	topicRepo := new(mockTopicRepo)

	subRepo.On("GetEntitledByUserID", mock.Anything, "user_1").
		Return(nil, errors.New("connection refused"))

	roots := []*catalog.Topic{
		testTopic(t, 10, "top_a", 1, nil),
		testTopic(t, 20, "top_b", 1, nil),
		testTopic(t, 30, "top_c", 1, nil),
	}
	topicRepo.On("GetBySID", mock.Anything, "top_a").Return(roots[0], nil)
	topicRepo.On("GetBySID", mock.Anything, "top_c").Return(roots[2], nil)
	topicRepo.On("GetRootActiveBySubjectID", mock.Anything, uint(1)).Return(roots, nil)

	uc := newAccessUseCase(subRepo, planRepo, topicRepo, newMemStore())

	result, err := uc.Execute(context.Background(), "user_1", "top_a")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.True(t, result.Degraded)

	result, err = uc.Execute(context.Background(), "user_1", "top_c")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.True(t, result.Degraded)
}

func TestCanAccessTopic_ChildInheritsRoot(t *testing.T) {
	subRepo := new(mockSubscriptionRepo)
	planRepo := new(mockPlanRepo)
	topicRepo := new(mockTopicRepo)
	freeTierMocks(t, subRepo, planRepo)

	rootID := uint(10)
	roots := []*catalog.Topic{
		testTopic(t, 10, "top_a", 1, nil),
		testTopic(t, 20, "top_b", 1, nil),
	}
	child := testTopic(t, 40, "top_child", 1, &rootID)

	topicRepo.On("GetBySID", mock.Anything, "top_child").Return(child, nil)
	topicRepo.On("GetRootActiveBySubjectID", mock.Anything, uint(1)).Return(roots, nil)

	uc := newAccessUseCase(subRepo, planRepo, topicRepo, newMemStore())

	result, err := uc.Execute(context.Background(), "user_1", "top_child")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestCanAccessTopic_UnknownTopic(t *testing.T) {
	subRepo := new(mockSubscriptionRepo)
	planRepo := new(mockPlanRepo)
	topicRepo := new(mockTopicRepo)

	topicRepo.On("GetBySID", mock.Anything, "top_missing").Return(nil, nil)

	uc := newAccessUseCase(subRepo, planRepo, topicRepo, newMemStore())

	_, err := uc.Execute(context.Background(), "user_1", "top_missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
	topicRepo.AssertNumberOfCalls(t, "GetBySID", 1)
}
