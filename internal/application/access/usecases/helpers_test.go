package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"prepwise/internal/domain/subscription"
	"prepwise/internal/infrastructure/cache"
	"prepwise/internal/shared/config"
	"prepwise/internal/shared/logger"
)

type nopLogger struct{}

func (nopLogger) Debugw(msg string, keysAndValues ...any) {}
func (nopLogger) Infow(msg string, keysAndValues ...any)  {}
func (nopLogger) Warnw(msg string, keysAndValues ...any)  {}
func (nopLogger) Errorw(msg string, keysAndValues ...any) {}
func (nopLogger) Fatalw(msg string, keysAndValues ...any) {}
func (l nopLogger) With(args ...any) logger.Interface     { return l }
func (l nopLogger) Named(name string) logger.Interface    { return l }

// memStore is an in-memory cache.Store that records deletions so tests
// can assert invalidation happened.
type memStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	tracked map[string][]string
	deleted []string
}

func newMemStore() *memStore {
	return &memStore{
		data:    make(map[string][]byte),
		tracked: make(map[string][]string),
	}
}

func (s *memStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.data[key]
	return value, ok, nil
}

func (s *memStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStore) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
		s.deleted = append(s.deleted, key)
	}
	return nil
}

func (s *memStore) TrackKey(ctx context.Context, ownerID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracked[ownerID] = append(s.tracked[ownerID], key)
	return nil
}

func (s *memStore) InvalidateOwner(ctx context.Context, ownerID string) error {
	s.mu.Lock()
	keys := s.tracked[ownerID]
	delete(s.tracked, ownerID)
	s.mu.Unlock()
	return s.Delete(ctx, keys...)
}

func (s *memStore) deletedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

type mockSubscriptionRepo struct {
	mock.Mock
}

func (m *mockSubscriptionRepo) GetEntitledByUserID(ctx context.Context, userID string) (*subscription.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepo) Create(ctx context.Context, sub *subscription.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *mockSubscriptionRepo) IncrementTestsTaken(ctx context.Context, userID string, now time.Time) (bool, error) {
	args := m.Called(ctx, userID, now)
	return args.Bool(0), args.Error(1)
}

type mockPlanRepo struct {
	mock.Mock
}

func (m *mockPlanRepo) GetByID(ctx context.Context, planID uint) (*subscription.Plan, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Plan), args.Error(1)
}

func (m *mockPlanRepo) GetByCode(ctx context.Context, code subscription.PlanCode) (*subscription.Plan, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Plan), args.Error(1)
}

func (m *mockPlanRepo) GetActivePublic(ctx context.Context) ([]*subscription.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscription.Plan), args.Error(1)
}

func (m *mockPlanRepo) Create(ctx context.Context, plan *subscription.Plan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func testQuota() config.QuotaConfig {
	return config.QuotaConfig{
		FreeDailyTestLimit:      3,
		FreeMaxTopicsPerSubject: 2,
		SubscriptionTTLSeconds:  120,
		ReferenceTTLSeconds:     3600,
		MasteryTTLSeconds:       300,
	}
}

// testReader keeps retry delays out of unit tests.
func testReader(store cache.Store) *cache.FallbackReader {
	return cache.NewFallbackReader(store, nopLogger{}, cache.Options{
		Retries:         1,
		Backoff:         []time.Duration{time.Millisecond},
		SupplierTimeout: time.Second,
	})
}

func newTestEntitlements(subRepo subscription.Repository, planRepo subscription.PlanRepository, store cache.Store) *EntitlementService {
	return NewEntitlementService(subRepo, planRepo, testReader(store), testQuota(), time.UTC, nopLogger{})
}

func intPtr(v int) *int { return &v }

func freePlan(t *testing.T) *subscription.Plan {
	t.Helper()
	plan, err := subscription.ReconstructPlan(1, "plan_free", subscription.PlanCodeFree, "Free", "",
		intPtr(3), intPtr(2), 0, "USD", true, 0, nil, time.Now(), time.Now())
	if err != nil {
		t.Fatalf("failed to build free plan: %v", err)
	}
	return plan
}

func premiumPlan(t *testing.T) *subscription.Plan {
	t.Helper()
	plan, err := subscription.ReconstructPlan(2, "plan_premium", subscription.PlanCodePremium, "Premium", "",
		nil, nil, 1999, "USD", true, 1, nil, time.Now(), time.Now())
	if err != nil {
		t.Fatalf("failed to build premium plan: %v", err)
	}
	return plan
}

func activeSubscription(t *testing.T, planID uint, usedToday int, usageResetAt time.Time) *subscription.Subscription {
	t.Helper()
	now := time.Now()
	sub, err := subscription.ReconstructSubscription(10, "sub_x", "user_1", planID, subscription.StatusActive,
		now.AddDate(0, -1, 0), now.AddDate(0, 1, 0), usedToday, int64(usedToday),
		usageResetAt, nil, nil, now, now)
	if err != nil {
		t.Fatalf("failed to build subscription: %v", err)
	}
	return sub
}
