package usecases

import (
	"context"
	"fmt"
	"time"

	"prepwise/internal/application/access/dto"
	"prepwise/internal/domain/subscription"
	"prepwise/internal/infrastructure/cache"
	"prepwise/internal/shared/config"
	"prepwise/internal/shared/logger"
)

// EntitlementService loads the cached entitlement snapshot every access
// decision starts from. A user without a subscription row is on the
// implicit free tier; the free plan row is authoritative for its limits,
// with config defaults as the last resort when even that row is missing.
type EntitlementService struct {
	subRepo  subscription.Repository
	planRepo subscription.PlanRepository
	reader   *cache.FallbackReader
	quota    config.QuotaConfig
	loc      *time.Location
	logger   logger.Interface
}

func NewEntitlementService(
	subRepo subscription.Repository,
	planRepo subscription.PlanRepository,
	reader *cache.FallbackReader,
	quota config.QuotaConfig,
	loc *time.Location,
	logger logger.Interface,
) *EntitlementService {
	return &EntitlementService{
		subRepo:  subRepo,
		planRepo: planRepo,
		reader:   reader,
		quota:    quota,
		loc:      loc,
		logger:   logger,
	}
}

// Snapshot returns the user's entitlement snapshot, cache-first. The key
// is registered against the user so recordTestTaken can invalidate it
// without pattern deletion.
func (s *EntitlementService) Snapshot(ctx context.Context, userID string) (cache.Result[dto.SubscriptionSnapshot], error) {
	key := dto.SubscriptionKey(userID)
	ttl := time.Duration(s.quota.SubscriptionTTLSeconds) * time.Second

	result, err := cache.Read(ctx, s.reader, key, ttl, func(ctx context.Context) (dto.SubscriptionSnapshot, error) {
		return s.loadSnapshot(ctx, userID)
	}, nil)
	if err != nil {
		return result, err
	}

	if result.Source == cache.SourceDatabase {
		if err := s.reader.Store().TrackKey(ctx, userID, key); err != nil {
			s.logger.Warnw("failed to track cache key", "user_id", userID, "key", key, "error", err)
		}
	}
	return result, nil
}

// loadSnapshot is the authoritative read behind Snapshot.
func (s *EntitlementService) loadSnapshot(ctx context.Context, userID string) (dto.SubscriptionSnapshot, error) {
	var zero dto.SubscriptionSnapshot

	sub, err := s.subRepo.GetEntitledByUserID(ctx, userID)
	if err != nil {
		return zero, err
	}
	if sub == nil {
		return s.freeSnapshot(ctx)
	}

	plan, err := s.planRepo.GetByID(ctx, sub.PlanID())
	if err != nil {
		return zero, err
	}
	if plan == nil {
		return zero, fmt.Errorf("subscription %d references missing plan %d", sub.ID(), sub.PlanID())
	}

	return dto.SubscriptionSnapshot{
		HasSubscription:     true,
		PlanCode:            string(plan.Code()),
		PlanName:            plan.Name(),
		DailyTestLimit:      plan.DailyTestLimit(),
		MaxTopicsPerSubject: plan.MaxTopicsPerSubject(),
		Status:              string(sub.Status()),
		TestsUsedToday:      sub.TestsUsedToday(),
		UsageResetAt:        sub.UsageResetAt(),
		PeriodEnd:           sub.CurrentPeriodEnd(),
	}, nil
}

// freeSnapshot builds the implicit free-tier snapshot. The free plan row
// carries the limits; when it was never seeded the config defaults apply.
func (s *EntitlementService) freeSnapshot(ctx context.Context) (dto.SubscriptionSnapshot, error) {
	plan, err := s.planRepo.GetByCode(ctx, subscription.PlanCodeFree)
	if err != nil {
		return dto.SubscriptionSnapshot{}, err
	}
	if plan != nil {
		return dto.SubscriptionSnapshot{
			HasSubscription:     false,
			PlanCode:            string(plan.Code()),
			PlanName:            plan.Name(),
			DailyTestLimit:      plan.DailyTestLimit(),
			MaxTopicsPerSubject: plan.MaxTopicsPerSubject(),
		}, nil
	}

	s.logger.Warnw("free plan row missing, using configured defaults")
	return s.FreeFallbackSnapshot(), nil
}

// FreeFallbackSnapshot is the config-default free tier, also used as the
// degraded answer when the backend is unreachable on read-only paths.
func (s *EntitlementService) FreeFallbackSnapshot() dto.SubscriptionSnapshot {
	dailyLimit := s.quota.FreeDailyTestLimit
	topicCap := s.quota.FreeMaxTopicsPerSubject
	return dto.SubscriptionSnapshot{
		HasSubscription:     false,
		PlanCode:            string(subscription.PlanCodeFree),
		PlanName:            "Free",
		DailyTestLimit:      &dailyLimit,
		MaxTopicsPerSubject: &topicCap,
	}
}

// LimitStatusFrom derives the limit status from a snapshot at a given
// instant, applying the daily reset rule to the raw counter.
func (s *EntitlementService) LimitStatusFrom(snap dto.SubscriptionSnapshot, now time.Time) subscription.LimitStatus {
	usedToday := subscription.EffectiveUsedToday(snap.TestsUsedToday, snap.UsageResetAt, now, s.loc)
	return subscription.ComputeLimitStatus(snap.DailyTestLimit, usedToday)
}

// TopicCap returns the per-subject root-topic visibility cap from a
// snapshot: nil means every topic is visible.
func (s *EntitlementService) TopicCap(snap dto.SubscriptionSnapshot) *int {
	return snap.MaxTopicsPerSubject
}

// Location exposes the business timezone for callers computing "now".
func (s *EntitlementService) Location() *time.Location {
	return s.loc
}
