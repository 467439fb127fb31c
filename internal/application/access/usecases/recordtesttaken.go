package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"prepwise/internal/application/access/dto"
	"prepwise/internal/domain/subscription"
	"prepwise/internal/infrastructure/cache"
	"prepwise/internal/shared/errors"
	"prepwise/internal/shared/logger"
)

// freeTierPeriodYears bounds the synthetic billing period of implicit
// free-tier rows created on first consumption.
const freeTierPeriodYears = 100

// RecordTestTakenUseCase consumes one daily test. This is the one
// mutation in the gating path and it fails closed: when entitlements
// cannot be established authoritatively the test is refused rather than
// given away. The counter increment happens at the store in a single
// statement, so concurrent starts never lose an update.
type RecordTestTakenUseCase struct {
	ents     *EntitlementService
	subRepo  subscription.Repository
	planRepo subscription.PlanRepository
	reader   *cache.FallbackReader
	logger   logger.Interface
}

func NewRecordTestTakenUseCase(
	ents *EntitlementService,
	subRepo subscription.Repository,
	planRepo subscription.PlanRepository,
	reader *cache.FallbackReader,
	logger logger.Interface,
) *RecordTestTakenUseCase {
	return &RecordTestTakenUseCase{
		ents:     ents,
		subRepo:  subRepo,
		planRepo: planRepo,
		reader:   reader,
		logger:   logger,
	}
}

func (uc *RecordTestTakenUseCase) Execute(ctx context.Context, userID string) (*dto.RecordTestResult, error) {
	if userID == "" {
		return nil, errors.NewValidationError("user ID is required")
	}

	now := time.Now()

	result, err := uc.ents.Snapshot(ctx, userID)
	if err != nil {
		var unavailable *cache.BackendUnavailableError
		if stderrors.As(err, &unavailable) {
			uc.logger.Errorw("refusing test, entitlements unavailable", "user_id", userID, "error", err)
			return nil, errors.NewUnavailableError("unable to verify your test limit, please try again")
		}
		return nil, fmt.Errorf("failed to load entitlement snapshot: %w", err)
	}

	status := uc.ents.LimitStatusFrom(result.Data, now)
	if !status.CanTake {
		return nil, errors.NewForbiddenError(subscription.ReasonDailyLimitReached)
	}

	updated, err := uc.subRepo.IncrementTestsTaken(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to record test: %w", err)
	}
	if !updated {
		// Implicit free tier: materialize the row on first consumption,
		// then retry the same atomic increment.
		if err := uc.createFreeSubscription(ctx, userID, now); err != nil {
			return nil, err
		}
		updated, err = uc.subRepo.IncrementTestsTaken(ctx, userID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to record test: %w", err)
		}
		if !updated {
			return nil, errors.NewInternalError("failed to record test for new subscription")
		}
	}

	uc.invalidate(ctx, userID)

	after := subscription.ComputeLimitStatus(result.Data.DailyTestLimit, status.UsedToday+1)

	uc.logger.Infow("test recorded", "user_id", userID, "used_today", after.UsedToday)
	return &dto.RecordTestResult{Status: after}, nil
}

func (uc *RecordTestTakenUseCase) createFreeSubscription(ctx context.Context, userID string, now time.Time) error {
	plan, err := uc.planRepo.GetByCode(ctx, subscription.PlanCodeFree)
	if err != nil {
		return fmt.Errorf("failed to load free plan: %w", err)
	}
	if plan == nil {
		return errors.NewInternalError("free plan is not provisioned")
	}

	sub, err := subscription.NewSubscription(userID, plan.ID(), subscription.StatusActive,
		now, now.AddDate(freeTierPeriodYears, 0, 0))
	if err != nil {
		return fmt.Errorf("failed to build free subscription: %w", err)
	}
	if err := uc.subRepo.Create(ctx, sub); err != nil {
		return fmt.Errorf("failed to create free subscription: %w", err)
	}
	return nil
}

// invalidate drops the user's cached reads after the counter moved.
// Cache failure here is logged and swallowed: the store already holds
// the truth and the snapshot TTL bounds the staleness window.
func (uc *RecordTestTakenUseCase) invalidate(ctx context.Context, userID string) {
	store := uc.reader.Store()

	if err := store.Delete(ctx, dto.SubscriptionKey(userID)); err != nil {
		uc.logger.Warnw("failed to invalidate subscription snapshot", "user_id", userID, "error", err)
	}
	if err := store.InvalidateOwner(ctx, userID); err != nil {
		uc.logger.Warnw("failed to invalidate tracked keys", "user_id", userID, "error", err)
	}
}
