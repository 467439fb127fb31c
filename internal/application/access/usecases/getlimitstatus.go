package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"prepwise/internal/application/access/dto"
	"prepwise/internal/infrastructure/cache"
	"prepwise/internal/shared/errors"
	"prepwise/internal/shared/logger"
)

// GetLimitStatusUseCase answers "how many practice tests can this user
// still take today". Read-only: when the backend is unreachable and no
// stale snapshot exists it degrades to the configured free tier instead
// of failing, so the UI can always render something.
type GetLimitStatusUseCase struct {
	ents   *EntitlementService
	logger logger.Interface
}

func NewGetLimitStatusUseCase(ents *EntitlementService, logger logger.Interface) *GetLimitStatusUseCase {
	return &GetLimitStatusUseCase{
		ents:   ents,
		logger: logger,
	}
}

func (uc *GetLimitStatusUseCase) Execute(ctx context.Context, userID string) (*dto.LimitStatusResult, error) {
	if userID == "" {
		return nil, errors.NewValidationError("user ID is required")
	}

	now := time.Now()

	result, err := uc.ents.Snapshot(ctx, userID)
	if err != nil {
		var unavailable *cache.BackendUnavailableError
		if stderrors.As(err, &unavailable) {
			uc.logger.Warnw("limit status degraded to free tier", "user_id", userID, "error", err)
			return &dto.LimitStatusResult{
				Status:   uc.ents.LimitStatusFrom(uc.ents.FreeFallbackSnapshot(), now),
				Source:   "defaults",
				Warning:  cache.StaleWarning,
				Degraded: true,
			}, nil
		}
		uc.logger.Errorw("failed to load entitlement snapshot", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to load entitlement snapshot: %w", err)
	}

	return &dto.LimitStatusResult{
		Status:  uc.ents.LimitStatusFrom(result.Data, now),
		Source:  string(result.Source),
		Warning: result.Warning,
	}, nil
}
