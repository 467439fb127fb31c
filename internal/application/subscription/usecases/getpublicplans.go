package usecases

import (
	"context"
	"fmt"
	"time"

	"prepwise/internal/application/subscription/dto"
	"prepwise/internal/domain/subscription"
	"prepwise/internal/infrastructure/cache"
	"prepwise/internal/shared/config"
	"prepwise/internal/shared/logger"
)

const plansCacheKey = "plans:active"

// GetPublicPlansUseCase returns the purchasable plan catalog, cache-first.
type GetPublicPlansUseCase struct {
	planRepo subscription.PlanRepository
	reader   *cache.FallbackReader
	quota    config.QuotaConfig
	logger   logger.Interface
}

func NewGetPublicPlansUseCase(
	planRepo subscription.PlanRepository,
	reader *cache.FallbackReader,
	quota config.QuotaConfig,
	logger logger.Interface,
) *GetPublicPlansUseCase {
	return &GetPublicPlansUseCase{
		planRepo: planRepo,
		reader:   reader,
		quota:    quota,
		logger:   logger,
	}
}

func (uc *GetPublicPlansUseCase) Execute(ctx context.Context) (cache.Result[[]dto.PlanDTO], error) {
	ttl := time.Duration(uc.quota.ReferenceTTLSeconds) * time.Second

	result, err := cache.Read(ctx, uc.reader, plansCacheKey, ttl, func(ctx context.Context) ([]dto.PlanDTO, error) {
		plans, err := uc.planRepo.GetActivePublic(ctx)
		if err != nil {
			return nil, err
		}
		dtos := make([]dto.PlanDTO, 0, len(plans))
		for _, plan := range plans {
			dtos = append(dtos, dto.ToPlanDTO(plan))
		}
		return dtos, nil
	}, nil)
	if err != nil {
		return result, fmt.Errorf("failed to list plans: %w", err)
	}
	return result, nil
}
