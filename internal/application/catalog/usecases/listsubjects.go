package usecases

import (
	"context"
	"fmt"
	"time"

	"prepwise/internal/application/catalog/dto"
	"prepwise/internal/domain/catalog"
	"prepwise/internal/infrastructure/cache"
	"prepwise/internal/shared/config"
	"prepwise/internal/shared/logger"
)

const subjectsCacheKey = "subjects:active"

// ListSubjectsUseCase returns the active subject catalog, cache-first.
type ListSubjectsUseCase struct {
	subjectRepo catalog.SubjectRepository
	reader      *cache.FallbackReader
	quota       config.QuotaConfig
	logger      logger.Interface
}

func NewListSubjectsUseCase(
	subjectRepo catalog.SubjectRepository,
	reader *cache.FallbackReader,
	quota config.QuotaConfig,
	logger logger.Interface,
) *ListSubjectsUseCase {
	return &ListSubjectsUseCase{
		subjectRepo: subjectRepo,
		reader:      reader,
		quota:       quota,
		logger:      logger,
	}
}

func (uc *ListSubjectsUseCase) Execute(ctx context.Context) (cache.Result[[]dto.SubjectDTO], error) {
	ttl := time.Duration(uc.quota.ReferenceTTLSeconds) * time.Second

	result, err := cache.Read(ctx, uc.reader, subjectsCacheKey, ttl, func(ctx context.Context) ([]dto.SubjectDTO, error) {
		subjects, err := uc.subjectRepo.GetActive(ctx)
		if err != nil {
			return nil, err
		}
		dtos := make([]dto.SubjectDTO, 0, len(subjects))
		for _, subject := range subjects {
			dtos = append(dtos, dto.ToSubjectDTO(subject))
		}
		return dtos, nil
	}, nil)
	if err != nil {
		return result, fmt.Errorf("failed to list subjects: %w", err)
	}
	return result, nil
}
