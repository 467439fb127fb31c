package usecases

import (
	"context"
	"fmt"
	"time"

	accessdto "prepwise/internal/application/access/dto"
	"prepwise/internal/application/catalog/dto"
	"prepwise/internal/domain/catalog"
	"prepwise/internal/infrastructure/cache"
	"prepwise/internal/shared/config"
	"prepwise/internal/shared/errors"
	"prepwise/internal/shared/logger"
)

// GetMasteryUseCase returns a user's mastery aggregate for one subject,
// cache-first. The key is tracked per user so recording a test drops it
// along with the entitlement snapshot.
type GetMasteryUseCase struct {
	subjectRepo catalog.SubjectRepository
	masteryRepo catalog.MasteryRepository
	reader      *cache.FallbackReader
	quota       config.QuotaConfig
	logger      logger.Interface
}

func NewGetMasteryUseCase(
	subjectRepo catalog.SubjectRepository,
	masteryRepo catalog.MasteryRepository,
	reader *cache.FallbackReader,
	quota config.QuotaConfig,
	logger logger.Interface,
) *GetMasteryUseCase {
	return &GetMasteryUseCase{
		subjectRepo: subjectRepo,
		masteryRepo: masteryRepo,
		reader:      reader,
		quota:       quota,
		logger:      logger,
	}
}

func (uc *GetMasteryUseCase) Execute(ctx context.Context, userID, subjectSID string) (cache.Result[dto.MasteryDTO], error) {
	var zero cache.Result[dto.MasteryDTO]

	if userID == "" {
		return zero, errors.NewValidationError("user ID is required")
	}
	if subjectSID == "" {
		return zero, errors.NewValidationError("subject SID is required")
	}

	subject, err := uc.subjectRepo.GetBySID(ctx, subjectSID)
	if err != nil {
		return zero, fmt.Errorf("failed to resolve subject %s: %w", subjectSID, err)
	}
	if subject == nil {
		return zero, errors.NewNotFoundError("subject not found", subjectSID)
	}

	key := accessdto.MasteryKey(userID, subject.ID())
	ttl := time.Duration(uc.quota.MasteryTTLSeconds) * time.Second

	result, err := cache.Read(ctx, uc.reader, key, ttl, func(ctx context.Context) (dto.MasteryDTO, error) {
		mastery, err := uc.masteryRepo.GetByUserAndSubject(ctx, userID, subject.ID())
		if err != nil {
			return dto.MasteryDTO{}, err
		}
		if mastery == nil {
			// No activity yet: an all-zero aggregate, not an error.
			return dto.MasteryDTO{SubjectSID: subjectSID}, nil
		}
		return dto.MasteryDTO{
			SubjectSID:     subjectSID,
			MasteryPercent: mastery.MasteryPercent(),
			TestsTaken:     mastery.TestsTaken(),
			QuestionsSeen:  mastery.QuestionsSeen(),
			CorrectAnswers: mastery.CorrectAnswers(),
			LastActivityAt: mastery.LastActivityAt(),
		}, nil
	}, nil)
	if err != nil {
		return result, fmt.Errorf("failed to load mastery for subject %s: %w", subjectSID, err)
	}

	if result.Source == cache.SourceDatabase {
		if err := uc.reader.Store().TrackKey(ctx, userID, key); err != nil {
			uc.logger.Warnw("failed to track cache key", "user_id", userID, "key", key, "error", err)
		}
	}
	return result, nil
}
