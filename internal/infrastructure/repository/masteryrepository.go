package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"prepwise/internal/domain/catalog"
	"prepwise/internal/infrastructure/persistence/models"
	"prepwise/internal/shared/logger"
)

type MasteryRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewMasteryRepository(db *gorm.DB, logger logger.Interface) catalog.MasteryRepository {
	return &MasteryRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *MasteryRepositoryImpl) GetByUserAndSubject(ctx context.Context, userID string, subjectID uint) (*catalog.SubjectMastery, error) {
	var model models.SubjectMasteryModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND subject_id = ?", userID, subjectID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get subject mastery", "error", err, "user_id", userID, "subject_id", subjectID)
		return nil, fmt.Errorf("failed to get subject mastery: %w", err)
	}

	return catalog.ReconstructSubjectMastery(
		model.ID,
		model.UserID,
		model.SubjectID,
		model.MasteryPercent,
		model.TestsTaken,
		model.QuestionsSeen,
		model.CorrectAnswers,
		model.LastActivityAt,
		model.UpdatedAt,
	)
}
