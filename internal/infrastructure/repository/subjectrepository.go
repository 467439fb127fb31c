package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"prepwise/internal/domain/catalog"
	"prepwise/internal/infrastructure/persistence/models"
	"prepwise/internal/shared/id"
	"prepwise/internal/shared/logger"
)

type SubjectRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewSubjectRepository(db *gorm.DB, logger logger.Interface) catalog.SubjectRepository {
	return &SubjectRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *SubjectRepositoryImpl) Create(ctx context.Context, subject *catalog.Subject) error {
	model := r.toModel(subject)
	if model.SID == "" {
		model.SID = id.MustGenerateWithPrefix(id.PrefixSubject, id.DefaultLength)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subject", "error", err, "name", subject.Name())
		return fmt.Errorf("failed to create subject: %w", err)
	}

	if err := subject.SetID(model.ID); err != nil {
		return err
	}

	r.logger.Infow("subject created", "subject_id", model.ID, "name", subject.Name())
	return nil
}

func (r *SubjectRepositoryImpl) GetActive(ctx context.Context) ([]*catalog.Subject, error) {
	var subjectModels []*models.SubjectModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, id ASC").
		Find(&subjectModels).Error; err != nil {
		r.logger.Errorw("failed to list active subjects", "error", err)
		return nil, fmt.Errorf("failed to list active subjects: %w", err)
	}

	subjects := make([]*catalog.Subject, 0, len(subjectModels))
	for _, model := range subjectModels {
		subject, err := r.toEntity(model)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}
	return subjects, nil
}

func (r *SubjectRepositoryImpl) GetBySID(ctx context.Context, sid string) (*catalog.Subject, error) {
	var model models.SubjectModel
	if err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get subject by SID", "error", err, "sid", sid)
		return nil, fmt.Errorf("failed to get subject by SID: %w", err)
	}

	return r.toEntity(&model)
}

func (r *SubjectRepositoryImpl) toModel(subject *catalog.Subject) *models.SubjectModel {
	return &models.SubjectModel{
		ID:          subject.ID(),
		SID:         subject.SID(),
		Name:        subject.Name(),
		Description: subject.Description(),
		IconURL:     subject.IconURL(),
		IsActive:    subject.IsActive(),
		SortOrder:   subject.SortOrder(),
		CreatedAt:   subject.CreatedAt(),
		UpdatedAt:   subject.UpdatedAt(),
	}
}

func (r *SubjectRepositoryImpl) toEntity(model *models.SubjectModel) (*catalog.Subject, error) {
	return catalog.ReconstructSubject(
		model.ID,
		model.SID,
		model.Name,
		model.Description,
		model.IconURL,
		model.IsActive,
		model.SortOrder,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
