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

type TopicRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewTopicRepository(db *gorm.DB, logger logger.Interface) catalog.TopicRepository {
	return &TopicRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *TopicRepositoryImpl) Create(ctx context.Context, topic *catalog.Topic) error {
	model := r.toModel(topic)
	if model.SID == "" {
		model.SID = id.MustGenerateWithPrefix(id.PrefixTopic, id.DefaultLength)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create topic", "error", err, "name", topic.Name())
		return fmt.Errorf("failed to create topic: %w", err)
	}

	if err := topic.SetID(model.ID); err != nil {
		return err
	}

	r.logger.Infow("topic created", "topic_id", model.ID, "subject_id", topic.SubjectID())
	return nil
}

// GetRootActiveBySubjectID returns active root topics ordered by id
// ascending. Free-tier gating counts positions in this exact order, so
// the ORDER BY clause is load-bearing.
func (r *TopicRepositoryImpl) GetRootActiveBySubjectID(ctx context.Context, subjectID uint) ([]*catalog.Topic, error) {
	var topicModels []*models.TopicModel
	if err := r.db.WithContext(ctx).
		Where("subject_id = ? AND parent_id IS NULL AND is_active = ?", subjectID, true).
		Order("id ASC").
		Find(&topicModels).Error; err != nil {
		r.logger.Errorw("failed to list root topics", "error", err, "subject_id", subjectID)
		return nil, fmt.Errorf("failed to list root topics: %w", err)
	}

	return r.toEntities(topicModels)
}

func (r *TopicRepositoryImpl) GetActiveBySubjectID(ctx context.Context, subjectID uint) ([]*catalog.Topic, error) {
	var topicModels []*models.TopicModel
	if err := r.db.WithContext(ctx).
		Where("subject_id = ? AND is_active = ?", subjectID, true).
		Order("id ASC").
		Find(&topicModels).Error; err != nil {
		r.logger.Errorw("failed to list topics", "error", err, "subject_id", subjectID)
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}

	return r.toEntities(topicModels)
}

func (r *TopicRepositoryImpl) GetBySID(ctx context.Context, sid string) (*catalog.Topic, error) {
	var model models.TopicModel
	if err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get topic by SID", "error", err, "sid", sid)
		return nil, fmt.Errorf("failed to get topic by SID: %w", err)
	}

	return r.toEntity(&model)
}

func (r *TopicRepositoryImpl) toModel(topic *catalog.Topic) *models.TopicModel {
	return &models.TopicModel{
		ID:        topic.ID(),
		SID:       topic.SID(),
		SubjectID: topic.SubjectID(),
		ParentID:  topic.ParentID(),
		Name:      topic.Name(),
		IsActive:  topic.IsActive(),
		SortOrder: topic.SortOrder(),
		CreatedAt: topic.CreatedAt(),
		UpdatedAt: topic.UpdatedAt(),
	}
}

func (r *TopicRepositoryImpl) toEntity(model *models.TopicModel) (*catalog.Topic, error) {
	return catalog.ReconstructTopic(
		model.ID,
		model.SID,
		model.SubjectID,
		model.ParentID,
		model.Name,
		model.IsActive,
		model.SortOrder,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (r *TopicRepositoryImpl) toEntities(topicModels []*models.TopicModel) ([]*catalog.Topic, error) {
	topics := make([]*catalog.Topic, 0, len(topicModels))
	for _, model := range topicModels {
		topic, err := r.toEntity(model)
		if err != nil {
			return nil, err
		}
		topics = append(topics, topic)
	}
	return topics, nil
}
