package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"prepwise/internal/domain/subscription"
	"prepwise/internal/infrastructure/persistence/models"
	"prepwise/internal/shared/id"
	"prepwise/internal/shared/logger"
)

type PlanRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPlanRepository(db *gorm.DB, logger logger.Interface) subscription.PlanRepository {
	return &PlanRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *PlanRepositoryImpl) Create(ctx context.Context, plan *subscription.Plan) error {
	model, err := r.toModel(plan)
	if err != nil {
		r.logger.Errorw("failed to convert plan to model", "error", err)
		return fmt.Errorf("failed to convert plan to model: %w", err)
	}
	if model.SID == "" {
		model.SID = id.MustGenerateWithPrefix(id.PrefixPlan, id.DefaultLength)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create plan", "error", err, "code", plan.Code())
		return fmt.Errorf("failed to create plan: %w", err)
	}

	if err := plan.SetID(model.ID); err != nil {
		return err
	}

	r.logger.Infow("plan created", "plan_id", model.ID, "code", plan.Code())
	return nil
}

func (r *PlanRepositoryImpl) GetByID(ctx context.Context, planID uint) (*subscription.Plan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).First(&model, planID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan by ID", "error", err, "plan_id", planID)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return r.toEntity(&model)
}

func (r *PlanRepositoryImpl) GetByCode(ctx context.Context, code subscription.PlanCode) (*subscription.Plan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).Where("code = ?", string(code)).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan by code", "error", err, "code", code)
		return nil, fmt.Errorf("failed to get plan by code: %w", err)
	}

	return r.toEntity(&model)
}

func (r *PlanRepositoryImpl) GetActivePublic(ctx context.Context) ([]*subscription.Plan, error) {
	var planModels []*models.PlanModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, id ASC").
		Find(&planModels).Error; err != nil {
		r.logger.Errorw("failed to list active plans", "error", err)
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}

	plans := make([]*subscription.Plan, 0, len(planModels))
	for _, model := range planModels {
		plan, err := r.toEntity(model)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

func (r *PlanRepositoryImpl) toModel(plan *subscription.Plan) (*models.PlanModel, error) {
	var metadata []byte
	if len(plan.Metadata()) > 0 {
		data, err := json.Marshal(plan.Metadata())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal plan metadata: %w", err)
		}
		metadata = data
	}

	return &models.PlanModel{
		ID:                  plan.ID(),
		SID:                 plan.SID(),
		Code:                string(plan.Code()),
		Name:                plan.Name(),
		Description:         plan.Description(),
		DailyTestLimit:      plan.DailyTestLimit(),
		MaxTopicsPerSubject: plan.MaxTopicsPerSubject(),
		Price:               plan.Price(),
		Currency:            plan.Currency(),
		IsActive:            plan.IsActive(),
		SortOrder:           plan.SortOrder(),
		Metadata:            metadata,
		CreatedAt:           plan.CreatedAt(),
		UpdatedAt:           plan.UpdatedAt(),
	}, nil
}

func (r *PlanRepositoryImpl) toEntity(model *models.PlanModel) (*subscription.Plan, error) {
	var metadata map[string]any
	if len(model.Metadata) > 0 {
		if err := json.Unmarshal(model.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan metadata: %w", err)
		}
	}

	return subscription.ReconstructPlan(
		model.ID,
		model.SID,
		subscription.PlanCode(model.Code),
		model.Name,
		model.Description,
		model.DailyTestLimit,
		model.MaxTopicsPerSubject,
		model.Price,
		model.Currency,
		model.IsActive,
		model.SortOrder,
		metadata,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
