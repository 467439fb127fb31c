package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"prepwise/internal/domain/subscription"
	"prepwise/internal/infrastructure/persistence/models"
	"prepwise/internal/shared/biztime"
	"prepwise/internal/shared/id"
	"prepwise/internal/shared/logger"
)

var entitledStatuses = []string{
	string(subscription.StatusActive),
	string(subscription.StatusTrialing),
}

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	loc    *time.Location
	logger logger.Interface
}

func NewSubscriptionRepository(db *gorm.DB, loc *time.Location, logger logger.Interface) subscription.Repository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		loc:    loc,
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, sub *subscription.Subscription) error {
	model := r.toModel(sub)
	if model.SID == "" {
		model.SID = id.MustGenerateWithPrefix(id.PrefixSubscription, id.DefaultLength)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription", "error", err, "user_id", sub.UserID())
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := sub.SetID(model.ID); err != nil {
		return err
	}

	r.logger.Infow("subscription created", "subscription_id", model.ID, "user_id", sub.UserID())
	return nil
}

func (r *SubscriptionRepositoryImpl) GetEntitledByUserID(ctx context.Context, userID string) (*subscription.Subscription, error) {
	now := time.Now().UTC()

	var model models.UserSubscriptionModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, entitledStatuses).
		Where("current_period_start <= ? AND current_period_end > ?", now, now).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get entitled subscription", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to get entitled subscription: %w", err)
	}

	return r.toEntity(&model)
}

// IncrementTestsTaken bumps the usage counters in a single UPDATE so two
// concurrent test starts for one user cannot lose an increment. The daily
// reset is folded into the same statement: a counter last reset before
// the start of the current business day restarts at 1.
func (r *SubscriptionRepositoryImpl) IncrementTestsTaken(ctx context.Context, userID string, now time.Time) (bool, error) {
	nowUTC := now.UTC()
	dayStart := biztime.StartOfDayUTCIn(now, r.loc)

	result := r.db.WithContext(ctx).Model(&models.UserSubscriptionModel{}).
		Where("user_id = ? AND status IN ?", userID, entitledStatuses).
		Where("current_period_start <= ? AND current_period_end > ?", nowUTC, nowUTC).
		Updates(map[string]interface{}{
			"tests_used_today": gorm.Expr(
				"CASE WHEN usage_reset_at >= ? THEN tests_used_today + 1 ELSE 1 END", dayStart),
			"usage_reset_at": gorm.Expr(
				"CASE WHEN usage_reset_at >= ? THEN usage_reset_at ELSE ? END", dayStart, nowUTC),
			"tests_used_total": gorm.Expr("tests_used_total + 1"),
			"updated_at":       nowUTC,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to increment tests taken", "error", result.Error, "user_id", userID)
		return false, fmt.Errorf("failed to increment tests taken: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *SubscriptionRepositoryImpl) toModel(sub *subscription.Subscription) *models.UserSubscriptionModel {
	return &models.UserSubscriptionModel{
		ID:                 sub.ID(),
		SID:                sub.SID(),
		UserID:             sub.UserID(),
		PlanID:             sub.PlanID(),
		Status:             string(sub.Status()),
		CurrentPeriodStart: sub.CurrentPeriodStart(),
		CurrentPeriodEnd:   sub.CurrentPeriodEnd(),
		TestsUsedToday:     sub.TestsUsedToday(),
		TestsUsedTotal:     sub.TestsUsedTotal(),
		UsageResetAt:       sub.UsageResetAt(),
		BillingCustomerID:  sub.BillingCustomerID(),
		BillingSubID:       sub.BillingSubscriptionID(),
		CreatedAt:          sub.CreatedAt(),
		UpdatedAt:          sub.UpdatedAt(),
	}
}

func (r *SubscriptionRepositoryImpl) toEntity(model *models.UserSubscriptionModel) (*subscription.Subscription, error) {
	return subscription.ReconstructSubscription(
		model.ID,
		model.SID,
		model.UserID,
		model.PlanID,
		subscription.Status(model.Status),
		model.CurrentPeriodStart,
		model.CurrentPeriodEnd,
		model.TestsUsedToday,
		model.TestsUsedTotal,
		model.UsageResetAt,
		model.BillingCustomerID,
		model.BillingSubID,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
