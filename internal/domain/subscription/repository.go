package subscription

import (
	"context"
	"time"
)

// PlanRepository provides access to subscription plans. Lookups return
// (nil, nil) when no row matches.
type PlanRepository interface {
	GetByID(ctx context.Context, id uint) (*Plan, error)
	GetByCode(ctx context.Context, code PlanCode) (*Plan, error)
	GetActivePublic(ctx context.Context) ([]*Plan, error)
	Create(ctx context.Context, plan *Plan) error
}

// Repository provides access to user subscriptions. A missing row is not
// an error: GetEntitledByUserID returns (nil, nil) and callers fall back
// to the implicit free tier.
type Repository interface {
	GetEntitledByUserID(ctx context.Context, userID string) (*Subscription, error)
	Create(ctx context.Context, sub *Subscription) error

	// IncrementTestsTaken atomically bumps tests_used_today and
	// tests_used_total for the user's entitled subscription, applying
	// the daily reset inside the same statement. Returns false when the
	// user has no entitled subscription row. Two concurrent increments
	// for one user must not lose an update; the increment happens at
	// the store, never as read-modify-write in application code.
	IncrementTestsTaken(ctx context.Context, userID string, now time.Time) (bool, error)
}
