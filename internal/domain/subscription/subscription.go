package subscription

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusTrialing Status = "trialing"
	StatusCanceled Status = "canceled"
	StatusPastDue  Status = "past_due"
	StatusExpired  Status = "expired"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusTrialing, StatusCanceled, StatusPastDue, StatusExpired:
		return true
	}
	return false
}

// ConsumesQuota reports whether the subscription status entitles the user
// to the plan's limits (as opposed to the implicit free tier).
func (s Status) ConsumesQuota() bool {
	return s == StatusActive || s == StatusTrialing
}

// Subscription ties an externally-authenticated user to a plan for a
// billing period and tracks daily test consumption. Rows are superseded
// or transitioned to canceled, never physically deleted; billing webhooks
// mutate them asynchronously, independent of any request being served.
type Subscription struct {
	id                 uint
	sid                string
	userID             string
	planID             uint
	status             Status
	currentPeriodStart time.Time
	currentPeriodEnd   time.Time
	testsUsedToday     int
	testsUsedTotal     int64
	usageResetAt       time.Time
	billingCustomerID  *string
	billingSubID       *string
	createdAt          time.Time
	updatedAt          time.Time
}

func NewSubscription(userID string, planID uint, status Status, periodStart, periodEnd time.Time) (*Subscription, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID cannot be zero")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}
	if !periodEnd.After(periodStart) {
		return nil, fmt.Errorf("period end must be after period start")
	}

	now := time.Now()
	return &Subscription{
		userID:             userID,
		planID:             planID,
		status:             status,
		currentPeriodStart: periodStart,
		currentPeriodEnd:   periodEnd,
		usageResetAt:       now,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

func ReconstructSubscription(id uint, sid, userID string, planID uint, status Status,
	periodStart, periodEnd time.Time, testsUsedToday int, testsUsedTotal int64,
	usageResetAt time.Time, billingCustomerID, billingSubID *string,
	createdAt, updatedAt time.Time) (*Subscription, error) {

	if id == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}

	return &Subscription{
		id:                 id,
		sid:                sid,
		userID:             userID,
		planID:             planID,
		status:             status,
		currentPeriodStart: periodStart,
		currentPeriodEnd:   periodEnd,
		testsUsedToday:     testsUsedToday,
		testsUsedTotal:     testsUsedTotal,
		usageResetAt:       usageResetAt,
		billingCustomerID:  billingCustomerID,
		billingSubID:       billingSubID,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}, nil
}

func (s *Subscription) ID() uint                      { return s.id }
func (s *Subscription) SID() string                   { return s.sid }
func (s *Subscription) UserID() string                { return s.userID }
func (s *Subscription) PlanID() uint                  { return s.planID }
func (s *Subscription) Status() Status                { return s.status }
func (s *Subscription) CurrentPeriodStart() time.Time { return s.currentPeriodStart }
func (s *Subscription) CurrentPeriodEnd() time.Time   { return s.currentPeriodEnd }
func (s *Subscription) TestsUsedToday() int           { return s.testsUsedToday }
func (s *Subscription) TestsUsedTotal() int64         { return s.testsUsedTotal }
func (s *Subscription) UsageResetAt() time.Time       { return s.usageResetAt }
func (s *Subscription) BillingCustomerID() *string    { return s.billingCustomerID }
func (s *Subscription) BillingSubscriptionID() *string { return s.billingSubID }
func (s *Subscription) CreatedAt() time.Time          { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time          { return s.updatedAt }

func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// IsEntitled reports whether the subscription currently grants its plan's
// limits: quota-consuming status and inside the billing period.
func (s *Subscription) IsEntitled(now time.Time) bool {
	if !s.status.ConsumesQuota() {
		return false
	}
	return !now.Before(s.currentPeriodStart) && now.Before(s.currentPeriodEnd)
}
