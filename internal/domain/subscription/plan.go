package subscription

import (
	"fmt"
	"time"
)

type PlanCode string

const (
	PlanCodeFree          PlanCode = "free"
	PlanCodePremium       PlanCode = "premium"
	PlanCodeInstitutional PlanCode = "institutional"
)

func (c PlanCode) IsValid() bool {
	switch c {
	case PlanCodeFree, PlanCodePremium, PlanCodeInstitutional:
		return true
	}
	return false
}

var validCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"GBP": true,
}

// Plan is the reference entity gating feature access. It is immutable at
// request time; only admin operations change plans. A nil daily test limit
// or nil topic cap means unlimited.
type Plan struct {
	id                  uint
	sid                 string
	code                PlanCode
	name                string
	description         string
	dailyTestLimit      *int
	maxTopicsPerSubject *int
	price               uint64
	currency            string
	active              bool
	sortOrder           int
	metadata            map[string]any
	createdAt           time.Time
	updatedAt           time.Time
}

func NewPlan(code PlanCode, name, description string, price uint64, currency string,
	dailyTestLimit, maxTopicsPerSubject *int) (*Plan, error) {

	if !code.IsValid() {
		return nil, fmt.Errorf("invalid plan code: %s", code)
	}
	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}
	if len(name) > 100 {
		return nil, fmt.Errorf("plan name too long (max 100 characters)")
	}
	if !validCurrencies[currency] {
		return nil, fmt.Errorf("invalid currency code: %s", currency)
	}
	if dailyTestLimit != nil && *dailyTestLimit < 0 {
		return nil, fmt.Errorf("daily test limit cannot be negative")
	}
	if maxTopicsPerSubject != nil && *maxTopicsPerSubject < 0 {
		return nil, fmt.Errorf("max topics per subject cannot be negative")
	}

	now := time.Now()
	return &Plan{
		code:                code,
		name:                name,
		description:         description,
		dailyTestLimit:      dailyTestLimit,
		maxTopicsPerSubject: maxTopicsPerSubject,
		price:               price,
		currency:            currency,
		active:              true,
		metadata:            make(map[string]any),
		createdAt:           now,
		updatedAt:           now,
	}, nil
}

func ReconstructPlan(id uint, sid string, code PlanCode, name, description string,
	dailyTestLimit, maxTopicsPerSubject *int, price uint64, currency string,
	active bool, sortOrder int, metadata map[string]any,
	createdAt, updatedAt time.Time) (*Plan, error) {

	if id == 0 {
		return nil, fmt.Errorf("plan ID cannot be zero")
	}
	if !code.IsValid() {
		return nil, fmt.Errorf("invalid plan code: %s", code)
	}
	if metadata == nil {
		metadata = make(map[string]any)
	}

	return &Plan{
		id:                  id,
		sid:                 sid,
		code:                code,
		name:                name,
		description:         description,
		dailyTestLimit:      dailyTestLimit,
		maxTopicsPerSubject: maxTopicsPerSubject,
		price:               price,
		currency:            currency,
		active:              active,
		sortOrder:           sortOrder,
		metadata:            metadata,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}, nil
}

func (p *Plan) ID() uint                  { return p.id }
func (p *Plan) SID() string               { return p.sid }
func (p *Plan) Code() PlanCode            { return p.code }
func (p *Plan) Name() string              { return p.name }
func (p *Plan) Description() string       { return p.description }
func (p *Plan) DailyTestLimit() *int      { return p.dailyTestLimit }
func (p *Plan) MaxTopicsPerSubject() *int { return p.maxTopicsPerSubject }
func (p *Plan) Price() uint64             { return p.price }
func (p *Plan) Currency() string          { return p.currency }
func (p *Plan) IsActive() bool            { return p.active }
func (p *Plan) SortOrder() int            { return p.sortOrder }
func (p *Plan) Metadata() map[string]any  { return p.metadata }
func (p *Plan) CreatedAt() time.Time      { return p.createdAt }
func (p *Plan) UpdatedAt() time.Time      { return p.updatedAt }

func (p *Plan) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("plan ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("plan ID cannot be zero")
	}
	p.id = id
	return nil
}
