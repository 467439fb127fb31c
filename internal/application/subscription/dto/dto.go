package dto

import "prepwise/internal/domain/subscription"

// PlanDTO is the public projection of a plan. Nil limits mean unlimited
// and serialize as null so clients can distinguish "no cap" from zero.
type PlanDTO struct {
	SID                 string `json:"sid"`
	Code                string `json:"code"`
	Name                string `json:"name"`
	Description         string `json:"description,omitempty"`
	DailyTestLimit      *int   `json:"daily_test_limit"`
	MaxTopicsPerSubject *int   `json:"max_topics_per_subject"`
	Price               uint64 `json:"price"`
	Currency            string `json:"currency"`
	SortOrder           int    `json:"sort_order"`
}

func ToPlanDTO(plan *subscription.Plan) PlanDTO {
	return PlanDTO{
		SID:                 plan.SID(),
		Code:                string(plan.Code()),
		Name:                plan.Name(),
		Description:         plan.Description(),
		DailyTestLimit:      plan.DailyTestLimit(),
		MaxTopicsPerSubject: plan.MaxTopicsPerSubject(),
		Price:               plan.Price(),
		Currency:            plan.Currency(),
		SortOrder:           plan.SortOrder(),
	}
}
