package subscription

// LimitKind discriminates the three LimitStatus variants.
type LimitKind string

const (
	// LimitKindUnlimited: the plan imposes no daily quota.
	LimitKindUnlimited LimitKind = "unlimited"
	// LimitKindLimited: a quota applies and tests remain today.
	LimitKindLimited LimitKind = "limited"
	// LimitKindExhausted: the quota applies and is used up.
	LimitKindExhausted LimitKind = "exhausted"
)

// ReasonDailyLimitReached is the user-facing message for an exhausted
// quota. The frontend renders it next to the upgrade prompt.
const ReasonDailyLimitReached = "You have reached your daily practice test limit. Upgrade to keep practicing today."

// LimitStatus is derived on demand from a subscription and its plan. It
// is never persisted; when cached it carries the same staleness rules as
// any other cached read.
type LimitStatus struct {
	Kind           LimitKind `json:"kind"`
	CanTake        bool      `json:"can_take"`
	IsUnlimited    bool      `json:"is_unlimited"`
	UsedToday      int       `json:"used_today"`
	RemainingToday int       `json:"remaining_today"`
	LimitPerDay    *int      `json:"limit_per_day"`
	Reason         string    `json:"reason,omitempty"`
}

// UnlimitedStatus builds the variant for plans without a daily quota.
// RemainingToday is meaningless for this variant and left zero.
func UnlimitedStatus(usedToday int) LimitStatus {
	return LimitStatus{
		Kind:        LimitKindUnlimited,
		CanTake:     true,
		IsUnlimited: true,
		UsedToday:   usedToday,
	}
}

// LimitedStatus builds the limited or exhausted variant from a daily
// limit and today's consumption.
func LimitedStatus(limitPerDay, usedToday int) LimitStatus {
	remaining := limitPerDay - usedToday
	if remaining < 0 {
		remaining = 0
	}

	status := LimitStatus{
		Kind:           LimitKindLimited,
		CanTake:        remaining > 0,
		UsedToday:      usedToday,
		RemainingToday: remaining,
		LimitPerDay:    &limitPerDay,
	}
	if remaining == 0 {
		status.Kind = LimitKindExhausted
		status.Reason = ReasonDailyLimitReached
	}
	return status
}

// ComputeLimitStatus derives the status from a plan's nullable daily
// limit and today's effective usage (after the daily reset rule has been
// applied). A nil limit means the plan imposes no daily quota.
func ComputeLimitStatus(limitPerDay *int, usedToday int) LimitStatus {
	if limitPerDay == nil {
		return UnlimitedStatus(usedToday)
	}
	return LimitedStatus(*limitPerDay, usedToday)
}
