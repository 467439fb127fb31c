package subscription

import (
	"time"

	"prepwise/internal/shared/biztime"
)

// NeedsDailyReset decides whether the daily usage counter window has
// rolled over: true when the last reset happened before the start of the
// current calendar day in the business timezone, or never happened at
// all. There is no cron; the rule is applied at read time and inside the
// atomic increment.
func NeedsDailyReset(lastResetAt, now time.Time, loc *time.Location) bool {
	if lastResetAt.IsZero() {
		return true
	}
	return !biztime.SameBusinessDayIn(lastResetAt, now, loc)
}

// EffectiveUsedToday applies the daily reset rule to a raw counter: a
// counter last reset before the current business day reads as zero. The
// persisted row is only rewritten on the next increment.
func EffectiveUsedToday(usedToday int, lastResetAt, now time.Time, loc *time.Location) int {
	if NeedsDailyReset(lastResetAt, now, loc) {
		return 0
	}
	return usedToday
}
