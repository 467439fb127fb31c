// Package biztime provides business timezone date-boundary calculations.
// All storage and transport use UTC; the business timezone only determines
// where calendar days begin. Daily quota windows roll over at business
// midnight, so an implicit Local timezone is prohibited.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTimezone is the business timezone used when none is configured.
const DefaultTimezone = "UTC"

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error
)

// Init initializes the business timezone. Should be called once at startup.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// Location returns the business timezone location, initializing with the
// default when Init was never called.
func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize: %v", err))
		}
	}
	return bizLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfDayUTC returns the start of day (00:00:00) in the business
// timezone, converted to UTC for queries.
func StartOfDayUTC(t time.Time) time.Time {
	bt := t.In(Location())
	return time.Date(bt.Year(), bt.Month(), bt.Day(), 0, 0, 0, 0, Location()).UTC()
}

// StartOfDayUTCIn is StartOfDayUTC with an explicit location, for callers
// that carry their own timezone instead of the process-wide one.
func StartOfDayUTCIn(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc).UTC()
}

// SameBusinessDay reports whether two instants fall on the same calendar
// day in the business timezone.
func SameBusinessDay(a, b time.Time) bool {
	la, lb := a.In(Location()), b.In(Location())
	return la.Year() == lb.Year() && la.YearDay() == lb.YearDay()
}

// SameBusinessDayIn is SameBusinessDay with an explicit location. Exists so
// the daily reset rule can be tested against arbitrary timezones without
// touching process-wide state.
func SameBusinessDayIn(a, b time.Time, loc *time.Location) bool {
	la, lb := a.In(loc), b.In(loc)
	return la.Year() == lb.Year() && la.YearDay() == lb.YearDay()
}

// ToUTC converts a time (any timezone) to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}
