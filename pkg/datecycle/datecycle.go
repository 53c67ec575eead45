// Package datecycle implements billing-cycle date arithmetic. All functions
// are pure; every renewal computation in the engine goes through here.
package datecycle

import (
	"fmt"
	"time"

	"github.com/subwise/subtrack/pkg/types"
)

// Advance returns date moved forward by exactly one billing period.
//
// Monthly keeps the day-of-month, clamped to the last valid day when the
// target month is shorter (Jan 31 -> Feb 28/29). Yearly keeps month and day,
// with Feb 29 clamping to Feb 28 in non-leap years. Time-of-day and location
// are preserved.
func Advance(date time.Time, cycle types.BillingCycle) (time.Time, error) {
	switch cycle {
	case types.BillingCycleMonthly:
		return addMonths(date, 1), nil
	case types.BillingCycleYearly:
		return addMonths(date, 12), nil
	default:
		return time.Time{}, fmt.Errorf("datecycle: unknown billing cycle %q", cycle)
	}
}

// AdvanceUntilFuture repeatedly advances date until the result is strictly
// after now. A date already strictly after now is returned unchanged, so the
// function is a no-op on its own output. A date equal to now is advanced by
// one period; "due exactly now" counts as elapsed.
func AdvanceUntilFuture(date time.Time, cycle types.BillingCycle, now time.Time) (time.Time, error) {
	next := date
	for !next.After(now) {
		var err error
		next, err = Advance(next, cycle)
		if err != nil {
			return time.Time{}, err
		}
	}
	return next, nil
}

// addMonths is the clamping alternative to time.AddDate, which normalizes
// overflow days into the following month.
func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	m += time.Month(months)
	for m > 12 {
		m -= 12
		y++
	}
	if last := daysIn(y, m); d > last {
		d = last
	}
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
