package recurrence

import (
	"time"

	"github.com/hray3182/CarePortal/internal/models"
)

const week = 7 * 24 * time.Hour

// Advance returns the instant one interval after t. The second return value is
// false for schedules that do not repeat.
func Advance(t time.Time, repeat models.RepeatType) (time.Time, bool) {
	if !repeat.IsRecurring() {
		return time.Time{}, false
	}
	return Nth(t, repeat, 1), true
}

// Nth returns the n-th instant of a series anchored at anchor; n = 0 is the
// anchor itself. Weekly steps add 7 calendar days. Monthly steps keep the
// anchor's day of month and clamp it to the last day of shorter months, so a
// series starting on Jan 31 yields Feb 29 (or 28), Mar 31, Apr 30, ...
// Time of day is preserved in the anchor's location.
//
// Non-repeating schedules only have n = 0; any other n returns the anchor.
func Nth(anchor time.Time, repeat models.RepeatType, n int) time.Time {
	switch repeat {
	case models.RepeatWeekly:
		return anchor.AddDate(0, 0, 7*n)
	case models.RepeatMonthly:
		return addMonthsClamped(anchor, n)
	default:
		return anchor
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	// time.Date normalizes month overflow, day 1 always exists
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// firstIndexAtOrAfter returns the smallest n >= 0 with Nth(anchor, repeat, n) >= from.
// The index is estimated from the distance between the two instants and then
// corrected one step at a time, so the result never depends on the estimate.
// Only meaningful for repeating schedules.
func firstIndexAtOrAfter(anchor time.Time, repeat models.RepeatType, from time.Time) int {
	if !repeat.IsRecurring() || !from.After(anchor) {
		return 0
	}

	var n int
	if repeat == models.RepeatWeekly {
		n = int(from.Sub(anchor) / week)
	} else {
		ay, am, _ := anchor.Date()
		fy, fm, _ := from.In(anchor.Location()).Date()
		n = (fy-ay)*12 + int(fm-am) - 1
	}
	if n < 0 {
		n = 0
	}

	// Step back while the previous instant still qualifies
	for n > 0 && !Nth(anchor, repeat, n-1).Before(from) {
		n--
	}
	// Step forward until the instant qualifies
	for Nth(anchor, repeat, n).Before(from) {
		n++
	}
	return n
}

// dateAfter reports whether t falls on a calendar date later than day.
// Only the year, month and day of each value are compared.
func dateAfter(t, day time.Time) bool {
	ty, tm, td := t.Date()
	dy, dm, dd := day.Date()
	if ty != dy {
		return ty > dy
	}
	if tm != dm {
		return tm > dm
	}
	return td > dd
}
