package rrule

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/hray3182/CarePortal/internal/format"
	"github.com/hray3182/CarePortal/internal/models"
)

// ParseRRule parses an RFC 5545 RRULE string and returns the RRule object
func ParseRRule(ruleStr string, dtstart time.Time) (*rrule.RRule, error) {
	// Handle RRULE: prefix if present
	ruleStr = strings.TrimPrefix(ruleStr, "RRULE:")

	opt, err := rrule.StrToROption(ruleStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RRULE: %w", err)
	}
	opt.Dtstart = dtstart
	return rrule.NewRRule(*opt)
}

// Expand returns every occurrence of the rule between from and to, inclusive
func Expand(ruleStr string, dtstart, from, to time.Time) ([]time.Time, error) {
	rule, err := ParseRRule(ruleStr, dtstart)
	if err != nil {
		return nil, err
	}
	return rule.Between(from, to, true), nil
}

// ToRRule builds the RRULE string for a repeat type. Non-repeating types
// return an empty string. A non-nil until limits the rule to that calendar
// date (inclusive).
func ToRRule(repeat models.RepeatType, until *time.Time) string {
	var parts []string

	switch repeat {
	case models.RepeatWeekly:
		parts = append(parts, "FREQ=WEEKLY")
	case models.RepeatMonthly:
		parts = append(parts, "FREQ=MONTHLY")
	default:
		return ""
	}

	if until != nil {
		y, m, d := until.Date()
		last := time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
		parts = append(parts, fmt.Sprintf("UNTIL=%s", last.Format("20060102T150405Z")))
	}

	return strings.Join(parts, ";")
}

// FromRRule maps an RRULE back to a repeat type and optional end date.
// Only plain weekly and monthly rules are supported.
func FromRRule(ruleStr string) (models.RepeatType, *time.Time, error) {
	ruleStr = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(ruleStr)), "RRULE:")

	opt, err := rrule.StrToROption(ruleStr)
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse RRULE: %w", err)
	}

	if opt.Interval > 1 || opt.Count > 0 || len(opt.Byweekday) > 0 || len(opt.Bymonthday) > 0 ||
		len(opt.Bymonth) > 0 || len(opt.Byhour) > 0 || len(opt.Byminute) > 0 || len(opt.Bysetpos) > 0 {
		return "", nil, fmt.Errorf("unsupported RRULE %q: only plain weekly or monthly rules are allowed", ruleStr)
	}

	var repeat models.RepeatType
	switch opt.Freq {
	case rrule.WEEKLY:
		repeat = models.RepeatWeekly
	case rrule.MONTHLY:
		repeat = models.RepeatMonthly
	default:
		return "", nil, fmt.Errorf("unsupported RRULE frequency in %q", ruleStr)
	}

	var until *time.Time
	if !opt.Until.IsZero() {
		y, m, d := opt.Until.UTC().Date()
		endsOn := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
		until = &endsOn
	}
	return repeat, until, nil
}

// Describe returns a human-readable description of a schedule
func Describe(repeat models.RepeatType, endsOn *time.Time) string {
	if !repeat.IsRecurring() {
		return "One-time"
	}

	text := "Repeats " + string(repeat)
	if endsOn != nil {
		text += " until " + format.Date(*endsOn)
	}
	return text
}

// ParseSchedule reads either a repeat name such as "weekly" or an RRULE such
// as "FREQ=MONTHLY;UNTIL=20240501T235959Z". Only rules carry an end date.
func ParseSchedule(s string) (models.RepeatType, *time.Time, error) {
	if strings.Contains(strings.ToUpper(s), "FREQ=") {
		return FromRRule(s)
	}
	repeat, err := models.ParseRepeatType(s)
	if err != nil {
		return "", nil, err
	}
	return repeat, nil, nil
}
