package models

import (
	"fmt"
	"strings"
)

// RepeatType is how often an appointment series or refill schedule recurs.
type RepeatType string

const (
	RepeatNone    RepeatType = "none"
	RepeatWeekly  RepeatType = "weekly"
	RepeatMonthly RepeatType = "monthly"
)

// Valid reports whether r is one of the known repeat types.
func (r RepeatType) Valid() bool {
	switch r {
	case RepeatNone, RepeatWeekly, RepeatMonthly:
		return true
	default:
		return false
	}
}

// IsRecurring returns true for weekly and monthly schedules
func (r RepeatType) IsRecurring() bool {
	return r == RepeatWeekly || r == RepeatMonthly
}

func ParseRepeatType(s string) (RepeatType, error) {
	r := RepeatType(strings.ToLower(strings.TrimSpace(s)))
	if r == "" {
		return RepeatNone, nil
	}
	if !r.Valid() {
		return "", fmt.Errorf("unknown repeat type %q", s)
	}
	return r, nil
}
