package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hray3182/CarePortal/internal/models"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name     string
		from     time.Time
		repeat   models.RepeatType
		expected time.Time
		ok       bool
	}{
		{
			name:     "weekly adds seven days",
			from:     date(2024, 1, 1, 9, 0),
			repeat:   models.RepeatWeekly,
			expected: date(2024, 1, 8, 9, 0),
			ok:       true,
		},
		{
			name:     "weekly crosses month boundary",
			from:     date(2024, 1, 29, 14, 30),
			repeat:   models.RepeatWeekly,
			expected: date(2024, 2, 5, 14, 30),
			ok:       true,
		},
		{
			name:     "monthly keeps day of month",
			from:     date(2024, 3, 15, 9, 0),
			repeat:   models.RepeatMonthly,
			expected: date(2024, 4, 15, 9, 0),
			ok:       true,
		},
		{
			name:     "monthly crosses year boundary",
			from:     date(2024, 12, 10, 8, 0),
			repeat:   models.RepeatMonthly,
			expected: date(2025, 1, 10, 8, 0),
			ok:       true,
		},
		{
			name:     "monthly clamps to end of leap February",
			from:     date(2024, 1, 31, 10, 0),
			repeat:   models.RepeatMonthly,
			expected: date(2024, 2, 29, 10, 0),
			ok:       true,
		},
		{
			name:     "monthly clamps to end of February",
			from:     date(2023, 1, 31, 10, 0),
			repeat:   models.RepeatMonthly,
			expected: date(2023, 2, 28, 10, 0),
			ok:       true,
		},
		{
			name:     "monthly clamps to thirty day month",
			from:     date(2024, 5, 31, 10, 0),
			repeat:   models.RepeatMonthly,
			expected: date(2024, 6, 30, 10, 0),
			ok:       true,
		},
		{
			name:   "none has no next instant",
			from:   date(2024, 1, 1, 9, 0),
			repeat: models.RepeatNone,
		},
		{
			name:   "unknown type has no next instant",
			from:   date(2024, 1, 1, 9, 0),
			repeat: models.RepeatType("daily"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := Advance(tt.from, tt.repeat)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.expected.Equal(next), "expected %s, got %s", tt.expected, next)
			}
		})
	}
}

func TestAdvance_Deterministic(t *testing.T) {
	from := date(2024, 1, 31, 10, 0)
	a, _ := Advance(from, models.RepeatMonthly)
	b, _ := Advance(from, models.RepeatMonthly)
	assert.Equal(t, a, b)
}

func TestNth_MonthlyClampDoesNotDrift(t *testing.T) {
	anchor := date(2024, 1, 31, 10, 0)

	expected := []time.Time{
		date(2024, 1, 31, 10, 0),
		date(2024, 2, 29, 10, 0),
		date(2024, 3, 31, 10, 0),
		date(2024, 4, 30, 10, 0),
		date(2024, 5, 31, 10, 0),
	}
	for n, want := range expected {
		got := Nth(anchor, models.RepeatMonthly, n)
		assert.True(t, want.Equal(got), "n=%d: expected %s, got %s", n, want, got)
	}
}

func TestNth_PreservesLocation(t *testing.T) {
	loc := time.FixedZone("clinic", 8*60*60)
	anchor := time.Date(2024, 1, 1, 9, 0, 0, 0, loc)

	got := Nth(anchor, models.RepeatWeekly, 3)
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, 9, got.Hour())
	assert.Equal(t, 22, got.Day())
}

func TestFirstIndexAtOrAfter(t *testing.T) {
	tests := []struct {
		name     string
		anchor   time.Time
		repeat   models.RepeatType
		from     time.Time
		expected int
	}{
		{"from before anchor", date(2024, 1, 1, 9, 0), models.RepeatWeekly, date(2023, 6, 1, 0, 0), 0},
		{"from equals anchor", date(2024, 1, 1, 9, 0), models.RepeatWeekly, date(2024, 1, 1, 9, 0), 0},
		{"weekly exact hit", date(2024, 1, 1, 9, 0), models.RepeatWeekly, date(2024, 1, 15, 9, 0), 2},
		{"weekly between instants", date(2024, 1, 1, 9, 0), models.RepeatWeekly, date(2024, 1, 10, 0, 0), 2},
		{"weekly just after instant", date(2024, 1, 1, 9, 0), models.RepeatWeekly, date(2024, 1, 8, 9, 1), 2},
		{"weekly far ahead", date(2000, 1, 3, 9, 0), models.RepeatWeekly, date(2024, 1, 1, 0, 0), 1252},
		{"monthly same day earlier time", date(2024, 1, 15, 9, 0), models.RepeatMonthly, date(2024, 3, 15, 8, 0), 2},
		{"monthly same day later time", date(2024, 1, 15, 9, 0), models.RepeatMonthly, date(2024, 3, 15, 10, 0), 3},
		{"monthly clamped anchor", date(2024, 1, 31, 9, 0), models.RepeatMonthly, date(2024, 3, 1, 0, 0), 2},
		{"none always zero", date(2024, 1, 1, 9, 0), models.RepeatNone, date(2025, 1, 1, 0, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, firstIndexAtOrAfter(tt.anchor, tt.repeat, tt.from))
		})
	}
}

func TestDateAfter(t *testing.T) {
	endsOn := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	assert.False(t, dateAfter(date(2024, 5, 1, 23, 59), endsOn))
	assert.False(t, dateAfter(date(2024, 4, 30, 9, 0), endsOn))
	assert.True(t, dateAfter(date(2024, 5, 2, 0, 0), endsOn))
	assert.True(t, dateAfter(date(2025, 1, 1, 0, 0), endsOn))
	assert.False(t, dateAfter(date(2023, 12, 31, 0, 0), endsOn))
}
