package recurrence

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hray3182/CarePortal/internal/models"
)

// AppointmentOccurrence is one concrete visit produced from an appointment series.
type AppointmentOccurrence struct {
	SeriesID     uuid.UUID
	Date         time.Time
	ProviderName string
}

// RefillOccurrence is one concrete refill produced from a prescription.
type RefillOccurrence struct {
	PrescriptionID uuid.UUID
	Date           time.Time
	MedicationName string
	DosageValue    string
	Quantity       int
}

// expand returns the instants of a series anchored at anchor that fall inside
// [windowStart, windowEnd]. When endsOn is set, instants whose calendar date is
// after it are dropped. Unknown repeat types behave like RepeatNone.
func expand(anchor time.Time, repeat models.RepeatType, endsOn *time.Time, windowStart, windowEnd time.Time) []time.Time {
	if windowStart.After(windowEnd) || anchor.After(windowEnd) {
		return nil
	}
	if endsOn != nil && dateAfter(anchor, *endsOn) {
		return nil
	}

	if !repeat.IsRecurring() {
		if anchor.Before(windowStart) {
			return nil
		}
		return []time.Time{anchor}
	}

	var instants []time.Time
	for n := firstIndexAtOrAfter(anchor, repeat, windowStart); ; n++ {
		t := Nth(anchor, repeat, n)
		if t.After(windowEnd) {
			break
		}
		if endsOn != nil && dateAfter(t, *endsOn) {
			break
		}
		instants = append(instants, t)
	}
	return instants
}

// AppointmentOccurrences expands an appointment series into the visits that
// fall within [windowStart, windowEnd], in chronological order.
func AppointmentOccurrences(series *models.AppointmentSeries, windowStart, windowEnd time.Time) []AppointmentOccurrence {
	instants := expand(series.StartDateTime, series.Repeat, series.EndsOn, windowStart, windowEnd)

	occurrences := make([]AppointmentOccurrence, 0, len(instants))
	for _, t := range instants {
		occurrences = append(occurrences, AppointmentOccurrence{
			SeriesID:     series.ID,
			Date:         t,
			ProviderName: series.ProviderName,
		})
	}
	return occurrences
}

// RefillOccurrences expands a prescription's refill schedule into the refill
// dates that fall within [windowStart, windowEnd], in chronological order.
// Refill schedules have no end date.
func RefillOccurrences(prescription *models.Prescription, windowStart, windowEnd time.Time) []RefillOccurrence {
	instants := expand(prescription.RefillOn, prescription.RefillSchedule, nil, windowStart, windowEnd)

	occurrences := make([]RefillOccurrence, 0, len(instants))
	for _, t := range instants {
		occurrences = append(occurrences, RefillOccurrence{
			PrescriptionID: prescription.ID,
			Date:           t,
			MedicationName: prescription.MedicationName,
			DosageValue:    prescription.DosageValue,
			Quantity:       prescription.Quantity,
		})
	}
	return occurrences
}

// SortAppointments orders occurrences gathered from several series by date.
// Ties keep series ID order so the result is deterministic.
func SortAppointments(occurrences []AppointmentOccurrence) {
	sort.SliceStable(occurrences, func(i, j int) bool {
		a, b := occurrences[i], occurrences[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.SeriesID.String() < b.SeriesID.String()
	})
}

// SortRefills orders refills gathered from several prescriptions by date.
func SortRefills(occurrences []RefillOccurrence) {
	sort.SliceStable(occurrences, func(i, j int) bool {
		a, b := occurrences[i], occurrences[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.PrescriptionID.String() < b.PrescriptionID.String()
	})
}
