package models

import (
	"time"

	"github.com/google/uuid"
)

type Prescription struct {
	ID             uuid.UUID  `json:"id"`
	PatientID      uuid.UUID  `json:"patient_id"`
	MedicationName string     `json:"medication_name"`
	DosageValue    string     `json:"dosage_value"`
	Quantity       int        `json:"quantity"`
	RefillOn       time.Time  `json:"refill_on"` // First refill date
	RefillSchedule RepeatType `json:"refill_schedule"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"created_at"`
}

// IsRecurring returns true if refills repeat after RefillOn
func (p *Prescription) IsRecurring() bool {
	return p.RefillSchedule.IsRecurring()
}
