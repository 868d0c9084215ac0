package models

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentSeries struct {
	ID            uuid.UUID  `json:"id"`
	PatientID     uuid.UUID  `json:"patient_id"`
	ProviderName  string     `json:"provider_name"`
	StartDateTime time.Time  `json:"start_datetime"` // First occurrence
	Repeat        RepeatType `json:"repeat"`
	EndsOn        *time.Time `json:"ends_on"` // Last allowed calendar date, nil = no end
	CreatedAt     time.Time  `json:"created_at"`
}

// IsRecurring returns true if this series repeats
func (a *AppointmentSeries) IsRecurring() bool {
	return a.Repeat.IsRecurring()
}
