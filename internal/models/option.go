package models

import (
	"time"

	"github.com/google/uuid"
)

// MedicationOption is an entry of the medication picklist used when prescribing.
type MedicationOption struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// DosageOption is an entry of the dosage picklist, e.g. "10mg".
type DosageOption struct {
	ID        uuid.UUID `json:"id"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}
