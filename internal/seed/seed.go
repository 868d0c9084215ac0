// Package seed loads demo patients, schedules and picklists from a JSON file.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hray3182/CarePortal/internal/auth"
	"github.com/hray3182/CarePortal/internal/logger"
	"github.com/hray3182/CarePortal/internal/models"
	"github.com/hray3182/CarePortal/internal/repository"
)

type Data struct {
	Medications []string `json:"medications"`
	Dosages     []string `json:"dosages"`
	Users       []User   `json:"users"`
}

type User struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Password      string         `json:"password"`
	Appointments  []Appointment  `json:"appointments"`
	Prescriptions []Prescription `json:"prescriptions"`
}

type Appointment struct {
	Provider string            `json:"provider"`
	DateTime string            `json:"datetime"`
	Repeat   models.RepeatType `json:"repeat"`
	EndsOn   string            `json:"ends_on,omitempty"`
}

type Prescription struct {
	Medication     string            `json:"medication"`
	Dosage         string            `json:"dosage"`
	Quantity       int               `json:"quantity"`
	RefillOn       string            `json:"refill_on"`
	RefillSchedule models.RepeatType `json:"refill_schedule"`
}

type Stores struct {
	Patients interface {
		Create(ctx context.Context, patient *models.Patient) error
		GetByEmail(ctx context.Context, email string) (*models.Patient, error)
		Update(ctx context.Context, patient *models.Patient) error
	}
	Appointments interface {
		Create(ctx context.Context, series *models.AppointmentSeries) error
	}
	Prescriptions interface {
		Create(ctx context.Context, rx *models.Prescription) error
	}
	Options interface {
		UpsertMedication(ctx context.Context, name string) (*models.MedicationOption, error)
		UpsertDosage(ctx context.Context, value string) (*models.DosageOption, error)
	}
}

func Load(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (*Data, error) {
	var data Data
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}
	return &data, nil
}

// parseTime accepts RFC 3339 timestamps or a local "2006-01-02T15:04:05"
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Local(), nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}

func parseDate(s string) (time.Time, error) {
	t, err := parseTime(s)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local), nil
}

// Run upserts the picklists and patients, then inserts every user's
// appointments and prescriptions. Errors on single rows are logged and
// skipped so one bad entry does not abort the whole seed.
func Run(ctx context.Context, data *Data, stores Stores) error {
	log := logger.L()

	log.Info("Seeding medications", zap.Int("count", len(data.Medications)))
	for _, name := range data.Medications {
		if _, err := stores.Options.UpsertMedication(ctx, name); err != nil {
			log.Error("Failed to seed medication", zap.String("name", name), zap.Error(err))
		}
	}

	log.Info("Seeding dosages", zap.Int("count", len(data.Dosages)))
	for _, value := range data.Dosages {
		if _, err := stores.Options.UpsertDosage(ctx, value); err != nil {
			log.Error("Failed to seed dosage", zap.String("value", value), zap.Error(err))
		}
	}

	for _, user := range data.Users {
		patient, err := upsertPatient(ctx, stores, user)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error("Failed to seed patient", zap.String("email", user.Email), zap.Error(err))
			continue
		}

		for _, a := range user.Appointments {
			series, err := a.series(patient.ID)
			if err == nil {
				err = stores.Appointments.Create(ctx, series)
			}
			if err != nil {
				log.Error("Failed to seed appointment", zap.String("email", user.Email), zap.Error(err))
			}
		}

		for _, p := range user.Prescriptions {
			rx, err := p.prescription(patient.ID)
			if err == nil {
				err = stores.Prescriptions.Create(ctx, rx)
			}
			if err != nil {
				log.Error("Failed to seed prescription", zap.String("email", user.Email), zap.Error(err))
			}
		}
		log.Info("Seeded patient",
			zap.String("email", user.Email),
			zap.Int("appointments", len(user.Appointments)),
			zap.Int("prescriptions", len(user.Prescriptions)))
	}
	return nil
}

func upsertPatient(ctx context.Context, stores Stores, user User) (*models.Patient, error) {
	hash, err := auth.HashPassword(user.Password)
	if err != nil {
		return nil, err
	}

	existing, err := stores.Patients.GetByEmail(ctx, user.Email)
	switch {
	case err == nil:
		existing.Name = user.Name
		existing.PasswordHash = hash
		if err := stores.Patients.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update patient: %w", err)
		}
		return existing, nil
	case errors.Is(err, repository.ErrNotFound):
		patient := &models.Patient{ID: user.ID, Name: user.Name, Email: user.Email, PasswordHash: hash}
		if err := stores.Patients.Create(ctx, patient); err != nil {
			return nil, fmt.Errorf("failed to create patient: %w", err)
		}
		return patient, nil
	default:
		return nil, fmt.Errorf("failed to look up patient: %w", err)
	}
}

func (a Appointment) series(patientID uuid.UUID) (*models.AppointmentSeries, error) {
	start, err := parseTime(a.DateTime)
	if err != nil {
		return nil, err
	}
	repeat, err := models.ParseRepeatType(string(a.Repeat))
	if err != nil {
		return nil, err
	}

	series := &models.AppointmentSeries{
		PatientID:     patientID,
		ProviderName:  a.Provider,
		StartDateTime: start,
		Repeat:        repeat,
	}
	if a.EndsOn != "" {
		endsOn, err := parseDate(a.EndsOn)
		if err != nil {
			return nil, err
		}
		series.EndsOn = &endsOn
	}
	return series, nil
}

func (p Prescription) prescription(patientID uuid.UUID) (*models.Prescription, error) {
	refillOn, err := parseDate(p.RefillOn)
	if err != nil {
		return nil, err
	}
	schedule, err := models.ParseRepeatType(string(p.RefillSchedule))
	if err != nil {
		return nil, err
	}
	if p.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", p.Quantity)
	}

	return &models.Prescription{
		PatientID:      patientID,
		MedicationName: p.Medication,
		DosageValue:    p.Dosage,
		Quantity:       p.Quantity,
		RefillOn:       refillOn,
		RefillSchedule: schedule,
		Active:         true,
	}, nil
}
