package portal

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hray3182/CarePortal/internal/auth"
	"github.com/hray3182/CarePortal/internal/logger"
	"github.com/hray3182/CarePortal/internal/models"
	"github.com/hray3182/CarePortal/internal/repository"
)

type NewPatient struct {
	Name     string
	Email    string
	Password string
}

type NewAppointment struct {
	PatientID     uuid.UUID
	ProviderName  string
	StartDateTime time.Time
	Repeat        models.RepeatType
	EndsOn        *time.Time
}

type NewPrescription struct {
	PatientID      uuid.UUID
	MedicationName string
	DosageValue    string
	Quantity       int
	RefillOn       time.Time
	RefillSchedule models.RepeatType
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func (s *Service) CreatePatient(ctx context.Context, in NewPatient) (*models.Patient, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" {
		return nil, invalid("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalid("email %q is not valid", email)
	}
	if in.Password == "" {
		return nil, invalid("password is required")
	}

	_, err := s.patients.GetByEmail(ctx, email)
	if err == nil {
		return nil, invalid("email %q is already registered", email)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	patient := &models.Patient{Name: name, Email: email, PasswordHash: hash}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	logger.L().Info("Patient created", zap.String("patient_id", patient.ID.String()))
	return patient, nil
}

// normalize trims and defaults the fields and rejects invalid combinations
func (in *NewAppointment) normalize() error {
	in.ProviderName = strings.TrimSpace(in.ProviderName)
	if in.ProviderName == "" {
		return invalid("provider name is required")
	}
	if in.StartDateTime.IsZero() {
		return invalid("start date is required")
	}
	if in.Repeat == "" {
		in.Repeat = models.RepeatNone
	}
	if !in.Repeat.Valid() {
		return invalid("unknown repeat %q", in.Repeat)
	}
	if in.EndsOn != nil {
		if !in.Repeat.IsRecurring() {
			return invalid("an end date needs a repeating appointment")
		}
		if endsBeforeStart(in.StartDateTime, *in.EndsOn) {
			return invalid("end date is before the first appointment")
		}
	}
	return nil
}

func (in *NewPrescription) normalize() error {
	in.MedicationName = strings.TrimSpace(in.MedicationName)
	in.DosageValue = strings.TrimSpace(in.DosageValue)
	if in.MedicationName == "" {
		return invalid("medication is required")
	}
	if in.DosageValue == "" {
		return invalid("dosage is required")
	}
	if in.Quantity <= 0 {
		return invalid("quantity must be positive")
	}
	if in.RefillOn.IsZero() {
		return invalid("refill date is required")
	}
	if in.RefillSchedule == "" {
		in.RefillSchedule = models.RepeatMonthly
	}
	if !in.RefillSchedule.Valid() {
		return invalid("unknown refill schedule %q", in.RefillSchedule)
	}
	return nil
}

func (s *Service) CreateAppointment(ctx context.Context, in NewAppointment) (*models.AppointmentSeries, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if _, err := s.patient(ctx, in.PatientID); err != nil {
		return nil, err
	}

	series := &models.AppointmentSeries{
		PatientID:     in.PatientID,
		ProviderName:  in.ProviderName,
		StartDateTime: in.StartDateTime,
		Repeat:        in.Repeat,
		EndsOn:        in.EndsOn,
	}
	if err := s.appointments.Create(ctx, series); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	logger.L().Info("Appointment series created",
		zap.String("series_id", series.ID.String()),
		zap.String("repeat", string(series.Repeat)))
	return series, nil
}

// UpdateAppointment replaces the schedule of an existing series. The series
// stays with its patient; in.PatientID is ignored.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, in NewAppointment) (*models.AppointmentSeries, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	series, err := s.appointments.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	series.ProviderName = in.ProviderName
	series.StartDateTime = in.StartDateTime
	series.Repeat = in.Repeat
	series.EndsOn = in.EndsOn
	if err := s.appointments.Update(ctx, series); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	logger.L().Info("Appointment series updated", zap.String("series_id", series.ID.String()))
	return series, nil
}

func (s *Service) saveOptions(ctx context.Context, medication, dosage string) error {
	if _, err := s.options.UpsertMedication(ctx, medication); err != nil {
		return fmt.Errorf("failed to save medication: %w", err)
	}
	if _, err := s.options.UpsertDosage(ctx, dosage); err != nil {
		return fmt.Errorf("failed to save dosage: %w", err)
	}
	return nil
}

// CreatePrescription stores an active prescription and adds its medication
// and dosage to the picklists.
func (s *Service) CreatePrescription(ctx context.Context, in NewPrescription) (*models.Prescription, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if _, err := s.patient(ctx, in.PatientID); err != nil {
		return nil, err
	}
	if err := s.saveOptions(ctx, in.MedicationName, in.DosageValue); err != nil {
		return nil, err
	}

	rx := &models.Prescription{
		PatientID:      in.PatientID,
		MedicationName: in.MedicationName,
		DosageValue:    in.DosageValue,
		Quantity:       in.Quantity,
		RefillOn:       in.RefillOn,
		RefillSchedule: in.RefillSchedule,
		Active:         true,
	}
	if err := s.prescriptions.Create(ctx, rx); err != nil {
		return nil, fmt.Errorf("failed to create prescription: %w", err)
	}
	logger.L().Info("Prescription created",
		zap.String("prescription_id", rx.ID.String()),
		zap.String("schedule", string(rx.RefillSchedule)))
	return rx, nil
}

// UpdatePrescription replaces the medication, dosage and refill schedule.
// Whether the prescription is active is left unchanged.
func (s *Service) UpdatePrescription(ctx context.Context, id uuid.UUID, in NewPrescription) (*models.Prescription, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	rx, err := s.prescription(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.saveOptions(ctx, in.MedicationName, in.DosageValue); err != nil {
		return nil, err
	}

	rx.MedicationName = in.MedicationName
	rx.DosageValue = in.DosageValue
	rx.Quantity = in.Quantity
	rx.RefillOn = in.RefillOn
	rx.RefillSchedule = in.RefillSchedule
	if err := s.prescriptions.Update(ctx, rx); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPrescriptionNotFound
		}
		return nil, fmt.Errorf("failed to update prescription: %w", err)
	}
	logger.L().Info("Prescription updated", zap.String("prescription_id", rx.ID.String()))
	return rx, nil
}

func endsBeforeStart(start, endsOn time.Time) bool {
	sy, sm, sd := start.Date()
	ey, em, ed := endsOn.Date()
	return time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC).Before(time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC))
}
