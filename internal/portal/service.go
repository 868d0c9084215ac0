package portal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hray3182/CarePortal/internal/logger"
	"github.com/hray3182/CarePortal/internal/models"
	"github.com/hray3182/CarePortal/internal/repository"
)

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrInvalidInput         = errors.New("invalid input")
)

type PatientStore interface {
	Create(ctx context.Context, patient *models.Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Patient, error)
	GetByEmail(ctx context.Context, email string) (*models.Patient, error)
	List(ctx context.Context) ([]*models.Patient, error)
}

type AppointmentStore interface {
	Create(ctx context.Context, series *models.AppointmentSeries) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AppointmentSeries, error)
	Update(ctx context.Context, series *models.AppointmentSeries) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*models.AppointmentSeries, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PrescriptionStore interface {
	Create(ctx context.Context, rx *models.Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Prescription, error)
	Update(ctx context.Context, rx *models.Prescription) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*models.Prescription, error)
	ListActiveByPatient(ctx context.Context, patientID uuid.UUID) ([]*models.Prescription, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type OptionStore interface {
	ListMedications(ctx context.Context) ([]*models.MedicationOption, error)
	ListDosages(ctx context.Context) ([]*models.DosageOption, error)
	UpsertMedication(ctx context.Context, name string) (*models.MedicationOption, error)
	UpsertDosage(ctx context.Context, value string) (*models.DosageOption, error)
}

// Service builds the patient and admin views from stored schedules.
// Every view takes the reference time explicitly.
type Service struct {
	patients      PatientStore
	appointments  AppointmentStore
	prescriptions PrescriptionStore
	options       OptionStore
}

func NewService(patients PatientStore, appointments AppointmentStore, prescriptions PrescriptionStore, options OptionStore) *Service {
	return &Service{
		patients:      patients,
		appointments:  appointments,
		prescriptions: prescriptions,
		options:       options,
	}
}

func (s *Service) patient(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return p, nil
}

func (s *Service) prescription(ctx context.Context, id uuid.UUID) (*models.Prescription, error) {
	rx, err := s.prescriptions.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPrescriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return rx, nil
}

func (s *Service) ListPatients(ctx context.Context) ([]*models.Patient, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (s *Service) Medications(ctx context.Context) ([]*models.MedicationOption, error) {
	options, err := s.options.ListMedications(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	return options, nil
}

func (s *Service) Dosages(ctx context.Context) ([]*models.DosageOption, error) {
	options, err := s.options.ListDosages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list dosages: %w", err)
	}
	return options, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	err := s.appointments.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrAppointmentNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	logger.L().Info("Appointment series deleted", zap.String("series_id", id.String()))
	return nil
}

func (s *Service) DeletePrescription(ctx context.Context, id uuid.UUID) error {
	err := s.prescriptions.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPrescriptionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete prescription: %w", err)
	}
	logger.L().Info("Prescription deleted", zap.String("prescription_id", id.String()))
	return nil
}

// StopPrescription deactivates a prescription so it no longer produces refills
func (s *Service) StopPrescription(ctx context.Context, id uuid.UUID) error {
	err := s.prescriptions.SetActive(ctx, id, false)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPrescriptionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to stop prescription: %w", err)
	}
	logger.L().Info("Prescription stopped", zap.String("prescription_id", id.String()))
	return nil
}

// RestartPrescription reactivates a stopped prescription so its refills are
// scheduled again.
func (s *Service) RestartPrescription(ctx context.Context, id uuid.UUID) (*models.Prescription, error) {
	rx, err := s.prescription(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.prescriptions.SetActive(ctx, id, true); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPrescriptionNotFound
		}
		return nil, fmt.Errorf("failed to restart prescription: %w", err)
	}
	rx.Active = true
	logger.L().Info("Prescription restarted", zap.String("prescription_id", id.String()))
	return rx, nil
}
