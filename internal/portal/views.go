package portal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/hray3182/CarePortal/internal/format"
	"github.com/hray3182/CarePortal/internal/models"
	"github.com/hray3182/CarePortal/internal/recurrence"
)

const DashboardDays = 7

type Dashboard struct {
	Patient      *models.Patient
	From         time.Time
	To           time.Time
	Appointments []recurrence.AppointmentOccurrence
	Refills      []recurrence.RefillOccurrence
}

func (d *Dashboard) IsEmpty() bool {
	return len(d.Appointments) == 0 && len(d.Refills) == 0
}

type MonthGroup struct {
	Label        string
	Appointments []recurrence.AppointmentOccurrence
}

type AppointmentSchedule struct {
	Patient *models.Patient
	From    time.Time
	To      time.Time
	Months  []MonthGroup
}

type PrescriptionSchedule struct {
	Prescription *models.Prescription
	Refills      []recurrence.RefillOccurrence
}

type SeriesSummary struct {
	Series *models.AppointmentSeries
	Next   mo.Option[time.Time]
}

type PatientDetail struct {
	Patient       *models.Patient
	Series        []SeriesSummary
	Prescriptions []*models.Prescription
	ActiveCount   int
}

func upcomingWindow(now time.Time) time.Time {
	return now.AddDate(0, recurrence.UpcomingMonths, 0)
}

// Dashboard returns the patient's appointments and refills in the coming week
func (s *Service) Dashboard(ctx context.Context, patientID uuid.UUID, now time.Time) (*Dashboard, error) {
	patient, err := s.patient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	to := now.AddDate(0, 0, DashboardDays)
	appointments, err := s.appointmentOccurrences(ctx, patientID, now, to)
	if err != nil {
		return nil, err
	}

	active, err := s.prescriptions.ListActiveByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	var refills []recurrence.RefillOccurrence
	for _, rx := range active {
		refills = append(refills, recurrence.RefillOccurrences(rx, now, to)...)
	}
	recurrence.SortRefills(refills)

	return &Dashboard{
		Patient:      patient,
		From:         now,
		To:           to,
		Appointments: appointments,
		Refills:      refills,
	}, nil
}

// Appointments returns the next three months of appointments grouped by month
func (s *Service) Appointments(ctx context.Context, patientID uuid.UUID, now time.Time) (*AppointmentSchedule, error) {
	patient, err := s.patient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	to := upcomingWindow(now)
	occurrences, err := s.appointmentOccurrences(ctx, patientID, now, to)
	if err != nil {
		return nil, err
	}

	return &AppointmentSchedule{
		Patient: patient,
		From:    now,
		To:      to,
		Months:  groupByMonth(occurrences),
	}, nil
}

// Prescriptions returns the active prescriptions with their upcoming refills
func (s *Service) Prescriptions(ctx context.Context, patientID uuid.UUID, now time.Time) ([]PrescriptionSchedule, error) {
	if _, err := s.patient(ctx, patientID); err != nil {
		return nil, err
	}

	active, err := s.prescriptions.ListActiveByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}

	to := upcomingWindow(now)
	schedules := make([]PrescriptionSchedule, 0, len(active))
	for _, rx := range active {
		schedules = append(schedules, PrescriptionSchedule{
			Prescription: rx,
			Refills:      recurrence.RefillOccurrences(rx, now, to),
		})
	}
	return schedules, nil
}

// PatientDetail is the admin view of a patient
func (s *Service) PatientDetail(ctx context.Context, patientID uuid.UUID, now time.Time) (*PatientDetail, error) {
	patient, err := s.patient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	series, err := s.appointments.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	prescriptions, err := s.prescriptions.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}

	detail := &PatientDetail{
		Patient:       patient,
		Series:        make([]SeriesSummary, 0, len(series)),
		Prescriptions: prescriptions,
	}
	for _, a := range series {
		detail.Series = append(detail.Series, SeriesSummary{
			Series: a,
			Next:   recurrence.NextAppointmentDateAt(a, now),
		})
	}
	for _, rx := range prescriptions {
		if rx.Active {
			detail.ActiveCount++
		}
	}
	return detail, nil
}

func (s *Service) appointmentOccurrences(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]recurrence.AppointmentOccurrence, error) {
	series, err := s.appointments.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	var occurrences []recurrence.AppointmentOccurrence
	for _, a := range series {
		occurrences = append(occurrences, recurrence.AppointmentOccurrences(a, from, to)...)
	}
	recurrence.SortAppointments(occurrences)
	return occurrences, nil
}

// groupByMonth expects occurrences sorted by date
func groupByMonth(occurrences []recurrence.AppointmentOccurrence) []MonthGroup {
	var groups []MonthGroup
	for _, o := range occurrences {
		label := format.MonthLabel(o.Date)
		if n := len(groups); n > 0 && groups[n-1].Label == label {
			groups[n-1].Appointments = append(groups[n-1].Appointments, o)
			continue
		}
		groups = append(groups, MonthGroup{Label: label, Appointments: []recurrence.AppointmentOccurrence{o}})
	}
	return groups
}
