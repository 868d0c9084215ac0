package portal

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/hray3182/CarePortal/internal/models"
	"github.com/hray3182/CarePortal/internal/repository"
)

type memoryStore struct {
	patients      map[uuid.UUID]*models.Patient
	series        []*models.AppointmentSeries
	prescriptions []*models.Prescription
	medications   map[string]*models.MedicationOption
	dosages       map[string]*models.DosageOption
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		patients:    map[uuid.UUID]*models.Patient{},
		medications: map[string]*models.MedicationOption{},
		dosages:     map[string]*models.DosageOption{},
	}
}

func (m *memoryStore) service() *Service {
	return NewService(patientFake{m}, appointmentFake{m}, prescriptionFake{m}, optionFake{m})
}

type patientFake struct{ m *memoryStore }

func (f patientFake) Create(_ context.Context, p *models.Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.m.patients[p.ID] = p
	return nil
}

func (f patientFake) GetByID(_ context.Context, id uuid.UUID) (*models.Patient, error) {
	p, ok := f.m.patients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f patientFake) GetByEmail(_ context.Context, email string) (*models.Patient, error) {
	for _, p := range f.m.patients {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f patientFake) List(context.Context) ([]*models.Patient, error) {
	var list []*models.Patient
	for _, p := range f.m.patients {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

type appointmentFake struct{ m *memoryStore }

func (f appointmentFake) Create(_ context.Context, s *models.AppointmentSeries) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	f.m.series = append(f.m.series, s)
	return nil
}

func (f appointmentFake) GetByID(_ context.Context, id uuid.UUID) (*models.AppointmentSeries, error) {
	for _, s := range f.m.series {
		if s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f appointmentFake) Update(_ context.Context, series *models.AppointmentSeries) error {
	for i, s := range f.m.series {
		if s.ID == series.ID {
			copied := *series
			f.m.series[i] = &copied
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f appointmentFake) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*models.AppointmentSeries, error) {
	var list []*models.AppointmentSeries
	for _, s := range f.m.series {
		if s.PatientID == patientID {
			list = append(list, s)
		}
	}
	return list, nil
}

func (f appointmentFake) Delete(_ context.Context, id uuid.UUID) error {
	for i, s := range f.m.series {
		if s.ID == id {
			f.m.series = append(f.m.series[:i], f.m.series[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type prescriptionFake struct{ m *memoryStore }

func (f prescriptionFake) Create(_ context.Context, rx *models.Prescription) error {
	if rx.ID == uuid.Nil {
		rx.ID = uuid.New()
	}
	f.m.prescriptions = append(f.m.prescriptions, rx)
	return nil
}

func (f prescriptionFake) GetByID(_ context.Context, id uuid.UUID) (*models.Prescription, error) {
	for _, rx := range f.m.prescriptions {
		if rx.ID == id {
			copied := *rx
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f prescriptionFake) Update(_ context.Context, updated *models.Prescription) error {
	for i, rx := range f.m.prescriptions {
		if rx.ID == updated.ID {
			copied := *updated
			f.m.prescriptions[i] = &copied
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f prescriptionFake) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*models.Prescription, error) {
	var list []*models.Prescription
	for _, rx := range f.m.prescriptions {
		if rx.PatientID == patientID {
			list = append(list, rx)
		}
	}
	return list, nil
}

func (f prescriptionFake) ListActiveByPatient(ctx context.Context, patientID uuid.UUID) ([]*models.Prescription, error) {
	all, _ := f.ListByPatient(ctx, patientID)
	var list []*models.Prescription
	for _, rx := range all {
		if rx.Active {
			list = append(list, rx)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].RefillOn.Before(list[j].RefillOn) })
	return list, nil
}

func (f prescriptionFake) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	for _, rx := range f.m.prescriptions {
		if rx.ID == id {
			rx.Active = active
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f prescriptionFake) Delete(_ context.Context, id uuid.UUID) error {
	for i, rx := range f.m.prescriptions {
		if rx.ID == id {
			f.m.prescriptions = append(f.m.prescriptions[:i], f.m.prescriptions[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type optionFake struct{ m *memoryStore }

func (f optionFake) ListMedications(context.Context) ([]*models.MedicationOption, error) {
	var list []*models.MedicationOption
	for _, o := range f.m.medications {
		list = append(list, o)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (f optionFake) ListDosages(context.Context) ([]*models.DosageOption, error) {
	var list []*models.DosageOption
	for _, o := range f.m.dosages {
		list = append(list, o)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Value < list[j].Value })
	return list, nil
}

func (f optionFake) UpsertMedication(_ context.Context, name string) (*models.MedicationOption, error) {
	if o, ok := f.m.medications[name]; ok {
		return o, nil
	}
	o := &models.MedicationOption{ID: uuid.New(), Name: name}
	f.m.medications[name] = o
	return o, nil
}

func (f optionFake) UpsertDosage(_ context.Context, value string) (*models.DosageOption, error) {
	if o, ok := f.m.dosages[value]; ok {
		return o, nil
	}
	o := &models.DosageOption{ID: uuid.New(), Value: value}
	f.m.dosages[value] = o
	return o, nil
}
