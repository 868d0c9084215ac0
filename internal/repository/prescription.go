package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hray3182/CarePortal/internal/database"
	"github.com/hray3182/CarePortal/internal/models"
)

const prescriptionCols = `id, patient_id, medication_name, dosage_value, quantity,
	refill_on, refill_schedule, active, created_at`

type PrescriptionRepository struct {
	db *database.DB
}

func NewPrescriptionRepository(db *database.DB) *PrescriptionRepository {
	return &PrescriptionRepository{db: db}
}

func scanPrescription(row pgx.Row) (*models.Prescription, error) {
	p := &models.Prescription{}
	if err := row.Scan(&p.ID, &p.PatientID, &p.MedicationName, &p.DosageValue, &p.Quantity,
		&p.RefillOn, &p.RefillSchedule, &p.Active, &p.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	p.RefillOn = localDate(p.RefillOn)
	return p, nil
}

func (r *PrescriptionRepository) Create(ctx context.Context, rx *models.Prescription) error {
	if rx.ID == uuid.Nil {
		rx.ID = uuid.New()
	}
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO prescriptions (id, patient_id, medication_name, dosage_value, quantity,
		 refill_on, refill_schedule, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		rx.ID, rx.PatientID, rx.MedicationName, rx.DosageValue, rx.Quantity,
		rx.RefillOn, string(rx.RefillSchedule), rx.Active,
	).Scan(&rx.CreatedAt)
}

func (r *PrescriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Prescription, error) {
	return scanPrescription(r.db.Pool.QueryRow(ctx,
		`SELECT `+prescriptionCols+` FROM prescriptions WHERE id = $1`, id))
}

// ListByPatient returns all prescriptions of the patient, newest first
func (r *PrescriptionRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*models.Prescription, error) {
	return r.query(ctx,
		`SELECT `+prescriptionCols+` FROM prescriptions
		 WHERE patient_id = $1
		 ORDER BY created_at DESC`,
		patientID,
	)
}

// ListActiveByPatient returns the active prescriptions ordered by first refill date
func (r *PrescriptionRepository) ListActiveByPatient(ctx context.Context, patientID uuid.UUID) ([]*models.Prescription, error) {
	return r.query(ctx,
		`SELECT `+prescriptionCols+` FROM prescriptions
		 WHERE patient_id = $1 AND active = TRUE
		 ORDER BY refill_on ASC`,
		patientID,
	)
}

func (r *PrescriptionRepository) Update(ctx context.Context, rx *models.Prescription) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE prescriptions
		 SET medication_name = $1, dosage_value = $2, quantity = $3,
		     refill_on = $4, refill_schedule = $5, active = $6
		 WHERE id = $7`,
		rx.MedicationName, rx.DosageValue, rx.Quantity,
		rx.RefillOn, string(rx.RefillSchedule), rx.Active, rx.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PrescriptionRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE prescriptions SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PrescriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM prescriptions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PrescriptionRepository) query(ctx context.Context, sql string, args ...any) ([]*models.Prescription, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prescriptions []*models.Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, err
		}
		prescriptions = append(prescriptions, p)
	}
	return prescriptions, rows.Err()
}
