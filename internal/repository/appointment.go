package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hray3182/CarePortal/internal/database"
	"github.com/hray3182/CarePortal/internal/models"
)

const appointmentCols = `id, patient_id, provider_name, start_datetime, repeat, ends_on, created_at`

type AppointmentRepository struct {
	db *database.DB
}

func NewAppointmentRepository(db *database.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func scanAppointment(row pgx.Row) (*models.AppointmentSeries, error) {
	a := &models.AppointmentSeries{}
	if err := row.Scan(&a.ID, &a.PatientID, &a.ProviderName, &a.StartDateTime,
		&a.Repeat, &a.EndsOn, &a.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	a.StartDateTime = a.StartDateTime.Local()
	if a.EndsOn != nil {
		endsOn := localDate(*a.EndsOn)
		a.EndsOn = &endsOn
	}
	return a, nil
}

func (r *AppointmentRepository) Create(ctx context.Context, series *models.AppointmentSeries) error {
	if series.ID == uuid.Nil {
		series.ID = uuid.New()
	}
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO appointment_series (id, patient_id, provider_name, start_datetime, repeat, ends_on)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		series.ID, series.PatientID, series.ProviderName, series.StartDateTime,
		string(series.Repeat), series.EndsOn,
	).Scan(&series.CreatedAt)
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AppointmentSeries, error) {
	return scanAppointment(r.db.Pool.QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointment_series WHERE id = $1`, id))
}

// ListByPatient returns every series of the patient, most recent start first
func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*models.AppointmentSeries, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+appointmentCols+` FROM appointment_series
		 WHERE patient_id = $1
		 ORDER BY start_datetime DESC`,
		patientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var series []*models.AppointmentSeries
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		series = append(series, a)
	}
	return series, rows.Err()
}

func (r *AppointmentRepository) Update(ctx context.Context, series *models.AppointmentSeries) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE appointment_series
		 SET provider_name = $1, start_datetime = $2, repeat = $3, ends_on = $4
		 WHERE id = $5`,
		series.ProviderName, series.StartDateTime, string(series.Repeat), series.EndsOn, series.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM appointment_series WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
