package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/hray3182/CarePortal/internal/database"
	"github.com/hray3182/CarePortal/internal/models"
)

// OptionRepository manages the medication and dosage picklists
type OptionRepository struct {
	db *database.DB
}

func NewOptionRepository(db *database.DB) *OptionRepository {
	return &OptionRepository{db: db}
}

func (r *OptionRepository) ListMedications(ctx context.Context) ([]*models.MedicationOption, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, name, created_at FROM medication_options ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []*models.MedicationOption
	for rows.Next() {
		o := &models.MedicationOption{}
		if err := rows.Scan(&o.ID, &o.Name, &o.CreatedAt); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

func (r *OptionRepository) ListDosages(ctx context.Context) ([]*models.DosageOption, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, value, created_at FROM dosage_options ORDER BY value ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []*models.DosageOption
	for rows.Next() {
		o := &models.DosageOption{}
		if err := rows.Scan(&o.ID, &o.Value, &o.CreatedAt); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

// UpsertMedication returns the existing option with this name or creates it
func (r *OptionRepository) UpsertMedication(ctx context.Context, name string) (*models.MedicationOption, error) {
	o := &models.MedicationOption{}
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO medication_options (id, name) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, name, created_at`,
		uuid.New(), name,
	).Scan(&o.ID, &o.Name, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OptionRepository) UpsertDosage(ctx context.Context, value string) (*models.DosageOption, error) {
	o := &models.DosageOption{}
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO dosage_options (id, value) VALUES ($1, $2)
		 ON CONFLICT (value) DO UPDATE SET value = EXCLUDED.value
		 RETURNING id, value, created_at`,
		uuid.New(), value,
	).Scan(&o.ID, &o.Value, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}
