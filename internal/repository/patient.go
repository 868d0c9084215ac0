package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hray3182/CarePortal/internal/database"
	"github.com/hray3182/CarePortal/internal/models"
)

const patientCols = `id, name, email, password_hash, telegram_chat_id, created_at`

type PatientRepository struct {
	db *database.DB
}

func NewPatientRepository(db *database.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func scanPatient(row pgx.Row) (*models.Patient, error) {
	p := &models.Patient{}
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.TelegramChatID, &p.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO patients (id, name, email, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		patient.ID, patient.Name, patient.Email, patient.PasswordHash,
	).Scan(&patient.CreatedAt)
}

func (r *PatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	return scanPatient(r.db.Pool.QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
}

func (r *PatientRepository) GetByEmail(ctx context.Context, email string) (*models.Patient, error) {
	return scanPatient(r.db.Pool.QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE lower(email) = lower($1)`, email))
}

func (r *PatientRepository) GetByChatID(ctx context.Context, chatID int64) (*models.Patient, error) {
	return scanPatient(r.db.Pool.QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE telegram_chat_id = $1`, chatID))
}

func (r *PatientRepository) List(ctx context.Context) ([]*models.Patient, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+patientCols+` FROM patients ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanPatients(rows)
}

// ListLinked returns patients that are logged in from a Telegram chat
func (r *PatientRepository) ListLinked(ctx context.Context) ([]*models.Patient, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+patientCols+` FROM patients WHERE telegram_chat_id IS NOT NULL ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanPatients(rows)
}

func (r *PatientRepository) Update(ctx context.Context, patient *models.Patient) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE patients SET name = $1, email = $2, password_hash = $3 WHERE id = $4`,
		patient.Name, patient.Email, patient.PasswordHash, patient.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// LinkChat logs a Telegram chat in as the patient. A chat can only be linked
// to one patient, so any previous link for the chat is cleared first.
func (r *PatientRepository) LinkChat(ctx context.Context, patientID uuid.UUID, chatID int64) error {
	return pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE patients SET telegram_chat_id = NULL WHERE telegram_chat_id = $1 AND id <> $2`,
			chatID, patientID,
		); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx,
			`UPDATE patients SET telegram_chat_id = $1 WHERE id = $2`,
			chatID, patientID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *PatientRepository) UnlinkChat(ctx context.Context, chatID int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE patients SET telegram_chat_id = NULL WHERE telegram_chat_id = $1`,
		chatID,
	)
	return err
}

func (r *PatientRepository) scanPatients(rows pgx.Rows) ([]*models.Patient, error) {
	var patients []*models.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}
