package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hray3182/CarePortal/internal/models"
	"github.com/hray3182/CarePortal/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrNotLoggedIn        = errors.New("not logged in")
)

// PatientStore is the part of the patient repository the authenticator needs
type PatientStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Patient, error)
	GetByChatID(ctx context.Context, chatID int64) (*models.Patient, error)
	LinkChat(ctx context.Context, patientID uuid.UUID, chatID int64) error
	UnlinkChat(ctx context.Context, chatID int64) error
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Authenticator ties a Telegram chat to a patient account.
// A linked chat acts as the patient's session.
type Authenticator struct {
	patients PatientStore
}

func NewAuthenticator(patients PatientStore) *Authenticator {
	return &Authenticator{patients: patients}
}

func (a *Authenticator) Login(ctx context.Context, email, password string, chatID int64) (*models.Patient, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	patient, err := a.patients.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up patient: %w", err)
	}

	if !CheckPassword(patient.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	if err := a.patients.LinkChat(ctx, patient.ID, chatID); err != nil {
		return nil, fmt.Errorf("failed to link chat: %w", err)
	}
	patient.TelegramChatID = &chatID
	return patient, nil
}

func (a *Authenticator) Logout(ctx context.Context, chatID int64) error {
	if err := a.patients.UnlinkChat(ctx, chatID); err != nil {
		return fmt.Errorf("failed to unlink chat: %w", err)
	}
	return nil
}

// Current returns the patient logged in from the chat
func (a *Authenticator) Current(ctx context.Context, chatID int64) (*models.Patient, error) {
	patient, err := a.patients.GetByChatID(ctx, chatID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	return patient, nil
}
