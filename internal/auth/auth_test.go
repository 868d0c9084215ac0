package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hray3182/CarePortal/internal/models"
	"github.com/hray3182/CarePortal/internal/repository"
)

type memoryPatients struct {
	byID map[uuid.UUID]*models.Patient
}

func newMemoryPatients(patients ...*models.Patient) *memoryPatients {
	m := &memoryPatients{byID: map[uuid.UUID]*models.Patient{}}
	for _, p := range patients {
		m.byID[p.ID] = p
	}
	return m
}

func (m *memoryPatients) GetByEmail(_ context.Context, email string) (*models.Patient, error) {
	for _, p := range m.byID {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryPatients) GetByChatID(_ context.Context, chatID int64) (*models.Patient, error) {
	for _, p := range m.byID {
		if p.TelegramChatID != nil && *p.TelegramChatID == chatID {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryPatients) LinkChat(ctx context.Context, patientID uuid.UUID, chatID int64) error {
	_ = m.UnlinkChat(ctx, chatID)
	p, ok := m.byID[patientID]
	if !ok {
		return repository.ErrNotFound
	}
	id := chatID
	p.TelegramChatID = &id
	return nil
}

func (m *memoryPatients) UnlinkChat(_ context.Context, chatID int64) error {
	for _, p := range m.byID {
		if p.TelegramChatID != nil && *p.TelegramChatID == chatID {
			p.TelegramChatID = nil
		}
	}
	return nil
}

func newPatient(t *testing.T, name, email, password string) *models.Patient {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	return &models.Patient{ID: uuid.New(), Name: name, Email: email, PasswordHash: hash}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Password123!")
	require.NoError(t, err)

	assert.NotEqual(t, "Password123!", hash)
	assert.True(t, CheckPassword(hash, "Password123!"))
	assert.False(t, CheckPassword(hash, "password123!"))
	assert.False(t, CheckPassword("not-a-hash", "Password123!"))
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	mark := newPatient(t, "Mark Johnson", "mark@some-email-provider.net", "Password123!")
	store := newMemoryPatients(mark)
	a := NewAuthenticator(store)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid credentials", "mark@some-email-provider.net", "Password123!", nil},
		{"email is case insensitive", "Mark@Some-Email-Provider.net", "Password123!", nil},
		{"wrong password", "mark@some-email-provider.net", "wrong", ErrInvalidCredentials},
		{"unknown email", "nobody@example.com", "Password123!", ErrInvalidCredentials},
		{"empty email", "  ", "Password123!", ErrInvalidCredentials},
		{"empty password", "mark@some-email-provider.net", "", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := a.Login(ctx, tt.email, tt.password, 42)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, mark.ID, p.ID)
			require.NotNil(t, p.TelegramChatID)
			assert.Equal(t, int64(42), *p.TelegramChatID)
		})
	}
}

func TestInvalidCredentialsMessage(t *testing.T) {
	assert.Equal(t, "Invalid email or password", ErrInvalidCredentials.Error())
}

func TestSession(t *testing.T) {
	ctx := context.Background()
	mark := newPatient(t, "Mark Johnson", "mark@some-email-provider.net", "Password123!")
	lisa := newPatient(t, "Lisa Smith", "lisa@some-email-provider.net", "Password123!")
	a := NewAuthenticator(newMemoryPatients(mark, lisa))

	_, err := a.Current(ctx, 7)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = a.Login(ctx, mark.Email, "Password123!", 7)
	require.NoError(t, err)

	current, err := a.Current(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, mark.ID, current.ID)

	// logging in as someone else from the same chat replaces the session
	_, err = a.Login(ctx, lisa.Email, "Password123!", 7)
	require.NoError(t, err)
	current, err = a.Current(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, lisa.ID, current.ID)
	assert.Nil(t, mark.TelegramChatID)

	require.NoError(t, a.Logout(ctx, 7))
	_, err = a.Current(ctx, 7)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}
