package models

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	TelegramChatID *int64    `json:"telegram_chat_id"` // Chat currently logged in as this patient
	CreatedAt      time.Time `json:"created_at"`
}

// IsLinked returns true if a Telegram chat is logged in as this patient
func (p *Patient) IsLinked() bool {
	return p.TelegramChatID != nil
}
