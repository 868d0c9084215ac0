package handlers

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hray3182/CarePortal/internal/auth"
	"github.com/hray3182/CarePortal/internal/format"
	"github.com/hray3182/CarePortal/internal/logger"
	"github.com/hray3182/CarePortal/internal/portal"
)

// Sender is the part of the Telegram API the handlers use
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handlers struct {
	api      Sender
	portal   *portal.Service
	auth     *auth.Authenticator
	admins   map[int64]bool
	now      func() time.Time
	onChange func(patientID uuid.UUID)
}

func New(api Sender, svc *portal.Service, authenticator *auth.Authenticator, adminChatIDs []int64) *Handlers {
	admins := make(map[int64]bool, len(adminChatIDs))
	for _, id := range adminChatIDs {
		admins[id] = true
	}
	return &Handlers{
		api:      api,
		portal:   svc,
		auth:     authenticator,
		admins:   admins,
		now:      time.Now,
		onChange: func(uuid.UUID) {},
	}
}

// OnChange registers a callback run after a patient's schedule gains an
// appointment or prescription
func (h *Handlers) OnChange(fn func(patientID uuid.UUID)) {
	h.onChange = fn
}

func (h *Handlers) isAdmin(chatID int64) bool {
	return h.admins[chatID]
}

func (h *Handlers) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	logger.L().Debug("Command received",
		zap.String("command", msg.Command()),
		zap.Int64("chat_id", msg.Chat.ID))

	switch msg.Command() {
	case "start":
		h.handleStart(ctx, msg)
	case "help":
		h.handleHelp(ctx, msg)
	case "login":
		h.handleLogin(ctx, msg)
	case "logout":
		h.handleLogout(ctx, msg)
	case "dashboard":
		h.handleDashboard(ctx, msg)
	case "appointments":
		h.handleAppointments(ctx, msg)
	case "prescriptions":
		h.handlePrescriptions(ctx, msg)
	default:
		if h.isAdmin(msg.Chat.ID) && h.handleAdminCommand(ctx, msg) {
			return
		}
		h.sendMessage(msg.Chat.ID, "Unknown command, use /help to see what I can do")
	}
}

// HandleMessage answers plain text, which the portal does not interpret
func (h *Handlers) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	h.sendMessage(msg.Chat.ID, "Please use a command, see /help")
}

// sendMessage converts **bold** and `code` spans into entities before sending
func (h *Handlers) sendMessage(chatID int64, text string) {
	parsed := format.ParseMarkdown(text)
	msg := tgbotapi.NewMessage(chatID, parsed.Text)
	msg.Entities = parsed.Entities
	if _, err := h.api.Send(msg); err != nil {
		logger.L().Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (h *Handlers) deleteMessage(chatID int64, messageID int) {
	if _, err := h.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		logger.L().Warn("Failed to delete message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (h *Handlers) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	name := "there"
	if msg.From != nil && msg.From.FirstName != "" {
		name = msg.From.FirstName
	}
	h.sendMessage(msg.Chat.ID, "👋 Hello "+name+"!\n\n"+
		"I am your clinic's patient portal. I can show your upcoming appointments "+
		"and prescription refills, and send you a daily digest.\n\n"+
		"Log in with `/login <email> <password>` to get started. Use /help to see all commands.")
}

func (h *Handlers) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	text := `📖 **Commands**

**Account**
/login <email> <password> - log in from this chat
/logout - log out

**Schedule**
/dashboard - appointments and refills in the next 7 days
/appointments - appointments in the next 3 months
/prescriptions - active prescriptions and upcoming refills`

	if h.isAdmin(msg.Chat.ID) {
		text += `

**Admin**
/patients - list patients
/patient <id> - patient details
/newpatient <name> | <email> | <password>
/addappt <patient-id> | <provider> | <YYYY-MM-DD HH:MM> | <none|weekly|monthly|RRULE> [| <ends YYYY-MM-DD>]
/editappt <series-id> | <provider> | <YYYY-MM-DD HH:MM> | <none|weekly|monthly|RRULE> [| <ends YYYY-MM-DD>]
/addrx <patient-id> | <medication> | <dosage> | <qty> | <YYYY-MM-DD> | <none|weekly|monthly>
/editrx <prescription-id> | <medication> | <dosage> | <qty> | <YYYY-MM-DD> | <none|weekly|monthly>
/delappt <id> - delete an appointment series
/delrx <id> - delete a prescription
/stoprx <id> - stop a prescription
/startrx <id> - restart a stopped prescription
/meds - medication list
/doses - dosage list`
	}
	h.sendMessage(msg.Chat.ID, text)
}
