package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hray3182/CarePortal/internal/auth"
	"github.com/hray3182/CarePortal/internal/bot/handlers"
	"github.com/hray3182/CarePortal/internal/logger"
	"github.com/hray3182/CarePortal/internal/portal"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	handlers *handlers.Handlers
}

func New(api *tgbotapi.BotAPI, svc *portal.Service, authenticator *auth.Authenticator, adminChatIDs []int64) *Bot {
	return &Bot{
		api:      api,
		handlers: handlers.New(api, svc, authenticator, adminChatIDs),
	}
}

// NewAPI connects to Telegram with the bot token
func NewAPI(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return api, nil
}

// OnChange registers a callback run after an admin adds to a patient's schedule
func (b *Bot) OnChange(fn func(patientID uuid.UUID)) {
	b.handlers.OnChange(fn)
}

func (b *Bot) Start(ctx context.Context) error {
	logger.L().Info("Authorized on Telegram", zap.String("account", b.api.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	if update.Message.IsCommand() {
		b.handlers.HandleCommand(ctx, update.Message)
		return
	}

	b.handlers.HandleMessage(ctx, update.Message)
}
