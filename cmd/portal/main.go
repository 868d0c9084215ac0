package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hray3182/CarePortal/internal/auth"
	"github.com/hray3182/CarePortal/internal/bot"
	"github.com/hray3182/CarePortal/internal/config"
	"github.com/hray3182/CarePortal/internal/database"
	"github.com/hray3182/CarePortal/internal/logger"
	"github.com/hray3182/CarePortal/internal/portal"
	"github.com/hray3182/CarePortal/internal/repository"
	"github.com/hray3182/CarePortal/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L().Fatal("Failed to load config", zap.Error(err))
	}
	logger.Init(cfg.IsProduction(), cfg.LogLevel)
	defer logger.Sync()
	log := logger.L()

	if cfg.DatabaseURI == "" {
		log.Fatal("DATABASE_URI is required")
	}
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}
	if len(cfg.AdminChatIDs) == 0 {
		log.Warn("ADMIN_CHAT_IDS is empty, admin commands are disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	log.Info("Connected to database")

	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	patients := repository.NewPatientRepository(db)
	svc := portal.NewService(
		patients,
		repository.NewAppointmentRepository(db),
		repository.NewPrescriptionRepository(db),
		repository.NewOptionRepository(db),
	)

	api, err := bot.NewAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatal("Failed to create Telegram API", zap.Error(err))
	}

	sched, err := scheduler.New(api, patients, svc, cfg.DigestCron)
	if err != nil {
		log.Fatal("Failed to create scheduler", zap.Error(err))
	}
	go sched.Start(ctx)

	b := bot.New(api, svc, auth.NewAuthenticator(patients), cfg.AdminChatIDs)
	b.OnChange(func(patientID uuid.UUID) {
		go sched.NotifyPatient(ctx, patientID)
	})

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("Shutting down...")
		cancel()
	}()

	log.Info("Starting bot", zap.String("env", cfg.Env))
	if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("Bot error", zap.Error(err))
	}
}
