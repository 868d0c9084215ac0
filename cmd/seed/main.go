package main

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"github.com/hray3182/CarePortal/internal/config"
	"github.com/hray3182/CarePortal/internal/database"
	"github.com/hray3182/CarePortal/internal/logger"
	"github.com/hray3182/CarePortal/internal/repository"
	"github.com/hray3182/CarePortal/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L().Fatal("Failed to load config", zap.Error(err))
	}
	logger.Init(cfg.IsProduction(), cfg.LogLevel)
	defer logger.Sync()
	log := logger.L()

	path := flag.String("file", cfg.SeedFile, "seed data JSON file")
	flag.Parse()

	if cfg.DatabaseURI == "" {
		log.Fatal("DATABASE_URI is required")
	}

	data, err := seed.Load(*path)
	if err != nil {
		log.Fatal("Failed to load seed data", zap.Error(err))
	}

	ctx := context.Background()
	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	stores := seed.Stores{
		Patients:      repository.NewPatientRepository(db),
		Appointments:  repository.NewAppointmentRepository(db),
		Prescriptions: repository.NewPrescriptionRepository(db),
		Options:       repository.NewOptionRepository(db),
	}
	if err := seed.Run(ctx, data, stores); err != nil {
		log.Fatal("Seed failed", zap.Error(err))
	}

	log.Info("Seed completed", zap.String("file", *path), zap.Int("patients", len(data.Users)))
}
