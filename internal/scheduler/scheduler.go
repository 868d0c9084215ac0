package scheduler

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/hray3182/CarePortal/internal/bot/render"
	"github.com/hray3182/CarePortal/internal/format"
	"github.com/hray3182/CarePortal/internal/logger"
	"github.com/hray3182/CarePortal/internal/models"
	"github.com/hray3182/CarePortal/internal/portal"
)

type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type PatientStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Patient, error)
	ListLinked(ctx context.Context) ([]*models.Patient, error)
}

type DashboardBuilder interface {
	Dashboard(ctx context.Context, patientID uuid.UUID, now time.Time) (*portal.Dashboard, error)
}

// Scheduler sends each logged-in patient a digest of their coming week
type Scheduler struct {
	api       Sender
	patients  PatientStore
	dashboard DashboardBuilder
	schedule  cron.Schedule
	expr      string
	now       func() time.Time
	notifyCh  chan struct{}
}

func New(api Sender, patients PatientStore, dashboard DashboardBuilder, expr string) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", expr, err)
	}
	return &Scheduler{
		api:       api,
		patients:  patients,
		dashboard: dashboard,
		schedule:  schedule,
		expr:      expr,
		now:       time.Now,
		notifyCh:  make(chan struct{}, 1),
	}, nil
}

// Notify triggers an immediate digest run. Non-blocking if a run is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// Next returns the next scheduled digest time after t
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Start runs digests on the cron schedule until ctx is cancelled.
// Cron only signals the loop, so runs never overlap.
func (s *Scheduler) Start(ctx context.Context) {
	c := cron.New()
	c.Schedule(s.schedule, cron.FuncJob(s.Notify))
	c.Start()
	logger.L().Info("Scheduler started",
		zap.String("schedule", s.expr),
		zap.Time("next_run", s.Next(s.now())))

	for {
		select {
		case <-ctx.Done():
			<-c.Stop().Done()
			logger.L().Info("Scheduler stopped")
			return
		case <-s.notifyCh:
			s.sendDigests(ctx)
		}
	}
}

func (s *Scheduler) sendDigests(ctx context.Context) {
	patients, err := s.patients.ListLinked(ctx)
	if err != nil {
		logger.L().Error("Failed to list logged-in patients", zap.Error(err))
		return
	}

	now := s.now()
	sent := 0
	for _, p := range patients {
		ok, err := s.sendDigest(ctx, p, now)
		if err != nil {
			logger.L().Error("Failed to send digest",
				zap.String("patient_id", p.ID.String()), zap.Error(err))
			continue
		}
		if ok {
			sent++
		}
	}
	logger.L().Info("Digest run finished", zap.Int("patients", len(patients)), zap.Int("sent", sent))
}

// NotifyPatient sends the patient a fresh digest after their schedule changed
func (s *Scheduler) NotifyPatient(ctx context.Context, patientID uuid.UUID) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		logger.L().Warn("Failed to load patient for digest",
			zap.String("patient_id", patientID.String()), zap.Error(err))
		return
	}
	if _, err := s.sendDigest(ctx, p, s.now()); err != nil {
		logger.L().Error("Failed to send digest",
			zap.String("patient_id", patientID.String()), zap.Error(err))
	}
}

// sendDigest reports whether a message was sent. Patients without a linked
// chat or with nothing coming up are skipped.
func (s *Scheduler) sendDigest(ctx context.Context, p *models.Patient, now time.Time) (bool, error) {
	if !p.IsLinked() {
		return false, nil
	}

	d, err := s.dashboard.Dashboard(ctx, p.ID, now)
	if err != nil {
		return false, err
	}
	if d.IsEmpty() {
		return false, nil
	}

	parsed := format.ParseMarkdown("🗓 **Your digest**\n\n" + render.Dashboard(d))
	msg := tgbotapi.NewMessage(*p.TelegramChatID, parsed.Text)
	msg.Entities = parsed.Entities
	if _, err := s.api.Send(msg); err != nil {
		return false, fmt.Errorf("failed to send message: %w", err)
	}
	return true, nil
}
