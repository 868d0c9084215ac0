package handlers

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/hray3182/CarePortal/internal/auth"
	"github.com/hray3182/CarePortal/internal/bot/render"
	"github.com/hray3182/CarePortal/internal/logger"
	"github.com/hray3182/CarePortal/internal/models"
)

func (h *Handlers) handleLogin(ctx context.Context, msg *tgbotapi.Message) {
	// the message holds a password, so it is removed whatever the outcome
	h.deleteMessage(msg.Chat.ID, msg.MessageID)

	fields := strings.Fields(msg.CommandArguments())
	if len(fields) != 2 {
		h.sendMessage(msg.Chat.ID, "Usage: `/login <email> <password>`")
		return
	}

	patient, err := h.auth.Login(ctx, fields[0], fields[1], msg.Chat.ID)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.sendMessage(msg.Chat.ID, "❌ "+auth.ErrInvalidCredentials.Error())
		return
	}
	if err != nil {
		logger.L().Error("Login failed", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
		h.sendMessage(msg.Chat.ID, "Login failed, please try again later")
		return
	}

	logger.L().Info("Patient logged in",
		zap.String("patient_id", patient.ID.String()),
		zap.Int64("chat_id", msg.Chat.ID))
	h.sendMessage(msg.Chat.ID, "✅ Logged in as **"+patient.Name+"**\nUse /dashboard to see your week.")
}

func (h *Handlers) handleLogout(ctx context.Context, msg *tgbotapi.Message) {
	if err := h.auth.Logout(ctx, msg.Chat.ID); err != nil {
		logger.L().Error("Logout failed", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
		h.sendMessage(msg.Chat.ID, "Logout failed, please try again later")
		return
	}
	h.sendMessage(msg.Chat.ID, "👋 Logged out")
}

// currentPatient replies with a login hint and returns nil when the chat
// has no session.
func (h *Handlers) currentPatient(ctx context.Context, msg *tgbotapi.Message) *models.Patient {
	patient, err := h.auth.Current(ctx, msg.Chat.ID)
	if errors.Is(err, auth.ErrNotLoggedIn) {
		h.sendMessage(msg.Chat.ID, "Please log in first: `/login <email> <password>`")
		return nil
	}
	if err != nil {
		logger.L().Error("Failed to load session", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
		h.sendMessage(msg.Chat.ID, "Something went wrong, please try again later")
		return nil
	}
	return patient
}

func (h *Handlers) handleDashboard(ctx context.Context, msg *tgbotapi.Message) {
	patient := h.currentPatient(ctx, msg)
	if patient == nil {
		return
	}

	d, err := h.portal.Dashboard(ctx, patient.ID, h.now())
	if err != nil {
		h.replyError(msg.Chat.ID, "Failed to load dashboard", err)
		return
	}
	h.sendMessage(msg.Chat.ID, render.Dashboard(d))
}

func (h *Handlers) handleAppointments(ctx context.Context, msg *tgbotapi.Message) {
	patient := h.currentPatient(ctx, msg)
	if patient == nil {
		return
	}

	schedule, err := h.portal.Appointments(ctx, patient.ID, h.now())
	if err != nil {
		h.replyError(msg.Chat.ID, "Failed to load appointments", err)
		return
	}
	h.sendMessage(msg.Chat.ID, render.Appointments(schedule))
}

func (h *Handlers) handlePrescriptions(ctx context.Context, msg *tgbotapi.Message) {
	patient := h.currentPatient(ctx, msg)
	if patient == nil {
		return
	}

	schedules, err := h.portal.Prescriptions(ctx, patient.ID, h.now())
	if err != nil {
		h.replyError(msg.Chat.ID, "Failed to load prescriptions", err)
		return
	}
	h.sendMessage(msg.Chat.ID, render.Prescriptions(schedules))
}
