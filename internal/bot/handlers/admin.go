package handlers

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hray3182/CarePortal/internal/bot/render"
	"github.com/hray3182/CarePortal/internal/format"
	"github.com/hray3182/CarePortal/internal/logger"
	"github.com/hray3182/CarePortal/internal/portal"
	"github.com/hray3182/CarePortal/internal/rrule"
)

// handleAdminCommand reports whether the command was an admin command
func (h *Handlers) handleAdminCommand(ctx context.Context, msg *tgbotapi.Message) bool {
	switch msg.Command() {
	case "patients":
		h.handlePatients(ctx, msg)
	case "patient":
		h.handlePatient(ctx, msg)
	case "newpatient":
		h.handleNewPatient(ctx, msg)
	case "addappt":
		h.handleAddAppointment(ctx, msg)
	case "addrx":
		h.handleAddPrescription(ctx, msg)
	case "editappt":
		h.handleEditAppointment(ctx, msg)
	case "editrx":
		h.handleEditPrescription(ctx, msg)
	case "delappt":
		h.withID(msg, "/delappt <id>", func(id uuid.UUID) {
			if err := h.portal.DeleteAppointment(ctx, id); err != nil {
				h.replyError(msg.Chat.ID, "Failed to delete appointment", err)
				return
			}
			h.sendMessage(msg.Chat.ID, "🗑 Appointment series deleted")
		})
	case "delrx":
		h.withID(msg, "/delrx <id>", func(id uuid.UUID) {
			if err := h.portal.DeletePrescription(ctx, id); err != nil {
				h.replyError(msg.Chat.ID, "Failed to delete prescription", err)
				return
			}
			h.sendMessage(msg.Chat.ID, "🗑 Prescription deleted")
		})
	case "stoprx":
		h.withID(msg, "/stoprx <id>", func(id uuid.UUID) {
			if err := h.portal.StopPrescription(ctx, id); err != nil {
				h.replyError(msg.Chat.ID, "Failed to stop prescription", err)
				return
			}
			h.sendMessage(msg.Chat.ID, "⏹ Prescription stopped, no further refills")
		})
	case "startrx":
		h.withID(msg, "/startrx <id>", func(id uuid.UUID) {
			rx, err := h.portal.RestartPrescription(ctx, id)
			if err != nil {
				h.replyError(msg.Chat.ID, "Failed to restart prescription", err)
				return
			}
			h.onChange(rx.PatientID)
			h.sendMessage(msg.Chat.ID, "▶️ **"+rx.MedicationName+"** restarted, refills are scheduled again")
		})
	case "meds":
		options, err := h.portal.Medications(ctx)
		if err != nil {
			h.replyError(msg.Chat.ID, "Failed to load medications", err)
			return true
		}
		h.sendMessage(msg.Chat.ID, render.Medications(options))
	case "doses":
		options, err := h.portal.Dosages(ctx)
		if err != nil {
			h.replyError(msg.Chat.ID, "Failed to load dosages", err)
			return true
		}
		h.sendMessage(msg.Chat.ID, render.Dosages(options))
	default:
		return false
	}
	return true
}

func (h *Handlers) withID(msg *tgbotapi.Message, usage string, fn func(id uuid.UUID)) {
	id, err := parseID(msg.CommandArguments())
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Usage: `"+usage+"`")
		return
	}
	fn(id)
}

func (h *Handlers) handlePatients(ctx context.Context, msg *tgbotapi.Message) {
	patients, err := h.portal.ListPatients(ctx)
	if err != nil {
		h.replyError(msg.Chat.ID, "Failed to list patients", err)
		return
	}
	h.sendMessage(msg.Chat.ID, render.Patients(patients))
}

func (h *Handlers) handlePatient(ctx context.Context, msg *tgbotapi.Message) {
	h.withID(msg, "/patient <id>", func(id uuid.UUID) {
		detail, err := h.portal.PatientDetail(ctx, id, h.now())
		if err != nil {
			h.replyError(msg.Chat.ID, "Failed to load patient", err)
			return
		}
		h.sendMessage(msg.Chat.ID, render.PatientDetail(detail))
	})
}

func (h *Handlers) handleNewPatient(ctx context.Context, msg *tgbotapi.Message) {
	// contains a password
	h.deleteMessage(msg.Chat.ID, msg.MessageID)

	in, err := parseNewPatient(msg.CommandArguments())
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Usage: `/newpatient <name> | <email> | <password>`")
		return
	}

	patient, err := h.portal.CreatePatient(ctx, in)
	if err != nil {
		h.replyError(msg.Chat.ID, "Failed to create patient", err)
		return
	}
	h.sendMessage(msg.Chat.ID, "✅ Patient **"+patient.Name+"** created\n`"+patient.ID.String()+"`")
}

func (h *Handlers) handleAddAppointment(ctx context.Context, msg *tgbotapi.Message) {
	in, err := parseNewAppointment(msg.CommandArguments())
	if err != nil {
		h.sendMessage(msg.Chat.ID, "❌ "+err.Error()+"\nUsage: `/addappt <patient-id> | <provider> | <YYYY-MM-DD HH:MM> | <none|weekly|monthly|RRULE> [| <ends YYYY-MM-DD>]`")
		return
	}

	series, err := h.portal.CreateAppointment(ctx, in)
	if err != nil {
		h.replyError(msg.Chat.ID, "Failed to add appointment", err)
		return
	}
	h.onChange(series.PatientID)
	h.sendMessage(msg.Chat.ID, "📅 Appointment with **"+series.ProviderName+"** on "+
		format.DateTime(series.StartDateTime)+"\n"+rrule.Describe(series.Repeat, series.EndsOn)+
		"\n`"+series.ID.String()+"`")
}

func (h *Handlers) handleAddPrescription(ctx context.Context, msg *tgbotapi.Message) {
	in, err := parseNewPrescription(msg.CommandArguments())
	if err != nil {
		h.sendMessage(msg.Chat.ID, "❌ "+err.Error()+"\nUsage: `/addrx <patient-id> | <medication> | <dosage> | <qty> | <YYYY-MM-DD> | <none|weekly|monthly>`")
		return
	}

	rx, err := h.portal.CreatePrescription(ctx, in)
	if err != nil {
		h.replyError(msg.Chat.ID, "Failed to add prescription", err)
		return
	}
	h.onChange(rx.PatientID)
	h.sendMessage(msg.Chat.ID, "💊 **"+rx.MedicationName+"** "+rx.DosageValue+
		", first refill "+format.Date(rx.RefillOn)+"\n"+rrule.Describe(rx.RefillSchedule, nil)+
		"\n`"+rx.ID.String()+"`")
}

const (
	editAppointmentUsage  = "Usage: `/editappt <series-id> | <provider> | <YYYY-MM-DD HH:MM> | <none|weekly|monthly|RRULE> [| <ends YYYY-MM-DD>]`"
	editPrescriptionUsage = "Usage: `/editrx <prescription-id> | <medication> | <dosage> | <qty> | <YYYY-MM-DD> | <none|weekly|monthly>`"
)

func (h *Handlers) handleEditAppointment(ctx context.Context, msg *tgbotapi.Message) {
	id, in, err := parseAppointment(msg.CommandArguments())
	if err != nil {
		h.sendMessage(msg.Chat.ID, "❌ "+err.Error()+"\n"+editAppointmentUsage)
		return
	}

	series, err := h.portal.UpdateAppointment(ctx, id, in)
	if err != nil {
		h.replyError(msg.Chat.ID, "Failed to update appointment", err)
		return
	}
	h.onChange(series.PatientID)
	h.sendMessage(msg.Chat.ID, "✏️ Appointment with **"+series.ProviderName+"** now on "+
		format.DateTime(series.StartDateTime)+"\n"+rrule.Describe(series.Repeat, series.EndsOn))
}

func (h *Handlers) handleEditPrescription(ctx context.Context, msg *tgbotapi.Message) {
	id, in, err := parsePrescription(msg.CommandArguments())
	if err != nil {
		h.sendMessage(msg.Chat.ID, "❌ "+err.Error()+"\n"+editPrescriptionUsage)
		return
	}

	rx, err := h.portal.UpdatePrescription(ctx, id, in)
	if err != nil {
		h.replyError(msg.Chat.ID, "Failed to update prescription", err)
		return
	}
	h.onChange(rx.PatientID)
	h.sendMessage(msg.Chat.ID, "✏️ **"+rx.MedicationName+"** "+rx.DosageValue+
		", first refill "+format.Date(rx.RefillOn)+"\n"+rrule.Describe(rx.RefillSchedule, nil))
}

// replyError shows validation and lookup errors to the user and logs the rest
func (h *Handlers) replyError(chatID int64, action string, err error) {
	switch {
	case errors.Is(err, portal.ErrInvalidInput),
		errors.Is(err, portal.ErrPatientNotFound),
		errors.Is(err, portal.ErrAppointmentNotFound),
		errors.Is(err, portal.ErrPrescriptionNotFound):
		h.sendMessage(chatID, "❌ "+action+": "+err.Error())
	default:
		logger.L().Error(action, zap.Int64("chat_id", chatID), zap.Error(err))
		h.sendMessage(chatID, action+", please try again later")
	}
}
