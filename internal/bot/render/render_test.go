package render

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"

	"github.com/hray3182/CarePortal/internal/format"
	"github.com/hray3182/CarePortal/internal/models"
	"github.com/hray3182/CarePortal/internal/portal"
	"github.com/hray3182/CarePortal/internal/recurrence"
)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.Local)
}

var mark = &models.Patient{ID: uuid.MustParse("8f1c9a52-5a4e-4f0e-9d0b-6f3b2b1c7d10"), Name: "Mark Johnson",
	Email: "mark@some-email-provider.net"}

func TestDashboard(t *testing.T) {
	d := &portal.Dashboard{
		Patient: mark,
		From:    at(2024, time.January, 10, 9, 0),
		To:      at(2024, time.January, 17, 9, 0),
		Appointments: []recurrence.AppointmentOccurrence{
			{Date: at(2024, time.January, 12, 14, 0), ProviderName: "Dr Adam Lee"},
		},
		Refills: []recurrence.RefillOccurrence{
			{Date: at(2024, time.January, 17, 0, 0), MedicationName: "Lexapro", DosageValue: "5mg", Quantity: 30},
		},
	}

	want := "**Hello Mark Johnson**\n" +
		"Your week from Jan 10, 2024 to Jan 17, 2024\n\n" +
		"**Appointments**\n" +
		"• Jan 12, 2024, 2:00 PM with Dr Adam Lee\n" +
		"\n**Refills**\n" +
		"• Jan 17, 2024: Lexapro 5mg x30\n"
	assert.Equal(t, want, Dashboard(d))

	parsed := format.ParseMarkdown(Dashboard(d))
	assert.Len(t, parsed.Entities, 3)
	assert.NotContains(t, parsed.Text, "**")
}

func TestDashboard_Empty(t *testing.T) {
	d := &portal.Dashboard{Patient: mark, From: at(2024, time.January, 10, 9, 0), To: at(2024, time.January, 17, 9, 0)}
	out := Dashboard(d)
	assert.Contains(t, out, "No appointments this week")
	assert.Contains(t, out, "No refills this week")
}

func TestAppointments(t *testing.T) {
	s := &portal.AppointmentSchedule{
		Patient: mark,
		To:      at(2024, time.April, 10, 9, 0),
		Months: []portal.MonthGroup{
			{Label: "January 2024", Appointments: []recurrence.AppointmentOccurrence{
				{Date: at(2024, time.January, 15, 10, 0), ProviderName: "Dr Kim Tran"},
			}},
			{Label: "February 2024", Appointments: []recurrence.AppointmentOccurrence{
				{Date: at(2024, time.February, 5, 10, 0), ProviderName: "Dr Kim Tran"},
			}},
		},
	}

	want := "**Upcoming appointments**\n" +
		"\n**January 2024**\n" +
		"• Jan 15, 2024, 10:00 AM with Dr Kim Tran\n" +
		"\n**February 2024**\n" +
		"• Feb 5, 2024, 10:00 AM with Dr Kim Tran\n"
	assert.Equal(t, want, Appointments(s))

	s.Months = nil
	assert.Contains(t, Appointments(s), "No appointments before Apr 10, 2024")
}

func TestPrescriptions(t *testing.T) {
	schedules := []portal.PrescriptionSchedule{
		{
			Prescription: &models.Prescription{MedicationName: "Diovan", DosageValue: "10mg", Quantity: 90,
				RefillSchedule: models.RepeatMonthly},
			Refills: []recurrence.RefillOccurrence{
				{Date: at(2024, time.January, 31, 0, 0)},
				{Date: at(2024, time.February, 29, 0, 0)},
			},
		},
		{
			Prescription: &models.Prescription{MedicationName: "Prozac", DosageValue: "20mg", Quantity: 30,
				RefillSchedule: models.RepeatNone},
		},
	}

	want := "**Prescriptions**\n" +
		"\n**Diovan** 10mg x90\n" +
		"Repeats monthly\n" +
		"Refills: Jan 31, 2024; Feb 29, 2024\n" +
		"\n**Prozac** 20mg x30\n" +
		"One-time\n" +
		"No refills in the next 3 months\n"
	assert.Equal(t, want, Prescriptions(schedules))
	assert.Contains(t, Prescriptions(nil), "No active prescriptions")
}

func TestPatientDetail(t *testing.T) {
	seriesID := uuid.MustParse("0b7e3c1d-2f4a-4c5b-8e6d-9a1b2c3d4e5f")
	rxID := uuid.MustParse("1c2d3e4f-5a6b-4c7d-8e9f-0a1b2c3d4e5f")
	d := &portal.PatientDetail{
		Patient: mark,
		Series: []portal.SeriesSummary{
			{
				Series: &models.AppointmentSeries{ID: seriesID, ProviderName: "Dr Sally Field",
					StartDateTime: at(2023, time.November, 15, 8, 30), Repeat: models.RepeatMonthly,
					EndsOn: &[]time.Time{at(2024, time.February, 20, 0, 0)}[0]},
				Next: mo.Some(at(2024, time.January, 15, 8, 30)),
			},
			{
				Series: &models.AppointmentSeries{ID: seriesID, ProviderName: "Dr Adam Lee",
					StartDateTime: at(2023, time.March, 1, 9, 0), Repeat: models.RepeatNone},
				Next: mo.None[time.Time](),
			},
		},
		Prescriptions: []*models.Prescription{
			{ID: rxID, MedicationName: "Prozac", DosageValue: "20mg", Quantity: 30,
				RefillOn: at(2024, time.January, 11, 0, 0), RefillSchedule: models.RepeatMonthly},
		},
	}

	out := PatientDetail(d)
	assert.Contains(t, out, "**Mark Johnson**\nmark@some-email-provider.net\n`8f1c9a52-5a4e-4f0e-9d0b-6f3b2b1c7d10`\n")
	assert.Contains(t, out, "• Dr Sally Field from Nov 15, 2023, 8:30 AM, Repeats monthly until Feb 20, 2024\n  Next: Jan 15, 2024, 8:30 AM\n")
	assert.Contains(t, out, "  Rule: `FREQ=MONTHLY;UNTIL=20240220T235959Z`\n  `0b7e3c1d-2f4a-4c5b-8e6d-9a1b2c3d4e5f`\n")
	assert.Contains(t, out, "• Dr Adam Lee from Mar 1, 2023, 9:00 AM, One-time\n  Next: none upcoming\n  `0b7e3c1d")
	assert.Equal(t, 1, strings.Count(out, "Rule:"))
	assert.Contains(t, out, "**Prescriptions** (0 active)\n")
	assert.Contains(t, out, "• Prozac 20mg x30 from Jan 11, 2024, Repeats monthly [stopped]\n")
}

func TestPatients(t *testing.T) {
	chat := int64(42)
	linked := &models.Patient{ID: uuid.New(), Name: "Lisa Smith", Email: "lisa@example.com", TelegramChatID: &chat}

	out := Patients([]*models.Patient{mark, linked})
	assert.Contains(t, out, "Mark Johnson <mark@some-email-provider.net>\n")
	assert.Contains(t, out, "Lisa Smith <lisa@example.com> (logged in)\n")
	assert.Contains(t, Patients(nil), "No patients yet")
}

func TestOptionLists(t *testing.T) {
	meds := []*models.MedicationOption{{Name: "Diovan"}, {Name: "Lexapro"}}
	assert.Equal(t, "**Medications**\n• Diovan\n• Lexapro\n", Medications(meds))
	assert.Equal(t, "**Dosages**\nNone\n", Dosages(nil))
}
