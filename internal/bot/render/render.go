// Package render builds the Markdown text of portal views sent over Telegram.
// Output uses the **bold** and `code` spans understood by format.ParseMarkdown.
package render

import (
	"fmt"
	"strings"

	"github.com/hray3182/CarePortal/internal/format"
	"github.com/hray3182/CarePortal/internal/models"
	"github.com/hray3182/CarePortal/internal/portal"
	"github.com/hray3182/CarePortal/internal/recurrence"
	"github.com/hray3182/CarePortal/internal/rrule"
)

func appointmentLine(o recurrence.AppointmentOccurrence) string {
	return fmt.Sprintf("• %s with %s\n", format.DateTime(o.Date), o.ProviderName)
}

func refillLine(o recurrence.RefillOccurrence) string {
	return fmt.Sprintf("• %s: %s %s x%d\n", format.Date(o.Date), o.MedicationName, o.DosageValue, o.Quantity)
}

func Dashboard(d *portal.Dashboard) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Hello %s**\n", d.Patient.Name)
	fmt.Fprintf(&sb, "Your week from %s to %s\n\n", format.Date(d.From), format.Date(d.To))

	sb.WriteString("**Appointments**\n")
	if len(d.Appointments) == 0 {
		sb.WriteString("No appointments this week\n")
	}
	for _, o := range d.Appointments {
		sb.WriteString(appointmentLine(o))
	}

	sb.WriteString("\n**Refills**\n")
	if len(d.Refills) == 0 {
		sb.WriteString("No refills this week\n")
	}
	for _, o := range d.Refills {
		sb.WriteString(refillLine(o))
	}
	return sb.String()
}

func Appointments(s *portal.AppointmentSchedule) string {
	var sb strings.Builder
	sb.WriteString("**Upcoming appointments**\n")
	if len(s.Months) == 0 {
		fmt.Fprintf(&sb, "\nNo appointments before %s\n", format.Date(s.To))
		return sb.String()
	}
	for _, month := range s.Months {
		fmt.Fprintf(&sb, "\n**%s**\n", month.Label)
		for _, o := range month.Appointments {
			sb.WriteString(appointmentLine(o))
		}
	}
	return sb.String()
}

func Prescriptions(schedules []portal.PrescriptionSchedule) string {
	var sb strings.Builder
	sb.WriteString("**Prescriptions**\n")
	if len(schedules) == 0 {
		sb.WriteString("\nNo active prescriptions\n")
		return sb.String()
	}
	for _, s := range schedules {
		rx := s.Prescription
		fmt.Fprintf(&sb, "\n**%s** %s x%d\n", rx.MedicationName, rx.DosageValue, rx.Quantity)
		sb.WriteString(rrule.Describe(rx.RefillSchedule, nil) + "\n")
		if len(s.Refills) == 0 {
			sb.WriteString("No refills in the next 3 months\n")
			continue
		}
		dates := make([]string, 0, len(s.Refills))
		for _, o := range s.Refills {
			dates = append(dates, format.Date(o.Date))
		}
		sb.WriteString("Refills: " + strings.Join(dates, "; ") + "\n")
	}
	return sb.String()
}

func Patients(patients []*models.Patient) string {
	var sb strings.Builder
	sb.WriteString("**Patients**\n")
	if len(patients) == 0 {
		sb.WriteString("\nNo patients yet\n")
		return sb.String()
	}
	for _, p := range patients {
		linked := ""
		if p.IsLinked() {
			linked = " (logged in)"
		}
		fmt.Fprintf(&sb, "\n%s <%s>%s\n`%s`\n", p.Name, p.Email, linked, p.ID)
	}
	return sb.String()
}

func PatientDetail(d *portal.PatientDetail) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**\n%s\n`%s`\n", d.Patient.Name, d.Patient.Email, d.Patient.ID)

	sb.WriteString("\n**Appointments**\n")
	if len(d.Series) == 0 {
		sb.WriteString("None\n")
	}
	for _, s := range d.Series {
		a := s.Series
		next := "none upcoming"
		if date, ok := s.Next.Get(); ok {
			next = format.DateTime(date)
		}
		fmt.Fprintf(&sb, "• %s from %s, %s\n  Next: %s\n",
			a.ProviderName, format.DateTime(a.StartDateTime), rrule.Describe(a.Repeat, a.EndsOn), next)
		// accepted back by /editappt
		if rule := rrule.ToRRule(a.Repeat, a.EndsOn); rule != "" {
			fmt.Fprintf(&sb, "  Rule: `%s`\n", rule)
		}
		fmt.Fprintf(&sb, "  `%s`\n", a.ID)
	}

	fmt.Fprintf(&sb, "\n**Prescriptions** (%d active)\n", d.ActiveCount)
	if len(d.Prescriptions) == 0 {
		sb.WriteString("None\n")
	}
	for _, rx := range d.Prescriptions {
		status := ""
		if !rx.Active {
			status = " [stopped]"
		}
		fmt.Fprintf(&sb, "• %s %s x%d from %s, %s%s\n  `%s`\n",
			rx.MedicationName, rx.DosageValue, rx.Quantity, format.Date(rx.RefillOn),
			rrule.Describe(rx.RefillSchedule, nil), status, rx.ID)
	}
	return sb.String()
}

func Medications(options []*models.MedicationOption) string {
	names := make([]string, 0, len(options))
	for _, o := range options {
		names = append(names, o.Name)
	}
	return list("Medications", names)
}

func Dosages(options []*models.DosageOption) string {
	values := make([]string, 0, len(options))
	for _, o := range options {
		values = append(values, o.Value)
	}
	return list("Dosages", values)
}

func list(title string, items []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**\n", title)
	if len(items) == 0 {
		sb.WriteString("None\n")
	}
	for _, item := range items {
		sb.WriteString("• " + item + "\n")
	}
	return sb.String()
}
