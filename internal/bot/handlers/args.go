package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hray3182/CarePortal/internal/portal"
	"github.com/hray3182/CarePortal/internal/rrule"
)

const (
	dateInput     = "2006-01-02"
	dateTimeInput = "2006-01-02 15:04"
)

// splitArgs splits "a | b | c" command arguments
func splitArgs(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	parts := strings.Split(args, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateInput, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must look like 2024-03-01", s)
	}
	return t, nil
}

func parseDateTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateTimeInput, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q must look like 2024-03-01 09:30", s)
	}
	return t, nil
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%q is not a valid ID", s)
	}
	return id, nil
}

// parseNewPatient parses "<name> | <email> | <password>"
func parseNewPatient(args string) (portal.NewPatient, error) {
	parts := splitArgs(args)
	if len(parts) != 3 {
		return portal.NewPatient{}, fmt.Errorf("expected 3 fields, got %d", len(parts))
	}
	return portal.NewPatient{Name: parts[0], Email: parts[1], Password: parts[2]}, nil
}

// parseAppointment parses
// "<id> | <provider> | <YYYY-MM-DD HH:MM> | <schedule> [| <ends YYYY-MM-DD>]".
// The id is the patient for /addappt and the series for /editappt. The
// schedule is a repeat name or an RRULE; an RRULE UNTIL sets the end date
// unless an end date field is given.
func parseAppointment(args string) (uuid.UUID, portal.NewAppointment, error) {
	parts := splitArgs(args)
	if len(parts) != 4 && len(parts) != 5 {
		return uuid.Nil, portal.NewAppointment{}, fmt.Errorf("expected 4 or 5 fields, got %d", len(parts))
	}

	id, err := parseID(parts[0])
	if err != nil {
		return uuid.Nil, portal.NewAppointment{}, err
	}
	start, err := parseDateTime(parts[2])
	if err != nil {
		return uuid.Nil, portal.NewAppointment{}, err
	}
	repeat, endsOn, err := rrule.ParseSchedule(parts[3])
	if err != nil {
		return uuid.Nil, portal.NewAppointment{}, err
	}
	if len(parts) == 5 && parts[4] != "" {
		date, err := parseDate(parts[4])
		if err != nil {
			return uuid.Nil, portal.NewAppointment{}, err
		}
		endsOn = &date
	}

	return id, portal.NewAppointment{
		ProviderName:  parts[1],
		StartDateTime: start,
		Repeat:        repeat,
		EndsOn:        endsOn,
	}, nil
}

func parseNewAppointment(args string) (portal.NewAppointment, error) {
	patientID, in, err := parseAppointment(args)
	in.PatientID = patientID
	return in, err
}

// parsePrescription parses
// "<id> | <medication> | <dosage> | <qty> | <YYYY-MM-DD> | <schedule>".
// The id is the patient for /addrx and the prescription for /editrx.
// Refills never end, so a schedule with an end date is rejected.
func parsePrescription(args string) (uuid.UUID, portal.NewPrescription, error) {
	parts := splitArgs(args)
	if len(parts) != 6 {
		return uuid.Nil, portal.NewPrescription{}, fmt.Errorf("expected 6 fields, got %d", len(parts))
	}

	id, err := parseID(parts[0])
	if err != nil {
		return uuid.Nil, portal.NewPrescription{}, err
	}
	quantity, err := strconv.Atoi(parts[3])
	if err != nil {
		return uuid.Nil, portal.NewPrescription{}, fmt.Errorf("quantity %q must be a number", parts[3])
	}
	refillOn, err := parseDate(parts[4])
	if err != nil {
		return uuid.Nil, portal.NewPrescription{}, err
	}
	schedule, until, err := rrule.ParseSchedule(parts[5])
	if err != nil {
		return uuid.Nil, portal.NewPrescription{}, err
	}
	if until != nil {
		return uuid.Nil, portal.NewPrescription{}, errors.New("refill schedules cannot have an end date")
	}

	return id, portal.NewPrescription{
		MedicationName: parts[1],
		DosageValue:    parts[2],
		Quantity:       quantity,
		RefillOn:       refillOn,
		RefillSchedule: schedule,
	}, nil
}

func parseNewPrescription(args string) (portal.NewPrescription, error) {
	patientID, in, err := parsePrescription(args)
	in.PatientID = patientID
	return in, err
}
