package model

import (
	"fmt"
	"time"
)

// PayerCategory groups insurance payers into broad billing classes.
type PayerCategory int

const (
	PayerCommercial PayerCategory = iota
	PayerMedicare
	PayerMedicaid
	PayerSelfPay
	PayerOther
)

// String returns a human-readable representation of the payer category.
func (p PayerCategory) String() string {
	switch p {
	case PayerCommercial:
		return "Commercial"
	case PayerMedicare:
		return "Medicare"
	case PayerMedicaid:
		return "Medicaid"
	case PayerSelfPay:
		return "Self-Pay"
	case PayerOther:
		return "Other"
	default:
		return "unknown"
	}
}

// ParsePayerCategory maps payer grouping strings from scheduling feeds to a
// PayerCategory. Unknown strings map to PayerOther.
func ParsePayerCategory(s string) PayerCategory {
	switch s {
	case "Commercial":
		return PayerCommercial
	case "Medicare":
		return PayerMedicare
	case "Medicaid":
		return PayerMedicaid
	case "Self-Pay", "SelfPay":
		return PayerSelfPay
	default:
		return PayerOther
	}
}

// AppointmentContext carries the scheduling features of a single appointment.
// Values are supplied by the caller and never mutated by the engine.
type AppointmentContext struct {
	AppointmentID string
	PatientID     string
	ProviderID    string

	AppointmentTime time.Time
	ScheduledAt     time.Time // when the slot was booked
	DurationMinutes int

	IsNewPatient bool
	IsVirtual    bool

	ProviderSpecialty string
	PayerCategory     PayerCategory

	// HistoricalNoShowRate is nil when the patient has no visit history.
	// Absence means "unknown", not zero.
	HistoricalNoShowRate *float64
	PortalEngaged        bool
}

// LeadTimeDays returns the number of whole days between booking and the
// appointment, clamped to zero for same-day or retroactive bookings.
func (a AppointmentContext) LeadTimeDays() int {
	d := int(a.AppointmentTime.Sub(a.ScheduledAt).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// DayOfWeek returns the weekday of the appointment.
func (a AppointmentContext) DayOfWeek() time.Weekday {
	return a.AppointmentTime.Weekday()
}

// HourOfDay returns the appointment start hour in local clinic time.
func (a AppointmentContext) HourOfDay() int {
	return a.AppointmentTime.Hour()
}

// Date returns the appointment day formatted as YYYY-MM-DD, used as a
// grouping key for provider-day analysis.
func (a AppointmentContext) Date() string {
	return a.AppointmentTime.Format("2006-01-02")
}

// Validate checks that the appointment carries the fields the engine
// requires.
func (a AppointmentContext) Validate() error {
	if a.AppointmentID == "" {
		return fmt.Errorf("appointment id is required")
	}
	if a.AppointmentTime.IsZero() {
		return fmt.Errorf("appointment time is required")
	}
	if a.DurationMinutes <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	if a.HistoricalNoShowRate != nil {
		if r := *a.HistoricalNoShowRate; r < 0 || r > 1 {
			return fmt.Errorf("historical no-show rate %.2f out of range", r)
		}
	}
	return nil
}
