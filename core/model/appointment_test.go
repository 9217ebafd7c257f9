package model

import (
	"testing"
	"time"
)

func TestLeadTimeDaysClamped(t *testing.T) {
	appt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	a := AppointmentContext{AppointmentTime: appt, ScheduledAt: appt.Add(48 * time.Hour)}
	if got := a.LeadTimeDays(); got != 0 {
		t.Fatalf("expected 0 for retroactive booking, got %d", got)
	}
	a.ScheduledAt = appt.Add(-21 * 24 * time.Hour)
	if got := a.LeadTimeDays(); got != 21 {
		t.Fatalf("expected 21, got %d", got)
	}
}

func TestValidate(t *testing.T) {
	base := AppointmentContext{
		AppointmentID:   "a1",
		AppointmentTime: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := base
	bad.DurationMinutes = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for zero duration")
	}
	rate := 1.5
	bad = base
	bad.HistoricalNoShowRate = &rate
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for out-of-range history rate")
	}
}

func TestParsePayerCategory(t *testing.T) {
	cases := map[string]PayerCategory{
		"Commercial": PayerCommercial,
		"Medicare":   PayerMedicare,
		"Medicaid":   PayerMedicaid,
		"Self-Pay":   PayerSelfPay,
		"SelfPay":    PayerSelfPay,
		"Tricare":    PayerOther,
	}
	for in, want := range cases {
		if got := ParsePayerCategory(in); got != want {
			t.Fatalf("%s: expected %s got %s", in, want, got)
		}
	}
}
