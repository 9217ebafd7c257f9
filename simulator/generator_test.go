package simulator

import (
	"testing"
	"time"
)

func TestGenerateDeterministic(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{Size: 20, Seed: 42}
	a := Generate(cfg, start)
	b := Generate(cfg, start)
	if len(a) != 20 {
		t.Fatalf("expected 20 appointments got %d", len(a))
	}
	for i := range a {
		if a[i].AppointmentID != b[i].AppointmentID || !a[i].AppointmentTime.Equal(b[i].AppointmentTime) {
			t.Fatalf("generation not deterministic at %d", i)
		}
	}
}

func TestGenerateValidAppointments(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	batch := Generate(Config{Size: 100, Seed: 7, Days: 5}, start)
	for _, a := range batch {
		if err := a.Validate(); err != nil {
			t.Fatalf("invalid appointment %s: %v", a.AppointmentID, err)
		}
		if !a.AppointmentTime.After(start) {
			t.Fatalf("appointment %s not in the future", a.AppointmentID)
		}
		if a.IsNewPatient && a.HistoricalNoShowRate != nil {
			t.Fatal("new patients cannot carry history")
		}
	}
}
