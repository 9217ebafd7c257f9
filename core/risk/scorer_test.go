package risk

import (
	"math"
	"testing"
	"time"

	"github.com/carelane/noshow/core/model"
)

func appt(day time.Time, lead int) model.AppointmentContext {
	return model.AppointmentContext{
		AppointmentID:   "a1",
		AppointmentTime: day,
		ScheduledAt:     day.Add(-time.Duration(lead) * 24 * time.Hour),
		DurationMinutes: 30,
	}
}

func TestScoreMondaySelfPayLongLead(t *testing.T) {
	// Monday 09:00, 21 days out, self-pay, no portal account:
	// 0.18 + 0.14 (lead) + 0.05 (Monday) + 0.08 (self-pay) = 0.45
	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	a := appt(monday, 21)
	a.PayerCategory = model.PayerSelfPay

	p, factors := NewScorer().Score(a)
	if math.Abs(p-0.45) > 1e-9 {
		t.Fatalf("expected 0.45 got %v", p)
	}
	if len(factors) != 3 {
		t.Fatalf("expected 3 factors got %d", len(factors))
	}
	if factors[0].Name != "lead_time_days" {
		t.Fatalf("expected lead time first, got %s", factors[0].Name)
	}
}

func TestScoreLeadTimeCapped(t *testing.T) {
	wed := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	p30, _ := NewScorer().Score(appt(wed, 30))
	p90, _ := NewScorer().Score(appt(wed, 90))
	if p30 != p90 {
		t.Fatalf("lead time modifier should cap at +0.15: %v vs %v", p30, p90)
	}
	if math.Abs(p30-0.33) > 1e-9 {
		t.Fatalf("expected 0.33 got %v", p30)
	}
}

func TestScoreClampedToBounds(t *testing.T) {
	// Every additive modifier firing at once still stays inside the band.
	monday := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	worst := appt(monday, 60)
	worst.IsNewPatient = true
	worst.PayerCategory = model.PayerMedicaid

	best := appt(time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC), 0)
	best.PortalEngaged = true

	for _, a := range []model.AppointmentContext{worst, best} {
		p, _ := NewScorer().Score(a)
		if p < 0.05 || p > 0.95 {
			t.Fatalf("probability %v outside [0.05, 0.95]", p)
		}
	}
}

func TestScorePortalEngagedDecreases(t *testing.T) {
	wed := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	a := appt(wed, 2)
	a.PortalEngaged = true
	p, factors := NewScorer().Score(a)
	if math.Abs(p-0.13) > 1e-9 {
		t.Fatalf("expected 0.13 got %v", p)
	}
	if len(factors) != 1 || factors[0].Direction != model.DirectionDecreases {
		t.Fatalf("expected a single decreasing factor, got %+v", factors)
	}
}

func TestScoreTopFactorsTieOrder(t *testing.T) {
	// Monday + self-pay + afternoon + new patient fires four factors;
	// day_of_week (0.10) and payer (0.10) tie, evaluation order keeps
	// day_of_week ahead.
	monday := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	a := appt(monday, 2)
	a.IsNewPatient = true
	a.PayerCategory = model.PayerSelfPay

	_, factors := NewScorer().Score(a)
	if len(factors) != 3 {
		t.Fatalf("expected top 3 factors got %d", len(factors))
	}
	want := []string{"new_patient", "day_of_week", "payer_category"}
	for i, name := range want {
		if factors[i].Name != name {
			t.Fatalf("factor %d: expected %s got %s", i, name, factors[i].Name)
		}
	}
}

func TestScoreMissingHistoryEmitsNoHistoryFactor(t *testing.T) {
	wed := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	_, factors := NewScorer().Score(appt(wed, 10))
	for _, f := range factors {
		if f.Name == "historical_no_show_rate" {
			t.Fatal("unknown history must not appear as a factor")
		}
	}
}

func TestTopFactorsKeepsStrongestWithoutMutating(t *testing.T) {
	in := []model.RiskFactor{
		{Name: "portal_engaged", Magnitude: -0.05},
		{Name: "historical_no_show_rate", Magnitude: 0.25},
		{Name: "lead_time_days", Magnitude: 0.15},
		{Name: "day_of_week", Magnitude: 0.10},
		{Name: "payer_category", Magnitude: 0.10},
	}
	out := TopFactors(in, 3)
	want := []string{"historical_no_show_rate", "lead_time_days", "day_of_week"}
	for i, name := range want {
		if out[i].Name != name {
			t.Fatalf("factor %d: expected %s got %s", i, name, out[i].Name)
		}
	}
	if in[0].Name != "portal_engaged" {
		t.Fatalf("input slice reordered: %+v", in)
	}
}
