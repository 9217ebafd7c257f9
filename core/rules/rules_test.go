package rules

import (
	"strings"
	"testing"
	"time"

	"github.com/carelane/noshow/core/model"
)

func appt(lead int, opts func(*model.AppointmentContext)) model.AppointmentContext {
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	a := model.AppointmentContext{
		AppointmentID:   "a1",
		AppointmentTime: at,
		ScheduledAt:     at.Add(-time.Duration(lead) * 24 * time.Hour),
		DurationMinutes: 30,
	}
	if opts != nil {
		opts(&a)
	}
	return a
}

func assessment(level model.RiskLevel, factors ...model.RiskFactor) model.RiskAssessment {
	p := 0.2
	switch level {
	case model.RiskMedium:
		p = 0.45
	case model.RiskHigh:
		p = 0.75
	}
	return model.RiskAssessment{Probability: p, Level: level, TopFactors: factors}
}

func TestRuleTable(t *testing.T) {
	eng := NewEngine()
	historyFactor := model.RiskFactor{Name: "historical_no_show_rate", Value: "0.4", Magnitude: 0.15}

	cases := []struct {
		name     string
		a        model.AppointmentContext
		r        model.RiskAssessment
		action   model.ActionType
		priority model.Priority
		note     string
	}{
		{"low risk no action", appt(5, nil), assessment(model.RiskLow), model.ActionNone, model.PriorityLow, ""},
		{"medium virtual", appt(5, func(a *model.AppointmentContext) { a.IsVirtual = true }), assessment(model.RiskMedium), model.ActionReminder, model.PriorityLow, "send link 1h before"},
		{"medium new patient", appt(5, func(a *model.AppointmentContext) { a.IsNewPatient = true }), assessment(model.RiskMedium), model.ActionConfirmationCall, model.PriorityHigh, "hard-to-backfill slot"},
		{"medium long visit", appt(5, func(a *model.AppointmentContext) { a.DurationMinutes = 45 }), assessment(model.RiskMedium), model.ActionConfirmationCall, model.PriorityHigh, "hard-to-backfill slot"},
		{"medium short lead", appt(1, nil), assessment(model.RiskMedium), model.ActionReminder, model.PriorityMedium, "short lead time, SMS"},
		{"medium default", appt(5, nil), assessment(model.RiskMedium), model.ActionReminder, model.PriorityMedium, "standard 24h reminder"},
		{"high virtual", appt(5, func(a *model.AppointmentContext) { a.IsVirtual = true }), assessment(model.RiskHigh), model.ActionReminder, model.PriorityMedium, "telehealth link + nudges"},
		{"high repeat no-show", appt(5, nil), assessment(model.RiskHigh, historyFactor), model.ActionOverbook, model.PriorityUrgent, "historical repeat no-show"},
		{"high new patient long visit", appt(5, func(a *model.AppointmentContext) { a.IsNewPatient = true; a.DurationMinutes = 60 }), assessment(model.RiskHigh), model.ActionConfirmationCall, model.PriorityUrgent, "high-value slot at risk"},
		{"high long lead", appt(21, nil), assessment(model.RiskHigh), model.ActionConfirmationCall, model.PriorityHigh, "proactive outreach"},
		{"high short lead", appt(1, nil), assessment(model.RiskHigh), model.ActionReminder, model.PriorityHigh, "no time for phone tag"},
		{"high morning", appt(5, nil), assessment(model.RiskHigh), model.ActionConfirmationCall, model.PriorityUrgent, "priority morning call"},
		{"high afternoon default", appt(5, func(a *model.AppointmentContext) {
			a.AppointmentTime = a.AppointmentTime.Add(4 * time.Hour) // 13:00
			a.ScheduledAt = a.ScheduledAt.Add(4 * time.Hour)
		}), assessment(model.RiskHigh), model.ActionConfirmationCall, model.PriorityHigh, "standard high-risk call"},
	}

	for _, c := range cases {
		rec := eng.Recommend(c.a, c.r)
		if rec.Action != c.action || rec.Priority != c.priority {
			t.Fatalf("%s: expected (%s, %s) got (%s, %s)", c.name, c.action, c.priority, rec.Action, rec.Priority)
		}
		if c.note != "" && !strings.HasPrefix(rec.Rationale, c.note) {
			t.Fatalf("%s: rationale %q missing note %q", c.name, rec.Rationale, c.note)
		}
	}
}

func TestRecommendIdempotent(t *testing.T) {
	eng := NewEngine()
	a := appt(10, func(a *model.AppointmentContext) { a.IsNewPatient = true })
	r := assessment(model.RiskHigh, model.RiskFactor{Name: "lead_time_days", Value: "10", Magnitude: 0.15})
	first := eng.Recommend(a, r)
	second := eng.Recommend(a, r)
	if first.Action != second.Action || first.Priority != second.Priority || first.Rationale != second.Rationale {
		t.Fatalf("recommend is not deterministic: %+v vs %+v", first, second)
	}
}

func TestHistoryRuleBeatsBackfillRule(t *testing.T) {
	eng := NewEngine()
	a := appt(5, func(a *model.AppointmentContext) { a.IsNewPatient = true })
	r := assessment(model.RiskHigh, model.RiskFactor{Name: "historical_no_show_rate", Value: "0.5", Magnitude: 0.2})
	rec := eng.Recommend(a, r)
	if rec.Action != model.ActionOverbook || rec.Priority != model.PriorityUrgent {
		t.Fatalf("history rule must win over backfill rule, got (%s, %s)", rec.Action, rec.Priority)
	}
}

func TestRationaleAppendsFactors(t *testing.T) {
	eng := NewEngine()
	r := assessment(model.RiskMedium,
		model.RiskFactor{Name: "lead_time_days", Value: "12", Direction: model.DirectionIncreases, Magnitude: 0.15},
		model.RiskFactor{Name: "portal_engaged", Value: "true", Direction: model.DirectionDecreases, Magnitude: -0.05},
	)
	rec := eng.Recommend(appt(12, nil), r)
	if !strings.Contains(rec.Rationale, "lead_time_days (Increases risk)") {
		t.Fatalf("rationale missing increasing factor: %q", rec.Rationale)
	}
	if !strings.Contains(rec.Rationale, "portal_engaged (Decreases risk)") {
		t.Fatalf("rationale missing decreasing factor: %q", rec.Rationale)
	}
}

func TestRecommendTotal(t *testing.T) {
	// Every level maps to a recommendation even with no factors and odd
	// field combinations.
	eng := NewEngine()
	for _, lvl := range []model.RiskLevel{model.RiskLow, model.RiskMedium, model.RiskHigh} {
		rec := eng.Recommend(appt(0, func(a *model.AppointmentContext) { a.IsVirtual = true }), assessment(lvl))
		if rec.Action.String() == "unknown" || rec.Priority.String() == "unknown" {
			t.Fatalf("level %s produced undefined outcome %+v", lvl, rec)
		}
	}
}
