package metrics

import (
	"time"

	"github.com/carelane/noshow/core/model"
)

// TriageResult is the per-appointment record emitted after each batch.
type TriageResult struct {
	AppointmentID string
	ProviderID    string
	Specialty     string
	Probability   float64
	Level         model.RiskLevel
	Action        model.ActionType
	Priority      model.Priority
	Source        model.AssessmentSource
	Time          time.Time
}

// Sink records triage results for observability purposes.
type Sink interface {
	RecordTriageResult(results []TriageResult) error
}

// FallbackEvent captures a switch from the external model to the heuristic
// scorer.
type FallbackEvent struct {
	Reason    string
	BatchSize int
	Time      time.Time
}

// FallbackRecorder is implemented by sinks that track predictor outages.
type FallbackRecorder interface {
	RecordFallback(ev FallbackEvent) error
}

// OverbookRecorder is implemented by sinks that track provider-day
// overbooking guidance.
type OverbookRecorder interface {
	RecordOverbook(analyses []model.ProviderOverbookAnalysis) error
}

// NopSink drops every record.
type NopSink struct{}

func (NopSink) RecordTriageResult([]TriageResult) error             { return nil }
func (NopSink) RecordFallback(FallbackEvent) error                  { return nil }
func (NopSink) RecordOverbook([]model.ProviderOverbookAnalysis) error { return nil }
