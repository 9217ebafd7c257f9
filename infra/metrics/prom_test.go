package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/carelane/noshow/core/metrics"
	"github.com/carelane/noshow/core/model"
)

func TestPromSinkRecordsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	res := []coremetrics.TriageResult{
		{AppointmentID: "a1", Specialty: "Family Medicine", Probability: 0.7,
			Level: model.RiskHigh, Action: model.ActionConfirmationCall,
			Priority: model.PriorityUrgent, Source: model.SourceExternalModel, Time: time.Now()},
		{AppointmentID: "a2", Specialty: "Family Medicine", Probability: 0.2,
			Level: model.RiskLow, Action: model.ActionNone,
			Priority: model.PriorityLow, Source: model.SourceExternalModel, Time: time.Now()},
	}
	if err := sink.RecordTriageResult(res); err != nil {
		t.Fatalf("record: %v", err)
	}
	ps := sink.(*PromSink)
	got := testutil.ToFloat64(ps.events.WithLabelValues("Family Medicine", "High", "ConfirmationCall", "ExternalModel"))
	if got != 1 {
		t.Fatalf("expected 1 high event got %v", got)
	}
}

func TestPromSinkFallbackCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	ps := sink.(*PromSink)
	if err := ps.RecordFallback(coremetrics.FallbackEvent{Reason: "timeout", BatchSize: 10}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := testutil.ToFloat64(ps.fallbacks); got != 1 {
		t.Fatalf("expected 1 fallback got %v", got)
	}
}

func TestPromSinkOverbookGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	ps := sink.(*PromSink)
	err = ps.RecordOverbook([]model.ProviderOverbookAnalysis{{
		ProviderID: "p1", Specialty: "Pediatrics", Date: "2026-03-02",
		TotalAppointments: 20, ExpectedNoShows: 5, OverbookCapPct: 0.15,
		RecommendedOverbookSlots: 3,
	}})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := testutil.ToFloat64(ps.overbook.WithLabelValues("p1", "Pediatrics", "2026-03-02")); got != 3 {
		t.Fatalf("expected 3 got %v", got)
	}
}
