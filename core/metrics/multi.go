package metrics

import "github.com/carelane/noshow/core/model"

// MultiSink fans records out to several sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink over the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordTriageResult forwards to every sink and returns the first error.
func (m *MultiSink) RecordTriageResult(res []TriageResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordTriageResult(res); err != nil {
			return err
		}
	}
	return nil
}

// RecordFallback forwards fallback events to sinks that track them.
func (m *MultiSink) RecordFallback(ev FallbackEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(FallbackRecorder); ok {
			if err := rec.RecordFallback(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordOverbook forwards provider-day analyses to sinks that track them.
func (m *MultiSink) RecordOverbook(analyses []model.ProviderOverbookAnalysis) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(OverbookRecorder); ok {
			if err := rec.RecordOverbook(analyses); err != nil {
				return err
			}
		}
	}
	return nil
}
