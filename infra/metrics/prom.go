package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/carelane/noshow/core/metrics"
	"github.com/carelane/noshow/core/model"
)

// PromSink records triage outcomes as Prometheus metrics.
type PromSink struct {
	events      *prometheus.CounterVec
	probability *prometheus.HistogramVec
	fallbacks   prometheus.Counter
	overbook    *prometheus.GaugeVec
}

// NewPromSink registers the triage metrics on the default registerer.
func NewPromSink() (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer. A
// nil registerer defaults to the global one.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "triage_events_total",
		Help: "Total number of triaged appointments",
	}, []string{"specialty", "level", "action", "source"})
	probability := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "noshow_probability",
		Help:    "No-show probability distribution per scoring source",
		Buckets: prometheus.LinearBuckets(0.05, 0.05, 19),
	}, []string{"source"})
	fallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "predictor_fallbacks_total",
		Help: "Number of batches scored heuristically after a predictor failure",
	})
	overbook := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "recommended_overbook_slots",
		Help: "Recommended overbook slots per provider and day",
	}, []string{"provider_id", "specialty", "date"})

	if err := reg.Register(events); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			events = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(probability); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			probability = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(fallbacks); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fallbacks = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(overbook); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			overbook = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{events: events, probability: probability, fallbacks: fallbacks, overbook: overbook}, nil
}

// RecordTriageResult increments the event counter and observes the
// probability for each result.
func (s *PromSink) RecordTriageResult(res []coremetrics.TriageResult) error {
	for _, r := range res {
		s.events.WithLabelValues(r.Specialty, r.Level.String(), r.Action.String(), r.Source.String()).Inc()
		s.probability.WithLabelValues(r.Source.String()).Observe(r.Probability)
	}
	return nil
}

// RecordFallback counts predictor outages.
func (s *PromSink) RecordFallback(coremetrics.FallbackEvent) error {
	s.fallbacks.Inc()
	return nil
}

// RecordOverbook sets the per-provider gauge.
func (s *PromSink) RecordOverbook(analyses []model.ProviderOverbookAnalysis) error {
	for _, a := range analyses {
		s.overbook.WithLabelValues(a.ProviderID, a.Specialty, a.Date).Set(float64(a.RecommendedOverbookSlots))
	}
	return nil
}

// StartServer exposes /metrics on the given port and blocks.
func StartServer(port string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(":"+port, mux)
}
