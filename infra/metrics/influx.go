package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/carelane/noshow/core/logger"
	coremetrics "github.com/carelane/noshow/core/metrics"
	"github.com/carelane/noshow/core/model"
	infralogger "github.com/carelane/noshow/infra/logger"
)

// InfluxSink writes triage events to an InfluxDB instance using the official
// client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      infralogger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance first and returns a
// NopSink when the health check fails, so a down instance never blocks
// triage.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordTriageResult writes one point per triaged appointment.
func (s *InfluxSink) RecordTriageResult(res []coremetrics.TriageResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, r := range res {
		p := write.NewPointWithMeasurement("triage_event").
			AddTag("appointment_id", r.AppointmentID).
			AddTag("provider_id", r.ProviderID).
			AddTag("specialty", r.Specialty).
			AddTag("level", r.Level.String()).
			AddTag("action", r.Action.String()).
			AddTag("source", r.Source.String()).
			AddField("probability", round3(r.Probability)).
			AddField("priority", r.Priority.String()).
			SetTime(r.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordFallback persists predictor outages.
func (s *InfluxSink) RecordFallback(ev coremetrics.FallbackEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("predictor_fallback").
		AddTag("reason", ev.Reason).
		AddField("batch_size", ev.BatchSize).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordOverbook writes one point per provider-day analysis.
func (s *InfluxSink) RecordOverbook(analyses []model.ProviderOverbookAnalysis) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, a := range analyses {
		p := write.NewPointWithMeasurement("overbook_analysis").
			AddTag("provider_id", a.ProviderID).
			AddTag("specialty", a.Specialty).
			AddTag("date", a.Date).
			AddField("total_appointments", a.TotalAppointments).
			AddField("expected_no_shows", a.ExpectedNoShows).
			AddField("cap_pct", round3(a.OverbookCapPct)).
			AddField("recommended_slots", a.RecommendedOverbookSlots).
			SetTime(time.Now())
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
