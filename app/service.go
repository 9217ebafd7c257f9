// Package app wires configuration into a ready-to-use triage service.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/carelane/noshow/config"
	"github.com/carelane/noshow/core/engine"
	corelogger "github.com/carelane/noshow/core/logger"
	coremetrics "github.com/carelane/noshow/core/metrics"
	"github.com/carelane/noshow/core/model"
	coremon "github.com/carelane/noshow/core/monitoring"
	"github.com/carelane/noshow/core/prediction"
	infralogger "github.com/carelane/noshow/infra/logger"
	inframetrics "github.com/carelane/noshow/infra/metrics"
	inframon "github.com/carelane/noshow/infra/monitoring"
	"github.com/carelane/noshow/infra/predictor"
)

// Service bundles the engine with its configured collaborators.
type Service struct {
	Engine  *engine.Engine
	log     corelogger.Logger
	monitor coremon.Monitor
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := infralogger.New("service")

	monitor, err := inframon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry monitor: %w", err)
	}
	coremon.Init(monitor)

	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	if cfg.Metrics.PrometheusPort != "" {
		go func() {
			if err := inframetrics.StartServer(cfg.Metrics.PrometheusPort); err != nil {
				logg.Errorf("prometheus server: %v", err)
			}
		}()
	}

	var pred prediction.Predictor
	if cfg.Predictor.Enabled {
		client, err := predictor.NewClient(cfg.Predictor, infralogger.New("predictor"))
		if err != nil {
			return nil, fmt.Errorf("predictor client: %w", err)
		}
		pred = client
	}

	eng, err := engine.New(pred, cfg.Risk.Thresholds, cfg.Overbook, infralogger.New("engine"), sink)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	return &Service{Engine: eng, log: logg, monitor: monitor}, nil
}

// Triage runs one batch through the engine.
func (s *Service) Triage(ctx context.Context, now time.Time, batch []model.AppointmentContext) (engine.Result, error) {
	res, err := s.Engine.Triage(ctx, now, batch)
	if err != nil {
		s.monitor.CaptureException(err, map[string]string{"component": "engine"})
		return engine.Result{}, err
	}
	if res.Summary.FallbackUsed {
		s.log.Warnf("batch of %d scored without the external model", res.Summary.Total)
	}
	return res, nil
}

// Close flushes buffered monitoring events.
func (s *Service) Close() error {
	s.monitor.Flush(2 * time.Second)
	return nil
}
