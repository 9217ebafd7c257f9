package metrics

import "github.com/carelane/noshow/core/factory"

// Config defines the metrics sinks to activate.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusPort exposes /metrics when non-empty and a prometheus
	// sink is configured.
	PrometheusPort string `json:"prometheus_port"`
}
