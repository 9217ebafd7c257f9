package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/carelane/noshow/core/metrics"
	"github.com/carelane/noshow/core/overbook"
	"github.com/carelane/noshow/core/risk"
	"github.com/carelane/noshow/infra/predictor"
)

// RiskConfig groups the scoring policy knobs.
type RiskConfig struct {
	Thresholds risk.Thresholds `json:"thresholds"`
}

// SetDefaults applies the canonical cut points when unset.
func (c *RiskConfig) SetDefaults() {
	if c.Thresholds.Low == 0 && c.Thresholds.High == 0 {
		c.Thresholds = risk.DefaultThresholds()
	}
}

type Config struct {
	Risk      RiskConfig       `json:"risk"`
	Overbook  overbook.Policy  `json:"overbook"`
	Predictor predictor.Config `json:"predictor"`
	Metrics   metrics.Config   `json:"metrics"`
	Sentry    SentryConfig     `json:"sentry"`
}

// Load reads the configuration file (yaml or json) and applies environment
// overrides with the NS_ prefix, e.g. NS_RISK__THRESHOLDS__HIGH=0.5.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("NS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "ns_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills unset sections with the standard policy.
func (c *Config) SetDefaults() {
	c.Risk.SetDefaults()
	c.Overbook.SetDefaults()
	c.Predictor.SetDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Risk.Thresholds.Validate(); err != nil {
		return fmt.Errorf("risk: %w", err)
	}
	if err := c.Overbook.Validate(); err != nil {
		return fmt.Errorf("overbook: %w", err)
	}
	if err := c.Predictor.Validate(); err != nil {
		return fmt.Errorf("predictor: %w", err)
	}
	return nil
}
