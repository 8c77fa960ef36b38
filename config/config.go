// Package config loads the planner configuration from JSON or YAML
// files with environment overrides.
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

	"github.com/kilianp07/timegrid/core/timeline"
)

// Config is the root configuration of the timegrid CLI.
type Config struct {
	Axis      AxisConfig       `json:"axis"`
	Resources []ResourceConfig `json:"resources"`
	Requests  []RequestConfig  `json:"requests"`
	Metrics   MetricsConfig    `json:"metrics"`
}

// AxisConfig defines the schedulable axis shared by all resources.
type AxisConfig struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	// Tolerance is the edge-matching tolerance for cuts. Zero selects
	// the default.
	Tolerance float64 `json:"tolerance"`
}

// SpanConfig is a plain [lower, upper] range.
type SpanConfig struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// ResourceConfig declares one schedulable resource and its busy spans.
type ResourceConfig struct {
	Name string       `json:"name"`
	Busy []SpanConfig `json:"busy"`
}

// RequestConfig declares a booking to place at startup.
type RequestConfig struct {
	ID         string     `json:"id"`
	Resource   string     `json:"resource"`
	Window     SpanConfig `json:"window"`
	Size       float64    `json:"size"`
	Period     float64    `json:"period"`
	AllowDrift bool       `json:"allow_drift"`
}

// MetricsConfig enables the Prometheus endpoint.
type MetricsConfig struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusAddr    string `json:"prometheus_addr"`
}

// Load reads the configuration file at path. The format is chosen by
// extension; TG_-prefixed environment variables override file values
// ("__" separates nesting levels).
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
	// Optional environment overrides
	if err := k.Load(env.Provider("TG_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "tg_")
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

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Axis.Upper == 0 && c.Axis.Lower == 0 {
		c.Axis.Upper = 1440 // minutes in a day
	}
	if c.Axis.Tolerance == 0 {
		c.Axis.Tolerance = timeline.DefaultTolerance
	}
	if c.Metrics.PrometheusAddr == "" {
		c.Metrics.PrometheusAddr = ":9090"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Axis.Upper <= c.Axis.Lower {
		return fmt.Errorf("axis upper %v must exceed lower %v", c.Axis.Upper, c.Axis.Lower)
	}
	if c.Axis.Tolerance < 0 {
		return fmt.Errorf("tolerance must not be negative")
	}
	seen := make(map[string]struct{}, len(c.Resources))
	for _, r := range c.Resources {
		if r.Name == "" {
			return fmt.Errorf("resource without a name")
		}
		if _, dup := seen[r.Name]; dup {
			return fmt.Errorf("duplicate resource %q", r.Name)
		}
		seen[r.Name] = struct{}{}
		for _, b := range r.Busy {
			if b.Upper < b.Lower {
				return fmt.Errorf("resource %q: invalid busy span (%v, %v)", r.Name, b.Lower, b.Upper)
			}
		}
	}
	for _, req := range c.Requests {
		if req.Resource == "" {
			return fmt.Errorf("request %q without a resource", req.ID)
		}
		if _, ok := seen[req.Resource]; !ok {
			return fmt.Errorf("request %q references unknown resource %q", req.ID, req.Resource)
		}
		if req.Size <= 0 {
			return fmt.Errorf("request %q: size must be positive", req.ID)
		}
		if req.Period < 0 {
			return fmt.Errorf("request %q: period must not be negative", req.ID)
		}
	}
	return nil
}
