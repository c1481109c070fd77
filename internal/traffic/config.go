// Package traffic drives a mix of normal and expensive requests against
// shop instances and reports latency percentiles.
package traffic

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Targets          []string      `yaml:"targets"`
	Scheme           string        `yaml:"scheme"`
	QPSPerWorker     float64       `yaml:"qps_per_worker"`
	WorkersPerTarget int           `yaml:"workers_per_target"`
	BadEvery         time.Duration `yaml:"bad_every"`
	ReportEvery      time.Duration `yaml:"report_every"`
	Duration         time.Duration `yaml:"duration"`
	TimeoutNormal    time.Duration `yaml:"timeout_normal"`
	TimeoutBad       time.Duration `yaml:"timeout_bad"`
	ExtraRandomHits  int           `yaml:"extra_random_hits"`
	Paths            []string      `yaml:"paths"`
	Consul           *ConsulConfig `yaml:"consul,omitempty"`
}

// ConsulConfig resolves targets from a registered service instead of the
// static list.
type ConsulConfig struct {
	Addr    string `yaml:"addr"`
	Service string `yaml:"service"`
}

func DefaultConfig() *Config {
	return &Config{
		Targets:          []string{"localhost:8081"},
		Scheme:           "http",
		QPSPerWorker:     1.5,
		WorkersPerTarget: 4,
		BadEvery:         20 * time.Second,
		ReportEvery:      10 * time.Second,
		TimeoutNormal:    2500 * time.Millisecond,
		TimeoutBad:       30 * time.Second,
		ExtraRandomHits:  1,
		Paths: []string{
			"/",
			"/api/health",
			"/api/products",
			"/api/orders",
			"/api/bad",
		},
	}
}

// LoadOrCreate reads the YAML config at path. A missing file is created with
// the defaults; created reports whether that happened.
func LoadOrCreate(path string) (cfg *Config, created bool, err error) {
	file, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = DefaultConfig()
		if err := Write(path, cfg); err != nil {
			return nil, false, err
		}
		return cfg, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg = DefaultConfig()
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, false, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, false, fmt.Errorf("invalid %s: %w", path, err)
	}

	return cfg, false, nil
}

func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	if len(c.Targets) == 0 && (c.Consul == nil || c.Consul.Service == "") {
		return fmt.Errorf("targets or consul.service is required")
	}
	if c.Scheme != "http" && c.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", c.Scheme)
	}
	if c.QPSPerWorker < 0 {
		return fmt.Errorf("qps_per_worker must not be negative")
	}
	if c.WorkersPerTarget < 1 {
		return fmt.Errorf("workers_per_target must be positive, got %d", c.WorkersPerTarget)
	}
	if c.ReportEvery <= 0 {
		return fmt.Errorf("report_every must be positive")
	}
	if c.TimeoutNormal <= 0 || c.TimeoutBad <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.Duration < 0 || c.BadEvery < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	if c.ExtraRandomHits < 0 {
		return fmt.Errorf("extra_random_hits must not be negative")
	}
	return nil
}
