package tactic

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tactic-labs/tactic/internal/solver"
)

// Config is the on-disk session configuration.
type Config struct {
	// Timeout bounds each decision call.
	Timeout time.Duration
	// MaxAtoms caps the number of distinct atoms the bundled solver will
	// enumerate over; larger targets report unknown.
	MaxAtoms int
	// LogLevel selects the logger verbosity: debug, info, warn or error.
	LogLevel string
}

// configYAML is the serialized form; the timeout is a duration string such
// as "500ms".
type configYAML struct {
	Timeout  string `yaml:"timeout,omitempty"`
	MaxAtoms int    `yaml:"max-atoms,omitempty"`
	LogLevel string `yaml:"log-level,omitempty"`
}

func (c Config) MarshalYAML() (any, error) {
	return configYAML{
		Timeout:  c.Timeout.String(),
		MaxAtoms: c.MaxAtoms,
		LogLevel: c.LogLevel,
	}, nil
}

func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw configYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", raw.Timeout, err)
		}
		c.Timeout = d
	}
	if raw.MaxAtoms != 0 {
		c.MaxAtoms = raw.MaxAtoms
	}
	if raw.LogLevel != "" {
		c.LogLevel = raw.LogLevel
	}
	return nil
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:  defaultTimeout,
		MaxAtoms: 16,
		LogLevel: "info",
	}
}

// LoadConfig reads a YAML configuration file. A missing file yields the
// defaults; a malformed one is an error. Omitted fields keep their
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxAtoms <= 0 {
		cfg.MaxAtoms = 16
	}
	return cfg, nil
}

// Options converts the configuration into session options.
func (c Config) Options() []Option {
	return []Option{
		WithTimeout(c.Timeout),
		WithSolver(solver.NewWithOptions(solver.Options{MaxAtoms: c.MaxAtoms})),
	}
}
