// Package config loads solver and trace settings for gridspice.
//
// Config file locations (priority order):
//  1. $GRIDSPICE_CONFIG
//  2. ./gridspice.yaml
//  3. ~/.config/gridspice/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/edp1096/grid-spice/internal/consts"
	"github.com/edp1096/grid-spice/pkg/circuit"
	"github.com/edp1096/grid-spice/pkg/solver"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Solver SolverConfig `yaml:"solver"`
	Trace  TraceConfig  `yaml:"trace"`
	Watch  WatchConfig  `yaml:"watch"`
}

type SolverConfig struct {
	Method              string  `yaml:"method"`
	Tolerance           float64 `yaml:"tolerance"`
	Gmin                float64 `yaml:"gmin"`
	AcceptRankDeficient bool    `yaml:"accept_rank_deficient"`
}

type TraceConfig struct {
	Simplification bool `yaml:"simplification"`
	NodeMap        bool `yaml:"node_map"`
	Matrix         bool `yaml:"matrix"`
	Currents       bool `yaml:"currents"`
	Voltages       bool `yaml:"voltages"`
}

type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

const DefaultDebounce = 200 * time.Millisecond

// FindConfigPath returns the first existing config file, or "".
func FindConfigPath() string {
	if p := os.Getenv("GRIDSPICE_CONFIG"); p != "" {
		return p
	}

	candidates := []string{"gridspice.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "gridspice", "config.yaml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Solver: SolverConfig{
			Method:    solver.MethodPseudoInverse.String(),
			Tolerance: consts.PinvTolerance,
		},
		Watch: WatchConfig{Debounce: DefaultDebounce},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Solver.Method == "" {
		c.Solver.Method = solver.MethodPseudoInverse.String()
	}
	if c.Solver.Tolerance == 0 {
		c.Solver.Tolerance = consts.PinvTolerance
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = DefaultDebounce
	}
}

func (c *Config) Validate() error {
	if _, err := solver.ParseMethod(c.Solver.Method); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Solver.Tolerance < 0 {
		return fmt.Errorf("%w: negative solver tolerance %g", ErrInvalid, c.Solver.Tolerance)
	}
	if c.Solver.Gmin < 0 {
		return fmt.Errorf("%w: negative gmin %g", ErrInvalid, c.Solver.Gmin)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("%w: negative watch debounce %s", ErrInvalid, c.Watch.Debounce)
	}
	return nil
}

// CircuitOptions converts the config into pipeline options. Trace output
// still needs a writer from the caller.
func (c *Config) CircuitOptions() circuit.Options {
	method, _ := solver.ParseMethod(c.Solver.Method)
	return circuit.Options{
		Solver: solver.Options{
			Method:              method,
			Tolerance:           c.Solver.Tolerance,
			AcceptRankDeficient: c.Solver.AcceptRankDeficient,
		},
		Gmin: c.Solver.Gmin,
		TraceOptions: circuit.TraceOptions{
			Simplification: c.Trace.Simplification,
			NodeMap:        c.Trace.NodeMap,
			Matrix:         c.Trace.Matrix,
			Currents:       c.Trace.Currents,
			Voltages:       c.Trace.Voltages,
		},
	}
}
