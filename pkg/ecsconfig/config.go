// Package ecsconfig loads the scheduler's bootstrap configuration: worker
// pool size, logging options, and the expected system topology (names and
// predecessor edges), so that topology mistakes surface before any system
// code runs rather than as a runtime panic mid-tick.
package ecsconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// SystemSpec names one expected scheduler system and its predecessors, the
// same shape Scheduler.Add takes.
type SystemSpec struct {
	Name         string   `json:"name" yaml:"name"`
	Predecessors []string `json:"predecessors,omitempty" yaml:"predecessors,omitempty"`
}

// Config is the scheduler's bootstrap configuration.
type Config struct {
	Workers     int          `json:"workers" yaml:"workers"`
	LogLevel    string       `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	LogJSON     bool         `json:"log_json,omitempty" yaml:"log_json,omitempty"`
	MetricsAddr string       `json:"metrics_addr,omitempty" yaml:"metrics_addr,omitempty"`
	Topology    []SystemSpec `json:"topology,omitempty" yaml:"topology,omitempty"`
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() Config {
	return Config{
		Workers:  4,
		LogLevel: "info",
	}
}

// Load reads cfg from path. Files named *.yaml or *.yml are parsed as
// YAML; everything else is parsed as JWCC (JSON-with-comments) via hujson,
// which also accepts plain JSON.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("ecsconfig: read %s: %w", path, err)
	}

	cfg := DefaultConfig()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("ecsconfig: parse yaml %s: %w", path, err)
		}
	default:
		standardized, err := hujson.Standardize(data)
		if err != nil {
			return Config{}, fmt.Errorf("ecsconfig: parse jwcc %s: %w", path, err)
		}
		if err := json.Unmarshal(standardized, &cfg); err != nil {
			return Config{}, fmt.Errorf("ecsconfig: parse json %s: %w", path, err)
		}
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks structural invariants: a positive worker count, unique
// system names, and a predecessor graph with no cycles.
func Validate(cfg Config) error {
	if cfg.Workers < 1 {
		return fmt.Errorf("ecsconfig: workers must be >= 1, got %d", cfg.Workers)
	}
	return ValidateTopology(cfg.Topology)
}

// ValidateTopology reports the first cycle or unresolved predecessor
// reference found in specs, or nil if the graph is a valid DAG over a
// closed set of names.
func ValidateTopology(specs []SystemSpec) error {
	byName := make(map[string]SystemSpec, len(specs))
	for _, s := range specs {
		if _, dup := byName[s.Name]; dup {
			return fmt.Errorf("ecsconfig: duplicate system name %q", s.Name)
		}
		byName[s.Name] = s
	}
	for _, s := range specs {
		for _, p := range s.Predecessors {
			if _, ok := byName[p]; !ok {
				return fmt.Errorf("ecsconfig: system %q references unknown predecessor %q", s.Name, p)
			}
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(specs))
	var visit func(name string, stack []string) error
	visit = func(name string, stack []string) error {
		switch color[name] {
		case black:
			return nil
		case gray:
			return fmt.Errorf("ecsconfig: predecessor cycle detected: %s -> %s", strings.Join(stack, " -> "), name)
		}
		color[name] = gray
		for _, p := range byName[name].Predecessors {
			if err := visit(p, append(stack, name)); err != nil {
				return err
			}
		}
		color[name] = black
		return nil
	}
	for _, s := range specs {
		if err := visit(s.Name, nil); err != nil {
			return err
		}
	}
	return nil
}
