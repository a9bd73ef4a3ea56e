package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/schedsim/sim/trace"
)

// RunConfig holds a complete run description, loadable from a YAML file.
// Nil pointer fields mean "not set in YAML" and do not override the base SimConfig.
// String fields use empty string for "not set".
type RunConfig struct {
	Policy        string        `yaml:"policy"`
	Horizon       *int64        `yaml:"horizon"`
	Quantum       *int64        `yaml:"quantum"`
	PriorityOrder string        `yaml:"priority_order"`
	Trace         string        `yaml:"trace"`
	Processes     []ProcessSpec `yaml:"processes"`
}

// LoadRunConfig reads and parses a YAML run configuration file.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	var rc RunConfig
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("parsing run config: %w", err)
	}
	return &rc, nil
}

// Validate checks that all names and parameter ranges in the file are valid.
// The policy may be a single-character selector or a long name.
func (rc *RunConfig) Validate() error {
	if rc.Policy != "" {
		if _, err := ResolvePolicyName(rc.Policy); err != nil {
			return err
		}
	}
	if !ValidPriorityOrders[PriorityOrder(rc.PriorityOrder)] {
		return fmt.Errorf("%w: unknown priority order %q", ErrInvalidConfig, rc.PriorityOrder)
	}
	if !trace.IsValidTraceLevel(rc.Trace) {
		return fmt.Errorf("%w: unknown trace level %q", ErrInvalidConfig, rc.Trace)
	}
	if rc.Horizon != nil && *rc.Horizon < 0 {
		return fmt.Errorf("%w: horizon must be non-negative, got %d", ErrInvalidConfig, *rc.Horizon)
	}
	if rc.Quantum != nil && *rc.Quantum <= 0 {
		return fmt.Errorf("%w: quantum must be positive, got %d", ErrInvalidConfig, *rc.Quantum)
	}
	for i, spec := range rc.Processes {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("process %d: %w", i, err)
		}
	}
	return nil
}

// Apply overlays the values set in the file onto base.
func (rc *RunConfig) Apply(base SimConfig) (SimConfig, error) {
	if err := rc.Validate(); err != nil {
		return base, err
	}
	cfg := base
	if rc.Policy != "" {
		name, _ := ResolvePolicyName(rc.Policy)
		cfg.Policy = name
	}
	if rc.Horizon != nil {
		cfg.Horizon = *rc.Horizon
	}
	if rc.Quantum != nil {
		cfg.Options.Quantum = *rc.Quantum
	}
	if rc.PriorityOrder != "" {
		cfg.Options.PriorityOrder = PriorityOrder(rc.PriorityOrder)
	}
	if rc.Trace != "" {
		cfg.TraceLevel = trace.TraceLevel(rc.Trace)
	}
	return cfg, nil
}
