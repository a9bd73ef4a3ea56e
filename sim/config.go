package sim

import (
	"fmt"

	"github.com/inference-sim/schedsim/sim/trace"
)

// DefaultHorizon is the legacy fixed run length: ticks 0..26 inclusive.
const DefaultHorizon = 26

// SimConfig groups the run parameters NewSimulator needs besides the processes.
type SimConfig struct {
	Horizon    int64            // last tick executed (inclusive); must be >= 0
	Policy     string           // policy name, see ValidPolicies
	Options    PolicyOptions    // policy tunables
	TraceLevel trace.TraceLevel // "none" (default) or "decisions"
}

// DefaultSimConfig returns the configuration used when nothing is set.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Horizon:    DefaultHorizon,
		Policy:     PolicyFCFS,
		Options:    DefaultPolicyOptions(),
		TraceLevel: trace.TraceLevelNone,
	}
}

// Validate checks names and ranges. It never builds engine state.
func (c SimConfig) Validate() error {
	if c.Horizon < 0 {
		return fmt.Errorf("%w: horizon must be non-negative, got %d", ErrInvalidConfig, c.Horizon)
	}
	if !ValidPolicies[c.Policy] {
		return fmt.Errorf("%w %q", ErrUnknownPolicy, c.Policy)
	}
	if !ValidPriorityOrders[c.Options.PriorityOrder] {
		return fmt.Errorf("%w: unknown priority order %q", ErrInvalidConfig, c.Options.PriorityOrder)
	}
	if c.Policy == PolicyRoundRobin && c.Options.Quantum <= 0 {
		return fmt.Errorf("%w: round-robin quantum must be positive, got %d", ErrInvalidConfig, c.Options.Quantum)
	}
	if !trace.IsValidTraceLevel(string(c.TraceLevel)) {
		return fmt.Errorf("%w: unknown trace level %q", ErrInvalidConfig, c.TraceLevel)
	}
	return nil
}
