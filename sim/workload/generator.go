package workload

import (
	"fmt"
	"sort"

	"github.com/inference-sim/schedsim/sim"
)

// GenerateProcesses creates a process set from a GeneratorSpec.
// Deterministic given the same spec (including seed). Specs are returned in
// non-decreasing arrival order, so the IDs the simulator assigns follow arrival.
func GenerateProcesses(spec *GeneratorSpec) ([]sim.ProcessSpec, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workload spec: %w", err)
	}

	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(spec.Seed))
	arrivalRNG := rng.ForSubsystem(sim.SubsystemArrivals)
	priorityRNG := rng.ForSubsystem(sim.SubsystemPriority)

	arrivals := NewArrivalSampler(spec.Arrival)
	service, err := NewLengthSampler(spec.Service)
	if err != nil {
		return nil, fmt.Errorf("service distribution: %w", err)
	}

	specs := make([]sim.ProcessSpec, spec.Count)
	var prev int64
	for i := range specs {
		prev = arrivals.Next(arrivalRNG, prev)
		specs[i] = sim.ProcessSpec{
			ArrivalTime: prev,
			ServiceTime: service.Sample(arrivalRNG),
			Priority:    spec.Priority.Min + priorityRNG.Intn(spec.Priority.Max-spec.Priority.Min+1),
		}
	}
	sort.SliceStable(specs, func(i, j int) bool {
		return specs[i].ArrivalTime < specs[j].ArrivalTime
	})
	return specs, nil
}

// ProcessFile is the YAML document written by the generate command; its
// processes key is the one a run config reads.
type ProcessFile struct {
	Processes []sim.ProcessSpec `yaml:"processes"`
}
