package workload

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GeneratorSpec describes a synthetic process set. Loadable from YAML.
//
// Example:
//
//	seed: 42
//	count: 6
//	arrival:
//	  process: poisson
//	  mean_interarrival: 2
//	service:
//	  type: gaussian
//	  params: {mean: 5, std_dev: 2, min: 1, max: 10}
//	priority:
//	  min: 1
//	  max: 5
type GeneratorSpec struct {
	Seed     int64        `yaml:"seed"`
	Count    int          `yaml:"count"`
	Arrival  ArrivalSpec  `yaml:"arrival"`
	Service  DistSpec     `yaml:"service"`
	Priority PrioritySpec `yaml:"priority"`
}

// ArrivalSpec selects how arrival ticks are drawn.
// "poisson" draws exponential inter-arrival gaps with the given mean (gaps of 0
// are simultaneous arrivals); "uniform" draws each arrival in [0, max_tick].
type ArrivalSpec struct {
	Process          string  `yaml:"process"`
	MeanInterarrival float64 `yaml:"mean_interarrival,omitempty"`
	MaxTick          int64   `yaml:"max_tick,omitempty"`
}

// DistSpec parameterizes a service-time distribution.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// PrioritySpec is the inclusive range priorities are drawn from uniformly.
type PrioritySpec struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// DefaultGeneratorSpec mirrors the classic six-process exercise input scale.
func DefaultGeneratorSpec() GeneratorSpec {
	return GeneratorSpec{
		Seed:     42,
		Count:    6,
		Arrival:  ArrivalSpec{Process: "poisson", MeanInterarrival: 2},
		Service:  DistSpec{Type: "gaussian", Params: map[string]float64{"mean": 5, "std_dev": 2, "min": 1, "max": 10}},
		Priority: PrioritySpec{Min: 1, Max: 5},
	}
}

var validArrivalProcesses = map[string]bool{"poisson": true, "uniform": true}

// Validate checks the spec for values the generator cannot honor.
func (s *GeneratorSpec) Validate() error {
	if s.Count <= 0 {
		return fmt.Errorf("count must be positive, got %d", s.Count)
	}
	if !validArrivalProcesses[s.Arrival.Process] {
		return fmt.Errorf("unknown arrival process %q", s.Arrival.Process)
	}
	if s.Arrival.Process == "poisson" && s.Arrival.MeanInterarrival < 0 {
		return fmt.Errorf("mean_interarrival must be non-negative, got %f", s.Arrival.MeanInterarrival)
	}
	if s.Arrival.Process == "uniform" && s.Arrival.MaxTick < 0 {
		return fmt.Errorf("max_tick must be non-negative, got %d", s.Arrival.MaxTick)
	}
	if _, err := NewLengthSampler(s.Service); err != nil {
		return fmt.Errorf("service distribution: %w", err)
	}
	if s.Priority.Max < s.Priority.Min {
		return fmt.Errorf("priority max %d is below min %d", s.Priority.Max, s.Priority.Min)
	}
	return nil
}

// LoadGeneratorSpec reads a GeneratorSpec from a YAML file.
func LoadGeneratorSpec(path string) (*GeneratorSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload spec: %w", err)
	}
	spec := DefaultGeneratorSpec()
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing workload spec: %w", err)
	}
	return &spec, nil
}
