package workload

import (
	"fmt"
	"math"
	"math/rand"
)

// LengthSampler generates service-time samples in ticks.
type LengthSampler interface {
	// Sample returns a positive tick count (>= 1).
	Sample(rng *rand.Rand) int64
}

// GaussianSampler produces clamped Gaussian service times.
type GaussianSampler struct {
	mean, stdDev float64
	min, max     int64
}

func (s *GaussianSampler) Sample(rng *rand.Rand) int64 {
	if s.min == s.max {
		return max(s.min, 1)
	}
	val := rng.NormFloat64()*s.stdDev + s.mean
	clamped := math.Min(float64(s.max), math.Max(float64(s.min), val))
	result := int64(math.Round(clamped))
	if result < 1 {
		return 1
	}
	return result
}

// ExponentialSampler produces exponentially-distributed service times.
type ExponentialSampler struct {
	mean float64
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) int64 {
	result := int64(math.Round(rng.ExpFloat64() * s.mean))
	if result < 1 {
		return 1
	}
	return result
}

// UniformSampler draws service times uniformly from [min, max].
type UniformSampler struct {
	min, max int64
}

func (s *UniformSampler) Sample(rng *rand.Rand) int64 {
	return s.min + rng.Int63n(s.max-s.min+1)
}

// ConstantSampler always returns the same value.
type ConstantSampler struct {
	value int64
}

func (s *ConstantSampler) Sample(_ *rand.Rand) int64 {
	return s.value
}

// NewLengthSampler creates a LengthSampler from a DistSpec.
func NewLengthSampler(spec DistSpec) (LengthSampler, error) {
	switch spec.Type {
	case "gaussian":
		if err := requireParam(spec.Params, "mean", "std_dev", "min", "max"); err != nil {
			return nil, err
		}
		s := &GaussianSampler{
			mean:   spec.Params["mean"],
			stdDev: spec.Params["std_dev"],
			min:    int64(spec.Params["min"]),
			max:    int64(spec.Params["max"]),
		}
		if s.max < s.min || s.max < 1 {
			return nil, fmt.Errorf("gaussian range [%d, %d] admits no positive service time", s.min, s.max)
		}
		return s, nil

	case "exponential":
		if err := requireParam(spec.Params, "mean"); err != nil {
			return nil, err
		}
		if spec.Params["mean"] <= 0 {
			return nil, fmt.Errorf("exponential mean must be positive, got %f", spec.Params["mean"])
		}
		return &ExponentialSampler{mean: spec.Params["mean"]}, nil

	case "uniform":
		if err := requireParam(spec.Params, "min", "max"); err != nil {
			return nil, err
		}
		s := &UniformSampler{min: int64(spec.Params["min"]), max: int64(spec.Params["max"])}
		if s.min < 1 || s.max < s.min {
			return nil, fmt.Errorf("uniform range [%d, %d] must satisfy 1 <= min <= max", s.min, s.max)
		}
		return s, nil

	case "constant":
		if err := requireParam(spec.Params, "value"); err != nil {
			return nil, err
		}
		val := int64(spec.Params["value"])
		if val < 1 {
			return nil, fmt.Errorf("constant service time must be positive, got %d", val)
		}
		return &ConstantSampler{value: val}, nil

	default:
		return nil, fmt.Errorf("unknown distribution type %q", spec.Type)
	}
}

func requireParam(params map[string]float64, names ...string) error {
	for _, name := range names {
		if _, ok := params[name]; !ok {
			return fmt.Errorf("missing required parameter %q", name)
		}
	}
	return nil
}
