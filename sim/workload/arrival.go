package workload

import (
	"math"
	"math/rand"
)

// ArrivalSampler generates the arrival tick of each successive process.
type ArrivalSampler interface {
	// Next returns the arrival tick of the next process; never below prev.
	Next(rng *rand.Rand, prev int64) int64
}

// PoissonArrivals draws exponential inter-arrival gaps rounded to whole ticks.
// A gap of 0 means two processes arrive on the same tick.
type PoissonArrivals struct {
	mean float64
}

func (a *PoissonArrivals) Next(rng *rand.Rand, prev int64) int64 {
	if a.mean == 0 {
		return prev
	}
	return prev + int64(math.Round(rng.ExpFloat64()*a.mean))
}

// UniformArrivals draws every arrival independently from [0, maxTick].
// Arrivals are not ordered; the generator sorts them afterwards.
type UniformArrivals struct {
	maxTick int64
}

func (a *UniformArrivals) Next(rng *rand.Rand, _ int64) int64 {
	return rng.Int63n(a.maxTick + 1)
}

// NewArrivalSampler creates an ArrivalSampler from an ArrivalSpec.
func NewArrivalSampler(spec ArrivalSpec) ArrivalSampler {
	switch spec.Process {
	case "uniform":
		return &UniformArrivals{maxTick: spec.MaxTick}
	default:
		return &PoissonArrivals{mean: spec.MeanInterarrival}
	}
}
