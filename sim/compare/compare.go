// Package compare runs several scheduling policies against the same process set
// and ranks them. Every run owns its own process copy and Simulator, so runs
// execute in parallel without sharing state.
package compare

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/inference-sim/schedsim/sim"
	"github.com/inference-sim/schedsim/sim/trace"
)

// Result is the outcome of one policy run.
type Result struct {
	Policy   string
	Rank     int
	Report   *sim.Report
	Summary  *trace.TraceSummary
	Segments []trace.Segment
}

// Options controls a comparison.
type Options struct {
	// Policies to run; empty means sim.PolicyNames().
	Policies []string
	// Workers bounds concurrent runs; <= 0 means GOMAXPROCS.
	Workers int
	// OnDone is called once per finished run, from the run's goroutine.
	OnDone func(Result)
}

// Run simulates every requested policy on specs with base as the shared
// configuration. All configurations are validated before any run starts.
// Results are returned in the order of opts.Policies.
func Run(ctx context.Context, specs []sim.ProcessSpec, base sim.SimConfig, opts Options) ([]Result, error) {
	policies := opts.Policies
	if len(policies) == 0 {
		policies = sim.PolicyNames()
	}
	configs := make([]sim.SimConfig, len(policies))
	for i, name := range policies {
		resolved, err := sim.ResolvePolicyName(name)
		if err != nil {
			return nil, err
		}
		cfg := base
		cfg.Policy = resolved
		cfg.TraceLevel = trace.TraceLevelDecisions
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("policy %s: %w", resolved, err)
		}
		configs[i] = cfg
	}
	for i, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("process %d: %w", i, err)
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	results := make([]Result, len(configs))
	for i, cfg := range configs {
		i, cfg := i, cfg
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := sim.NewSimulator(cfg, specs)
			if err != nil {
				return fmt.Errorf("policy %s: %w", cfg.Policy, err)
			}
			s.Run()
			results[i] = Result{
				Policy:   cfg.Policy,
				Report:   s.Report(),
				Summary:  trace.Summarize(s.Trace),
				Segments: s.Trace.Segments(),
			}
			logrus.Debugf("policy %s finished: avg wait %.2f", cfg.Policy, results[i].Report.AvgWait)
			if opts.OnDone != nil {
				opts.OnDone(results[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	assignRanks(results)
	return results, nil
}

// assignRanks ranks results by fewest incomplete processes, then lowest average
// wait, then lowest average turnaround; remaining ties keep input order.
func assignRanks(results []Result) {
	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := results[order[a]].Report, results[order[b]].Report
		if ra.Incomplete != rb.Incomplete {
			return ra.Incomplete < rb.Incomplete
		}
		if ra.AvgWait != rb.AvgWait {
			return ra.AvgWait < rb.AvgWait
		}
		if ra.AvgTurnaround != nil && rb.AvgTurnaround != nil && *ra.AvgTurnaround != *rb.AvgTurnaround {
			return *ra.AvgTurnaround < *rb.AvgTurnaround
		}
		return false
	})
	for rank, idx := range order {
		results[idx].Rank = rank + 1
	}
}

// Ranked returns a copy of results sorted by rank.
func Ranked(results []Result) []Result {
	out := append([]Result(nil), results...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}
