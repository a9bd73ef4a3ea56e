package sim

import (
	"cmp"
	"fmt"
	"sort"

	"github.com/addrummond/heap"
)

// SchedulingPolicy decides, once per tick, which process occupies the CPU.
// procs is indexed by process ID (procs[i].ID == i); running is the ID of the
// process currently on the CPU or NoProcess. Schedule returns the new running ID
// and applies the matching status changes in place.
//
// Implementations MUST NOT touch wait or service counters; those belong to the
// simulator's bookkeeping pass.
type SchedulingPolicy interface {
	Name() string
	Schedule(procs []*Process, running int, clock int64) int
}

// PriorityOrder selects which end of the numeric priority range wins the CPU.
type PriorityOrder string

const (
	// LowerFirst gives the CPU to the smallest priority value (default).
	LowerFirst PriorityOrder = "lower-first"
	// HigherFirst gives the CPU to the largest priority value.
	HigherFirst PriorityOrder = "higher-first"
)

// ValidPriorityOrders is the set of recognized priority directions.
var ValidPriorityOrders = map[PriorityOrder]bool{"": true, LowerFirst: true, HigherFirst: true}

// PolicyOptions holds the tunables a policy may read.
type PolicyOptions struct {
	Quantum       int64         // Round Robin slice length in ticks
	PriorityOrder PriorityOrder // Priority comparison direction
}

// DefaultPolicyOptions returns the options used when nothing is configured.
func DefaultPolicyOptions() PolicyOptions {
	return PolicyOptions{Quantum: 2, PriorityOrder: LowerFirst}
}

const (
	PolicyFCFS       = "fcfs"
	PolicySJF        = "sjf"
	PolicySRTF       = "srtf"
	PolicyPriority   = "priority"
	PolicyRoundRobin = "round-robin"
)

// ValidPolicies is the set of recognized policy names.
// Shared by RunConfig.Validate() and NewPolicy() to avoid duplication.
var ValidPolicies = map[string]bool{
	PolicyFCFS:       true,
	PolicySJF:        true,
	PolicySRTF:       true,
	PolicyPriority:   true,
	PolicyRoundRobin: true,
}

// policySelectors maps the legacy single-character selectors to policy names.
var policySelectors = map[string]string{
	"f": PolicyFCFS,
	"n": PolicySJF,
	"s": PolicySRTF,
	"p": PolicyPriority,
	"r": PolicyRoundRobin,
}

// policyTitles are the report headings for each policy.
var policyTitles = map[string]string{
	PolicyFCFS:       "First Come First Serve",
	PolicySJF:        "Shortest Job First (Non-Preemptive)",
	PolicySRTF:       "Shortest Job First (Preemptive)",
	PolicyPriority:   "Priority",
	PolicyRoundRobin: "Round Robin",
}

// PolicyTitle returns the human-readable heading for a policy name.
func PolicyTitle(name string) string {
	if t, ok := policyTitles[name]; ok {
		return t
	}
	return name
}

// PolicyNames returns all policy names in the legacy selector order.
func PolicyNames() []string {
	return []string{PolicyFCFS, PolicySRTF, PolicySJF, PolicyRoundRobin, PolicyPriority}
}

// ResolvePolicyName maps a selector token (single character or long name) to a policy name.
func ResolvePolicyName(token string) (string, error) {
	if name, ok := policySelectors[token]; ok {
		return name, nil
	}
	if ValidPolicies[token] {
		return token, nil
	}
	valid := make([]string, 0, len(policySelectors))
	for sel := range policySelectors {
		valid = append(valid, sel)
	}
	sort.Strings(valid)
	return "", fmt.Errorf("%w %q (valid selectors: %v or their long names)", ErrUnknownPolicy, token, valid)
}

// NewPolicy creates a SchedulingPolicy by name.
// Each call returns a fresh instance; stateful policies must not be shared between runs.
func NewPolicy(name string, opts PolicyOptions) (SchedulingPolicy, error) {
	if !ValidPolicies[name] {
		return nil, fmt.Errorf("%w %q", ErrUnknownPolicy, name)
	}
	if !ValidPriorityOrders[opts.PriorityOrder] {
		return nil, fmt.Errorf("%w: unknown priority order %q", ErrInvalidConfig, opts.PriorityOrder)
	}
	switch name {
	case PolicyFCFS:
		return &FCFSPolicy{}, nil
	case PolicySJF:
		return &SJFPolicy{}, nil
	case PolicySRTF:
		return &SRTFPolicy{}, nil
	case PolicyPriority:
		order := opts.PriorityOrder
		if order == "" {
			order = LowerFirst
		}
		return &PriorityPolicy{Order: order}, nil
	case PolicyRoundRobin:
		if opts.Quantum <= 0 {
			return nil, fmt.Errorf("%w: round-robin quantum must be positive, got %d", ErrInvalidConfig, opts.Quantum)
		}
		return NewRoundRobinPolicy(opts.Quantum), nil
	default:
		panic(fmt.Sprintf("unhandled scheduling policy %q", name))
	}
}

// candidate is one eligible process keyed by the active selection rule.
type candidate struct {
	key int64
	id  int
}

// Cmp orders by key, then by ID so ties always go to the lowest ID.
func (a *candidate) Cmp(b *candidate) int {
	if c := cmp.Compare(a.key, b.key); c != 0 {
		return c
	}
	return cmp.Compare(a.id, b.id)
}

// selectMin returns the ID of the eligible process with the smallest key, or NoProcess.
func selectMin(procs []*Process, eligible func(*Process) bool, key func(*Process) int64) int {
	var candidates heap.Heap[candidate, heap.Min]
	for _, p := range procs {
		if eligible(p) {
			heap.PushOrderable(&candidates, candidate{key: key(p), id: p.ID})
		}
	}
	best, ok := heap.Peek(&candidates)
	if !ok {
		return NoProcess
	}
	return best.id
}

// switchTo moves the CPU from running to next. The preempted process goes back to
// waiting before next is marked running. Re-selecting the running process is a no-op.
func switchTo(procs []*Process, running, next int, clock int64) int {
	if next == running || next == NoProcess {
		return running
	}
	if running != NoProcess {
		procs[running].Status = StatusWaiting
	}
	procs[next].dispatch(clock)
	return next
}

func isWaiting(p *Process) bool { return p.HasArrived && p.Status == StatusWaiting }

// FCFSPolicy runs processes to completion in arrival order (non-preemptive).
// Schedules only when the CPU is idle: at time 0 and when a process finishes.
type FCFSPolicy struct{}

func (f *FCFSPolicy) Name() string { return PolicyFCFS }

func (f *FCFSPolicy) Schedule(procs []*Process, running int, clock int64) int {
	if running != NoProcess {
		return running
	}
	next := selectMin(procs, isWaiting, func(p *Process) int64 { return p.ArrivalTime })
	return switchTo(procs, running, next, clock)
}

// SJFPolicy runs the waiting process with the smallest total service time to
// completion (non-preemptive). Warning: long processes can starve under sustained arrivals.
type SJFPolicy struct{}

func (s *SJFPolicy) Name() string { return PolicySJF }

func (s *SJFPolicy) Schedule(procs []*Process, running int, clock int64) int {
	if running != NoProcess {
		return running
	}
	next := selectMin(procs, isWaiting, func(p *Process) int64 { return p.TotalServiceTime })
	return switchTo(procs, running, next, clock)
}
