// Defines the Process struct that models one synthetic workload unit in the simulation.
// Tracks arrival, service demand, accumulated wait, and the start/finish ticks used for reporting.

package sim

import (
	"fmt"
)

// NoProcess is the running ID when the CPU is idle.
const NoProcess = -1

// ProcessStatus represents the lifecycle state of a process.
// Transitions: not-arrived → waiting → running ⇄ waiting → done.
type ProcessStatus string

const (
	StatusNotArrived ProcessStatus = "not-arrived"
	StatusWaiting    ProcessStatus = "waiting"
	StatusRunning    ProcessStatus = "running"
	StatusDone       ProcessStatus = "done"
)

// ProcessSpec is the externally supplied definition of a process.
type ProcessSpec struct {
	ArrivalTime int64 `yaml:"arrival" json:"arrival"`
	ServiceTime int64 `yaml:"service" json:"service"`
	Priority    int   `yaml:"priority" json:"priority"`
}

// Validate rejects specs the engine cannot simulate.
func (s ProcessSpec) Validate() error {
	if s.ArrivalTime < 0 {
		return fmt.Errorf("%w: arrival time must be non-negative, got %d", ErrInvalidConfig, s.ArrivalTime)
	}
	if s.ServiceTime <= 0 {
		return fmt.Errorf("%w: service time must be positive, got %d", ErrInvalidConfig, s.ServiceTime)
	}
	return nil
}

// Process models a single process's lifecycle in the simulation.
type Process struct {
	ID int // Stable identity, also the deterministic tie-breaker

	ArrivalTime          int64 // Tick at which the process becomes eligible to run
	TotalServiceTime     int64 // Total CPU ticks required
	RemainingServiceTime int64 // Ticks still required; decremented while running
	TotalWait            int64 // Ticks spent arrived but waiting
	Priority             int   // Scheduling weight; direction set by PriorityOrder

	Status     ProcessStatus
	HasArrived bool

	Started    bool  // Tracks whether StartTime has been set
	StartTime  int64 // First tick the process occupied the CPU
	Finished   bool  // Tracks whether FinishTime has been set
	FinishTime int64 // Tick at which RemainingServiceTime reached 0
}

// NewProcess creates a process in the not-arrived state.
func NewProcess(id int, spec ProcessSpec) *Process {
	return &Process{
		ID:                   id,
		ArrivalTime:          spec.ArrivalTime,
		TotalServiceTime:     spec.ServiceTime,
		RemainingServiceTime: spec.ServiceTime,
		Priority:             spec.Priority,
		Status:               StatusNotArrived,
	}
}

// NewProcesses builds a fresh process collection with IDs 0..N-1 in spec order.
// Every call returns independent processes, so concurrent runs never share state.
func NewProcesses(specs []ProcessSpec) []*Process {
	procs := make([]*Process, len(specs))
	for i, spec := range specs {
		procs[i] = NewProcess(i, spec)
	}
	return procs
}

// Clone returns a deep copy of the process.
func (p *Process) Clone() *Process {
	c := *p
	return &c
}

// Eligible reports whether the process has arrived and is not done.
func (p *Process) Eligible() bool {
	return p.HasArrived && p.Status != StatusDone
}

// ServedTicks returns the number of ticks the process has spent on the CPU.
func (p *Process) ServedTicks() int64 {
	return p.TotalServiceTime - p.RemainingServiceTime
}

// dispatch puts the process on the CPU at clock, recording the first start only once.
func (p *Process) dispatch(clock int64) {
	p.Status = StatusRunning
	if !p.Started {
		p.Started = true
		p.StartTime = clock
	}
}

// This method returns a human-readable dump of a Process, one line per process.
func (p Process) String() string {
	arrived := "N"
	if p.HasArrived {
		arrived = "Y"
	}
	start, finish := "-", "-"
	if p.Started {
		start = fmt.Sprint(p.StartTime)
	}
	if p.Finished {
		finish = fmt.Sprint(p.FinishTime)
	}
	return fmt.Sprintf("P[%2d]: arvl:%2d arvd:%s st:%2s ts:%2d rs:%2d tw:%2d stat:%s pr:%d fin:%2s",
		p.ID, p.ArrivalTime, arrived, start, p.TotalServiceTime, p.RemainingServiceTime,
		p.TotalWait, p.Status, p.Priority, finish)
}
