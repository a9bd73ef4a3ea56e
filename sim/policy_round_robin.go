package sim

import (
	"github.com/gammazero/deque"
)

// RoundRobinPolicy gives each process a fixed slice of Quantum ticks and rotates
// the CPU over waiting processes in cyclic ID order.
//
// The running process is preempted when its slice expires and another process is
// waiting; if nobody else is waiting it keeps the CPU and starts a fresh slice.
// When the CPU is idle (start of run or after a completion) the search resumes
// after the last dispatched ID.
type RoundRobinPolicy struct {
	Quantum int64

	sliceStart int64 // Tick at which the running process was last dispatched
	last       int   // Last dispatched ID; rotation pivot while the CPU is idle
}

// NewRoundRobinPolicy creates a Round Robin policy with the given slice length.
func NewRoundRobinPolicy(quantum int64) *RoundRobinPolicy {
	if quantum <= 0 {
		panic("NewRoundRobinPolicy: quantum must be positive")
	}
	return &RoundRobinPolicy{Quantum: quantum, last: NoProcess}
}

func (rr *RoundRobinPolicy) Name() string { return PolicyRoundRobin }

func (rr *RoundRobinPolicy) Schedule(procs []*Process, running int, clock int64) int {
	if running != NoProcess && clock-rr.sliceStart < rr.Quantum {
		return running
	}
	pivot := running
	if pivot == NoProcess {
		pivot = rr.last
	}
	next := rr.nextAfter(procs, pivot)
	if next == NoProcess {
		if running != NoProcess {
			rr.sliceStart = clock
		}
		return running
	}
	running = switchTo(procs, running, next, clock)
	rr.last = next
	rr.sliceStart = clock
	return running
}

// nextAfter returns the first waiting ID after pivot in cyclic ID order, or NoProcess.
func (rr *RoundRobinPolicy) nextAfter(procs []*Process, pivot int) int {
	var ring deque.Deque[int]
	for _, p := range procs {
		if isWaiting(p) {
			ring.PushBack(p.ID)
		}
	}
	if ring.Len() == 0 {
		return NoProcess
	}
	if i := ring.Index(func(id int) bool { return id > pivot }); i > 0 {
		ring.Rotate(i)
	}
	return ring.Front()
}
