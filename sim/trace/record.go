// Package trace provides decision-trace recording for scheduling-policy analysis.
// It has no dependencies on sim/ and stores pure data types.
package trace

// Idle marks CPU occupancy with no process on it.
const Idle = -1

// DecisionKind classifies a change of CPU ownership.
type DecisionKind string

const (
	// KindDispatch: a process was put on the CPU while it was idle.
	KindDispatch DecisionKind = "dispatch"
	// KindPreempt: a running process was sent back to waiting for another one.
	KindPreempt DecisionKind = "preempt"
	// KindComplete: the running process consumed its last tick of service.
	KindComplete DecisionKind = "complete"
)

// DecisionRecord captures a single change of CPU ownership.
type DecisionRecord struct {
	Clock     int64        `json:"clock"`
	Kind      DecisionKind `json:"kind"`
	ProcessID int          `json:"process_id"` // process now on the CPU (or the one that completed)
	Replaced  int          `json:"replaced"`   // process that lost the CPU on preemption; Idle otherwise
	FirstRun  bool         `json:"first_run"`
}

// Segment is a contiguous interval during which one process (or Idle) held the CPU.
type Segment struct {
	ProcessID int   `json:"process_id"`
	Start     int64 `json:"start"`
	End       int64 `json:"end"`
}

// Len returns the number of ticks covered by the segment.
func (s Segment) Len() int64 {
	return s.End - s.Start
}
