package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	Dispatches      int         `json:"dispatches"`
	Preemptions     int         `json:"preemptions"`
	Completions     int         `json:"completions"`
	ContextSwitches int         `json:"context_switches"` // dispatches + preemptions
	IdleTicks       int         `json:"idle_ticks"`
	BusyTicks       int         `json:"busy_ticks"`
	Utilization     float64     `json:"utilization"`      // BusyTicks / observed ticks
	TicksByProcess  map[int]int `json:"ticks_by_process"` // process ID → ticks held
	SliceCounts     map[int]int `json:"slice_counts"`     // process ID → number of CPU segments
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		TicksByProcess: make(map[int]int),
		SliceCounts:    make(map[int]int),
	}
	if st == nil {
		return summary
	}

	for _, d := range st.Decisions {
		switch d.Kind {
		case KindDispatch:
			summary.Dispatches++
		case KindPreempt:
			summary.Preemptions++
		case KindComplete:
			summary.Completions++
		}
	}
	summary.ContextSwitches = summary.Dispatches + summary.Preemptions

	for _, id := range st.Occupancy {
		if id == Idle {
			summary.IdleTicks++
			continue
		}
		summary.BusyTicks++
		summary.TicksByProcess[id]++
	}
	for _, seg := range st.Segments() {
		if seg.ProcessID != Idle {
			summary.SliceCounts[seg.ProcessID]++
		}
	}
	if n := len(st.Occupancy); n > 0 {
		summary.Utilization = float64(summary.BusyTicks) / float64(n)
	}
	return summary
}
