package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every dispatch, preemption and completion plus CPU occupancy.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects decision records and per-tick CPU occupancy during a run.
type SimulationTrace struct {
	Config    TraceConfig
	Decisions []DecisionRecord
	// Occupancy[t] is the process holding the CPU after the decision at tick t (Idle if none).
	Occupancy []int
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:    config,
		Decisions: make([]DecisionRecord, 0),
		Occupancy: make([]int, 0),
	}
}

// Enabled reports whether records should be collected.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Config.Level == TraceLevelDecisions
}

// RecordDecision appends a decision record.
func (st *SimulationTrace) RecordDecision(record DecisionRecord) {
	st.Decisions = append(st.Decisions, record)
}

// RecordOccupancy appends the CPU holder for the next tick.
func (st *SimulationTrace) RecordOccupancy(processID int) {
	st.Occupancy = append(st.Occupancy, processID)
}

// Segments collapses the occupancy timeline into contiguous CPU intervals,
// idle gaps included. Segment i covers ticks [Start, End).
func (st *SimulationTrace) Segments() []Segment {
	if st == nil || len(st.Occupancy) == 0 {
		return nil
	}
	segments := []Segment{{ProcessID: st.Occupancy[0], Start: 0, End: 1}}
	for t := 1; t < len(st.Occupancy); t++ {
		last := &segments[len(segments)-1]
		if st.Occupancy[t] == last.ProcessID {
			last.End++
			continue
		}
		segments = append(segments, Segment{ProcessID: st.Occupancy[t], Start: int64(t), End: int64(t) + 1})
	}
	return segments
}
