// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/schedsim/sim/trace"
)

// Simulator is the simulation context: it owns the process collection for the
// whole run, the clock, the active policy, and the single piece of cross-tick
// scheduling state, the ID of the process on the CPU.
//
// The engine is single-threaded. Runs that must execute in parallel each need
// their own Simulator built from their own NewProcesses copy.
type Simulator struct {
	Clock     int64
	Horizon   int64
	Processes []*Process
	// RunningID is the process on the CPU, or NoProcess when idle.
	RunningID int
	Policy    SchedulingPolicy
	// Trace is nil unless decision tracing is enabled.
	Trace *trace.SimulationTrace

	nextTick int64
}

// NewSimulator validates the configuration and the process definitions, then
// builds the process collection. Nothing is constructed when validation fails.
func NewSimulator(cfg SimConfig, specs []ProcessSpec) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for i, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("process %d: %w", i, err)
		}
	}
	policy, err := NewPolicy(cfg.Policy, cfg.Options)
	if err != nil {
		return nil, err
	}
	s := &Simulator{
		Clock:     0,
		Horizon:   cfg.Horizon,
		Processes: NewProcesses(specs),
		RunningID: NoProcess,
		Policy:    policy,
	}
	if cfg.TraceLevel == trace.TraceLevelDecisions {
		s.Trace = trace.NewSimulationTrace(trace.TraceConfig{Level: cfg.TraceLevel})
	}
	return s, nil
}

// Run executes ticks 0..Horizon inclusive, regardless of whether every process
// has finished. Processes still incomplete at the end keep Finished == false.
func (sim *Simulator) Run() {
	logrus.Infof("Starting simulation: policy=%s, processes=%d, horizon=%d", sim.Policy.Name(), len(sim.Processes), sim.Horizon)
	for tick := sim.nextTick; tick <= sim.Horizon; tick++ {
		sim.Step(tick)
	}
	logrus.Infof("[tick %07d] Simulation ended, %d/%d processes done", sim.Clock, sim.CompletedCount(), len(sim.Processes))
}

// Step executes a single tick: the bookkeeping pass, then one policy decision.
// Ticks must be stepped in order starting from 0.
func (sim *Simulator) Step(now int64) {
	if now != sim.nextTick {
		panic(fmt.Sprintf("Step: expected tick %d, got %d", sim.nextTick, now))
	}
	sim.Clock = now
	sim.nextTick++

	sim.bookkeeping(now)

	prev := sim.RunningID
	sim.RunningID = sim.Policy.Schedule(sim.Processes, prev, now)
	if sim.RunningID != NoProcess && sim.Processes[sim.RunningID].Status != StatusRunning {
		panic(fmt.Sprintf("policy %s returned P%d with status %s", sim.Policy.Name(), sim.RunningID, sim.Processes[sim.RunningID].Status))
	}
	if sim.RunningID != prev {
		sim.recordSwitch(now, prev, sim.RunningID)
	}
	if sim.Trace.Enabled() {
		sim.Trace.RecordOccupancy(sim.RunningID)
	}

	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		for _, p := range sim.Processes {
			logrus.Tracef("[tick %07d] %v", now, p)
		}
	}
}

// bookkeeping updates every process for the current tick, in ID order:
//   - waiting processes accumulate one tick of wait
//   - processes whose arrival tick is now become waiting
//   - the running process consumes one tick of service, and is done at zero
//
// It never puts a process on the CPU; only the policy does.
func (sim *Simulator) bookkeeping(now int64) {
	for _, p := range sim.Processes {
		if p.HasArrived && p.Status == StatusWaiting {
			p.TotalWait++
		}

		if !p.HasArrived && p.ArrivalTime == now {
			p.HasArrived = true
			p.Status = StatusWaiting
			logrus.Debugf("[tick %07d] P%d arrived", now, p.ID)
		}

		if p.Status == StatusRunning {
			p.RemainingServiceTime--
			if p.RemainingServiceTime == 0 {
				p.Status = StatusDone
				p.Finished = true
				p.FinishTime = now
				sim.RunningID = NoProcess
				logrus.Debugf("[tick %07d] P%d finished", now, p.ID)
				if sim.Trace.Enabled() {
					sim.Trace.RecordDecision(trace.DecisionRecord{Clock: now, Kind: trace.KindComplete, ProcessID: p.ID, Replaced: trace.Idle})
				}
			}
		}
	}
}

// recordSwitch logs and traces a change of CPU ownership decided by the policy.
func (sim *Simulator) recordSwitch(now int64, prev, next int) {
	if next == NoProcess {
		return
	}
	p := sim.Processes[next]
	firstRun := p.StartTime == now
	kind := trace.KindDispatch
	if prev != NoProcess {
		kind = trace.KindPreempt
		logrus.Debugf("[tick %07d] P%d preempted by P%d", now, prev, next)
	} else {
		logrus.Debugf("[tick %07d] P%d dispatched", now, next)
	}
	if sim.Trace.Enabled() {
		replaced := trace.Idle
		if prev != NoProcess {
			replaced = prev
		}
		sim.Trace.RecordDecision(trace.DecisionRecord{Clock: now, Kind: kind, ProcessID: next, Replaced: replaced, FirstRun: firstRun})
	}
}

// CompletedCount returns the number of processes that reached done.
func (sim *Simulator) CompletedCount() int {
	n := 0
	for _, p := range sim.Processes {
		if p.Status == StatusDone {
			n++
		}
	}
	return n
}

// Report builds the metrics report from the current process collection.
func (sim *Simulator) Report() *Report {
	return NewReport(sim.Processes, sim.Policy.Name(), sim.Horizon)
}
