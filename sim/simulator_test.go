package sim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/inference-sim/schedsim/sim/internal/testutil"
	"github.com/inference-sim/schedsim/sim/trace"
)

// newTestSimulator builds a simulator with decision tracing on.
func newTestSimulator(t *testing.T, policy string, horizon int64, specs ...ProcessSpec) *Simulator {
	t.Helper()
	cfg := DefaultSimConfig()
	cfg.Policy = policy
	cfg.Horizon = horizon
	cfg.TraceLevel = trace.TraceLevelDecisions
	s, err := NewSimulator(cfg, specs)
	require.NoError(t, err)
	return s
}

func runTestSimulator(t *testing.T, policy string, horizon int64, specs ...ProcessSpec) *Simulator {
	t.Helper()
	s := newTestSimulator(t, policy, horizon, specs...)
	s.Run()
	return s
}

// assertTimes checks start, finish and wait of one process.
func assertTimes(t *testing.T, p *Process, start, finish, wait int64) {
	t.Helper()
	assert.True(t, p.Started, "P%d never started", p.ID)
	assert.Equal(t, start, p.StartTime, "P%d start", p.ID)
	assert.True(t, p.Finished, "P%d never finished", p.ID)
	assert.Equal(t, finish, p.FinishTime, "P%d finish", p.ID)
	assert.Equal(t, wait, p.TotalWait, "P%d wait", p.ID)
	assert.Equal(t, StatusDone, p.Status)
}

func TestSimulator_FCFS_TwoProcesses(t *testing.T) {
	s := runTestSimulator(t, PolicyFCFS, 6,
		ProcessSpec{ArrivalTime: 0, ServiceTime: 3},
		ProcessSpec{ArrivalTime: 1, ServiceTime: 2},
	)
	assertTimes(t, s.Processes[0], 0, 3, 0)
	assertTimes(t, s.Processes[1], 3, 5, 2)

	r := s.Report()
	assert.Equal(t, int64(3), *r.Processes[0].Turnaround)
	assert.Equal(t, int64(0), *r.Processes[0].Response)
	assert.Equal(t, int64(4), *r.Processes[1].Turnaround)
	assert.Equal(t, int64(2), *r.Processes[1].Response)
}

func TestSimulator_SJF_ShorterServiceWinsArrivalTie(t *testing.T) {
	s := runTestSimulator(t, PolicySJF, 10,
		ProcessSpec{ArrivalTime: 0, ServiceTime: 5},
		ProcessSpec{ArrivalTime: 0, ServiceTime: 2},
	)
	assertTimes(t, s.Processes[1], 0, 2, 0)
	assertTimes(t, s.Processes[0], 2, 7, 2)
}

func TestSimulator_SRTF_ArrivalPreemptsLongerRemaining(t *testing.T) {
	s := runTestSimulator(t, PolicySRTF, 10,
		ProcessSpec{ArrivalTime: 0, ServiceTime: 4},
		ProcessSpec{ArrivalTime: 2, ServiceTime: 1},
	)
	assertTimes(t, s.Processes[1], 2, 3, 0)
	assertTimes(t, s.Processes[0], 0, 5, 1)

	summary := trace.Summarize(s.Trace)
	assert.Equal(t, 1, summary.Preemptions)
	assert.Equal(t, 2, summary.Completions)
	assert.Equal(t, []trace.Segment{
		{ProcessID: 0, Start: 0, End: 2},
		{ProcessID: 1, Start: 2, End: 3},
		{ProcessID: 0, Start: 3, End: 5},
		{ProcessID: trace.Idle, Start: 5, End: 11},
	}, s.Trace.Segments())
}

func TestSimulator_Priority_TieGoesToLowerIDUntilStrictlyBetterArrives(t *testing.T) {
	s := runTestSimulator(t, PolicyPriority, 12,
		ProcessSpec{ArrivalTime: 0, ServiceTime: 3, Priority: 2},
		ProcessSpec{ArrivalTime: 0, ServiceTime: 3, Priority: 2},
		ProcessSpec{ArrivalTime: 1, ServiceTime: 2, Priority: 2}, // equal: no preemption
		ProcessSpec{ArrivalTime: 2, ServiceTime: 1, Priority: 1}, // strictly better: preempts
	)
	// P0 runs 0-1, P3 preempts at 2 and finishes at 3, P0 resumes and finishes at 4.
	assertTimes(t, s.Processes[0], 0, 4, 1)
	assertTimes(t, s.Processes[3], 2, 3, 0)
	// Equal-priority processes then run in ID order.
	assertTimes(t, s.Processes[1], 4, 7, 4)
	assertTimes(t, s.Processes[2], 7, 9, 6)
}

func TestSimulator_HorizonShorterThanWork_ReportsIncomplete(t *testing.T) {
	s := runTestSimulator(t, PolicyFCFS, 3,
		ProcessSpec{ArrivalTime: 0, ServiceTime: 10},
		ProcessSpec{ArrivalTime: 1, ServiceTime: 1},
	)
	p0, p1 := s.Processes[0], s.Processes[1]
	assert.Equal(t, StatusRunning, p0.Status)
	assert.False(t, p0.Finished)
	assert.Equal(t, int64(7), p0.RemainingServiceTime)
	assert.False(t, p1.Started)
	assert.Equal(t, int64(2), p1.TotalWait)

	r := s.Report()
	assert.Nil(t, r.Processes[0].Turnaround)
	assert.Equal(t, int64(0), *r.Processes[0].Response)
	assert.Nil(t, r.Processes[1].Turnaround)
	assert.Nil(t, r.Processes[1].Response)
	assert.Nil(t, r.AvgTurnaround)
	assert.Nil(t, r.AvgResponse)
	assert.Equal(t, 2, r.Incomplete)
	assert.Equal(t, 0, r.Completed)
}

func TestSimulator_RoundRobin_AlternatesSlices(t *testing.T) {
	s := runTestSimulator(t, PolicyRoundRobin, 10,
		ProcessSpec{ArrivalTime: 0, ServiceTime: 3},
		ProcessSpec{ArrivalTime: 0, ServiceTime: 3},
	)
	assertTimes(t, s.Processes[0], 0, 5, 2)
	assertTimes(t, s.Processes[1], 2, 6, 3)
	assert.Equal(t, []int{0, 0, 1, 1, 0, 1, -1, -1, -1, -1, -1}, s.Trace.Occupancy)
}

func TestSimulator_IdleUntilFirstArrival(t *testing.T) {
	for _, policy := range PolicyNames() {
		t.Run(policy, func(t *testing.T) {
			s := runTestSimulator(t, policy, 8, ProcessSpec{ArrivalTime: 3, ServiceTime: 2})
			assertTimes(t, s.Processes[0], 3, 5, 0)
			summary := trace.Summarize(s.Trace)
			assert.Equal(t, 2, summary.BusyTicks)
			assert.Equal(t, 7, summary.IdleTicks)
		})
	}
}

func TestSimulator_ZeroHorizon_RunsOnlyTickZero(t *testing.T) {
	s := runTestSimulator(t, PolicyFCFS, 0, ProcessSpec{ArrivalTime: 0, ServiceTime: 1})
	assert.Equal(t, int64(0), s.Clock)
	assert.Equal(t, 0, s.RunningID)
	assert.Equal(t, int64(1), s.Processes[0].RemainingServiceTime)
	assert.Len(t, s.Trace.Occupancy, 1)
}

func TestSimulator_ArrivalAfterHorizon_NeverArrives(t *testing.T) {
	s := runTestSimulator(t, PolicySRTF, 4,
		ProcessSpec{ArrivalTime: 0, ServiceTime: 1},
		ProcessSpec{ArrivalTime: 9, ServiceTime: 1},
	)
	p := s.Processes[1]
	assert.False(t, p.HasArrived)
	assert.Equal(t, StatusNotArrived, p.Status)
	assert.Equal(t, int64(0), p.TotalWait)
	assert.Nil(t, s.Report().Processes[1].Response)
}

func TestSimulator_StepOutOfOrder_Panics(t *testing.T) {
	s := newTestSimulator(t, PolicyFCFS, 5, ProcessSpec{ArrivalTime: 0, ServiceTime: 1})
	s.Step(0)
	assert.Panics(t, func() { s.Step(2) })
}

func TestSimulator_StepThenRun_ContinuesFromNextTick(t *testing.T) {
	stepped := newTestSimulator(t, PolicyRoundRobin, 9,
		ProcessSpec{ArrivalTime: 0, ServiceTime: 4},
		ProcessSpec{ArrivalTime: 1, ServiceTime: 3},
	)
	stepped.Step(0)
	stepped.Step(1)
	stepped.Run()

	whole := runTestSimulator(t, PolicyRoundRobin, 9,
		ProcessSpec{ArrivalTime: 0, ServiceTime: 4},
		ProcessSpec{ArrivalTime: 1, ServiceTime: 3},
	)
	assert.Equal(t, whole.Report(), stepped.Report())
	assert.Equal(t, whole.Trace.Occupancy, stepped.Trace.Occupancy)
}

func TestNewSimulator_RejectsInvalidInput(t *testing.T) {
	valid := []ProcessSpec{{ArrivalTime: 0, ServiceTime: 1}}
	tests := []struct {
		name   string
		mutate func(*SimConfig)
		specs  []ProcessSpec
		want   error
	}{
		{"unknown policy", func(c *SimConfig) { c.Policy = "lottery" }, valid, ErrUnknownPolicy},
		{"negative horizon", func(c *SimConfig) { c.Horizon = -1 }, valid, ErrInvalidConfig},
		{"zero quantum", func(c *SimConfig) { c.Policy = PolicyRoundRobin; c.Options.Quantum = 0 }, valid, ErrInvalidConfig},
		{"unknown priority order", func(c *SimConfig) { c.Options.PriorityOrder = "sideways" }, valid, ErrInvalidConfig},
		{"unknown trace level", func(c *SimConfig) { c.TraceLevel = "verbose" }, valid, ErrInvalidConfig},
		{"zero service", func(*SimConfig) {}, []ProcessSpec{{ArrivalTime: 0, ServiceTime: 0}}, ErrInvalidConfig},
		{"negative arrival", func(*SimConfig) {}, []ProcessSpec{{ArrivalTime: -2, ServiceTime: 1}}, ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSimConfig()
			tt.mutate(&cfg)
			s, err := NewSimulator(cfg, tt.specs)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, s)
		})
	}
}

func TestSimulator_Deterministic(t *testing.T) {
	specs := []ProcessSpec{
		{ArrivalTime: 0, ServiceTime: 5, Priority: 3},
		{ArrivalTime: 1, ServiceTime: 3, Priority: 1},
		{ArrivalTime: 2, ServiceTime: 8, Priority: 4},
		{ArrivalTime: 3, ServiceTime: 2, Priority: 2},
	}
	for _, policy := range PolicyNames() {
		a := runTestSimulator(t, policy, 20, specs...)
		b := runTestSimulator(t, policy, 20, specs...)
		assert.Equal(t, a.Report(), b.Report(), policy)
		assert.Equal(t, a.Trace, b.Trace, policy)
	}
}

func TestSimulator_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	require.NotEmpty(t, dataset.Tests)

	for _, tc := range dataset.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			specs := make([]ProcessSpec, len(tc.Processes))
			for i, p := range tc.Processes {
				specs[i] = ProcessSpec{ArrivalTime: p.Arrival, ServiceTime: p.Service, Priority: p.Priority}
			}
			cfg := SimConfig{
				Horizon:    tc.Horizon,
				Policy:     tc.Policy,
				Options:    PolicyOptions{Quantum: tc.Quantum, PriorityOrder: PriorityOrder(tc.PriorityOrder)},
				TraceLevel: trace.TraceLevelDecisions,
			}
			s, err := NewSimulator(cfg, specs)
			require.NoError(t, err)
			s.Run()
			r := s.Report()

			for i, want := range tc.Expected.Processes {
				got := r.Processes[i]
				assert.Equal(t, want.ID, got.ID)
				assert.Equal(t, want.Wait, got.Wait, "P%d wait", want.ID)
				assert.Equal(t, want.Start, got.StartTime, "P%d start", want.ID)
				assert.Equal(t, want.Finish, got.FinishTime, "P%d finish", want.ID)
				assert.Equal(t, want.Turnaround, got.Turnaround, "P%d turnaround", want.ID)
				assert.Equal(t, want.Response, got.Response, "P%d response", want.ID)
			}
			testutil.AssertFloat64Equal(t, "average_wait", tc.Expected.AverageWait, r.AvgWait, 1e-6)
			assertOptionalAverage(t, "average_turnaround", tc.Expected.AverageTurnaround, r.AvgTurnaround)
			assertOptionalAverage(t, "average_response", tc.Expected.AverageResponse, r.AvgResponse)
			assert.Equal(t, tc.Expected.Completed, r.Completed)
			assert.Equal(t, tc.Expected.Occupancy, s.Trace.Occupancy)
		})
	}
}

func assertOptionalAverage(t *testing.T, name string, want, got *float64) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got, name)
		return
	}
	require.NotNil(t, got, name)
	testutil.AssertFloat64Equal(t, name, *want, *got, 1e-6)
}

// drawSpecs generates a small random process set.
func drawSpecs(t *rapid.T) []ProcessSpec {
	n := rapid.IntRange(1, 8).Draw(t, "n")
	specs := make([]ProcessSpec, n)
	for i := range specs {
		specs[i] = ProcessSpec{
			ArrivalTime: rapid.Int64Range(0, 15).Draw(t, fmt.Sprintf("arrival%d", i)),
			ServiceTime: rapid.Int64Range(1, 8).Draw(t, fmt.Sprintf("service%d", i)),
			Priority:    rapid.IntRange(0, 5).Draw(t, fmt.Sprintf("priority%d", i)),
		}
	}
	return specs
}

// TestSimulator_TickInvariants steps random workloads under every policy and
// checks the accounting after each tick.
func TestSimulator_TickInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		specs := drawSpecs(t)
		cfg := DefaultSimConfig()
		cfg.Policy = rapid.SampledFrom(PolicyNames()).Draw(t, "policy")
		cfg.Horizon = rapid.Int64Range(0, 40).Draw(t, "horizon")
		cfg.Options.Quantum = rapid.Int64Range(1, 4).Draw(t, "quantum")
		cfg.Options.PriorityOrder = rapid.SampledFrom([]PriorityOrder{LowerFirst, HigherFirst}).Draw(t, "order")

		s, err := NewSimulator(cfg, specs)
		if err != nil {
			t.Fatalf("NewSimulator: %v", err)
		}
		for tick := int64(0); tick <= cfg.Horizon; tick++ {
			s.Step(tick)

			running, waiting := 0, 0
			for _, p := range s.Processes {
				switch p.Status {
				case StatusRunning:
					running++
					if p.ID != s.RunningID {
						t.Fatalf("tick %d: P%d running but RunningID is %d", tick, p.ID, s.RunningID)
					}
				case StatusWaiting:
					waiting++
				}
				if p.RemainingServiceTime < 0 || p.RemainingServiceTime > p.TotalServiceTime {
					t.Fatalf("tick %d: P%d remaining %d out of range", tick, p.ID, p.RemainingServiceTime)
				}
				if !p.HasArrived {
					if p.TotalWait != 0 || p.Started || p.ArrivalTime <= tick {
						t.Fatalf("tick %d: P%d not arrived but has state %v", tick, p.ID, p)
					}
					continue
				}
				if p.Started && p.StartTime < p.ArrivalTime {
					t.Fatalf("tick %d: P%d started at %d before arriving at %d", tick, p.ID, p.StartTime, p.ArrivalTime)
				}
				if p.Status == StatusDone {
					if p.FinishTime-p.ArrivalTime != p.TotalWait+p.TotalServiceTime {
						t.Fatalf("tick %d: P%d turnaround %d != wait %d + service %d",
							tick, p.ID, p.FinishTime-p.ArrivalTime, p.TotalWait, p.TotalServiceTime)
					}
					continue
				}
				if got := p.TotalWait + p.ServedTicks(); got != tick-p.ArrivalTime {
					t.Fatalf("tick %d: P%d wait+served = %d, want %d", tick, p.ID, got, tick-p.ArrivalTime)
				}
			}
			if running > 1 {
				t.Fatalf("tick %d: %d processes running", tick, running)
			}
			if running == 0 && s.RunningID != NoProcess {
				t.Fatalf("tick %d: RunningID %d but nothing running", tick, s.RunningID)
			}
			if running == 0 && waiting > 0 {
				t.Fatalf("tick %d: CPU idle with %d processes waiting", tick, waiting)
			}
		}
		r := s.Report()
		if r.Completed+r.Incomplete != len(specs) || r.Completed != s.CompletedCount() {
			t.Fatalf("report counts %d+%d inconsistent with %d processes", r.Completed, r.Incomplete, len(specs))
		}
	})
}
