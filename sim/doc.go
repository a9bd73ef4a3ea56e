// Package sim provides the discrete-time CPU scheduling simulation engine.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - process.go: Process lifecycle (not-arrived → waiting → running ⇄ waiting → done)
//   - policy.go: the SchedulingPolicy interface, the factory, and the non-preemptive policies
//   - simulator.go: the tick loop, the bookkeeping pass, and decision recording
//
// Every tick runs the bookkeeping pass first (arrivals, wait accounting, service
// consumption, completion) and then exactly one policy decision, so arrivals and
// completions are visible to the policy in the same tick.
//
// # Architecture
//
//   - sim/trace/: decision trace recording and Gantt segments (pure data)
//   - sim/workload/: seeded synthetic process generation
//   - sim/compare/: independent parallel runs of several policies on one input
//
// # Key Interfaces
//
//   - SchedulingPolicy: decide which process holds the CPU for the next tick
//
// Policies: fcfs, sjf (non-preemptive), srtf (preemptive SJF), priority
// (preemptive, lower value wins unless HigherFirst), round-robin (fixed quantum).
package sim
