package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/inference-sim/schedsim/sim"
	"github.com/inference-sim/schedsim/sim/compare"
	"github.com/inference-sim/schedsim/sim/trace"
)

var (
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen, color.Bold)
	yellow = color.New(color.FgYellow)
)

func segmentLabel(id int) string {
	if id == trace.Idle {
		return "idle"
	}
	return fmt.Sprintf("P%d", id)
}

// renderTrace prints the CPU Gantt chart as a table, followed by the decision summary.
func renderTrace(w io.Writer, st *trace.SimulationTrace) error {
	if _, err := bold.Fprintln(w, "\nCPU timeline:"); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header("CPU", "Start", "End", "Ticks")
	for _, seg := range st.Segments() {
		if err := table.Append(segmentLabel(seg.ProcessID), fmt.Sprint(seg.Start), fmt.Sprint(seg.End), fmt.Sprint(seg.Len())); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	s := trace.Summarize(st)
	_, err := fmt.Fprintf(w, "Dispatches: %d  Preemptions: %d  Completions: %d  Idle ticks: %d  Utilization: %.1f%%\n",
		s.Dispatches, s.Preemptions, s.Completions, s.IdleTicks, s.Utilization*100)
	return err
}

func formatAverage(v *float64) string {
	if v == nil {
		return yellow.Sprint(sim.IncompleteMarker)
	}
	return fmt.Sprintf("%.2f", *v)
}

// renderComparison prints one row per policy, best rank first.
func renderComparison(w io.Writer, results []compare.Result) error {
	if _, err := bold.Fprintln(w, "Policy comparison"); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header("Rank", "Policy", "Avg Wait", "Avg Turnaround", "Avg Response", "Done", "Preemptions", "Utilization")
	for _, r := range compare.Ranked(results) {
		name := sim.PolicyTitle(r.Policy)
		if r.Rank == 1 {
			name = green.Sprint(name)
		}
		done := fmt.Sprintf("%d/%d", r.Report.Completed, len(r.Report.Processes))
		if r.Report.Incomplete > 0 {
			done = yellow.Sprint(done)
		}
		err := table.Append(
			fmt.Sprint(r.Rank),
			name,
			fmt.Sprintf("%.2f", r.Report.AvgWait),
			formatAverage(r.Report.AvgTurnaround),
			formatAverage(r.Report.AvgResponse),
			done,
			fmt.Sprint(r.Summary.Preemptions),
			fmt.Sprintf("%.1f%%", r.Summary.Utilization*100),
		)
		if err != nil {
			return err
		}
	}
	return table.Render()
}
