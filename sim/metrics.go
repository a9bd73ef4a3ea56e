// Computes per-process and aggregate scheduling metrics from a finished run:
// wait, turnaround and response time.

package sim

import (
	"encoding/json"
	"fmt"
	"io"
)

// ProcessMetrics holds the reported values of one process.
// Turnaround, Response, StartTime and FinishTime are nil when the process never
// reached the corresponding point before the horizon.
type ProcessMetrics struct {
	ID          int           `json:"id"`
	ArrivalTime int64         `json:"arrival"`
	ServiceTime int64         `json:"total_service"`
	Priority    int           `json:"priority"`
	Status      ProcessStatus `json:"status"`
	Wait        int64         `json:"total_wait"`
	StartTime   *int64        `json:"start"`
	FinishTime  *int64        `json:"finish"`
	Turnaround  *int64        `json:"turnaround"`
	Response    *int64        `json:"response"`
}

// Report aggregates statistics about a run for final reporting.
// Averages are arithmetic means across all processes; AvgTurnaround and
// AvgResponse are nil when any process lacks the underlying value.
type Report struct {
	Policy        string           `json:"policy"`
	Horizon       int64            `json:"horizon"`
	Processes     []ProcessMetrics `json:"processes"`
	AvgWait       float64          `json:"average_wait"`
	AvgTurnaround *float64         `json:"average_turnaround"`
	AvgResponse   *float64         `json:"average_response"`
	Completed     int              `json:"completed"`
	Incomplete    int              `json:"incomplete"`
}

// NewReport computes the metrics of every process in procs.
func NewReport(procs []*Process, policy string, horizon int64) *Report {
	r := &Report{
		Policy:    policy,
		Horizon:   horizon,
		Processes: make([]ProcessMetrics, 0, len(procs)),
	}
	var totalWait, totalTurnaround, totalResponse int64
	turnaroundKnown, responseKnown := len(procs) > 0, len(procs) > 0

	for _, p := range procs {
		m := ProcessMetrics{
			ID:          p.ID,
			ArrivalTime: p.ArrivalTime,
			ServiceTime: p.TotalServiceTime,
			Priority:    p.Priority,
			Status:      p.Status,
			Wait:        p.TotalWait,
		}
		totalWait += p.TotalWait
		if p.Started {
			m.StartTime = int64Ptr(p.StartTime)
			m.Response = int64Ptr(p.StartTime - p.ArrivalTime)
			totalResponse += *m.Response
		} else {
			responseKnown = false
		}
		if p.Finished {
			m.FinishTime = int64Ptr(p.FinishTime)
			m.Turnaround = int64Ptr(p.FinishTime - p.ArrivalTime)
			totalTurnaround += *m.Turnaround
			r.Completed++
		} else {
			turnaroundKnown = false
			r.Incomplete++
		}
		r.Processes = append(r.Processes, m)
	}

	if n := float64(len(procs)); n > 0 {
		r.AvgWait = float64(totalWait) / n
		if turnaroundKnown {
			r.AvgTurnaround = float64Ptr(float64(totalTurnaround) / n)
		}
		if responseKnown {
			r.AvgResponse = float64Ptr(float64(totalResponse) / n)
		}
	}
	return r
}

// IncompleteMarker is printed in place of values a process never reached.
const IncompleteMarker = "incomplete"

func formatOptionalInt(v *int64) string {
	if v == nil {
		return IncompleteMarker
	}
	return fmt.Sprint(*v)
}

func formatOptionalFloat(v *float64) string {
	if v == nil {
		return IncompleteMarker
	}
	return fmt.Sprintf("%6.2f", *v)
}

// Print writes the report in the classic text layout: one line per process,
// then the three averages.
func (r *Report) Print(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Using %s:\n", PolicyTitle(r.Policy)); err != nil {
		return err
	}
	for _, m := range r.Processes {
		_, err := fmt.Fprintf(w, "P[%2d]:  Total Service: %-3d Total Wait: %-3d Turnaround: %-3s Response: %-3s\n",
			m.ID, m.ServiceTime, m.Wait, formatOptionalInt(m.Turnaround), formatOptionalInt(m.Response))
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "==========================\n"+
		"Average Wait:       %6.2f\n"+
		"Average Turnaround: %s\n"+
		"Average Response:   %s\n",
		r.AvgWait, formatOptionalFloat(r.AvgTurnaround), formatOptionalFloat(r.AvgResponse))
	return err
}

// WriteJSON writes the report as indented JSON; unset values are null.
func (r *Report) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func int64Ptr(v int64) *int64       { return &v }
func float64Ptr(v float64) *float64 { return &v }
