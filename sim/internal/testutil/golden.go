// Package testutil provides shared test infrastructure for the scheduling simulator.
// It holds the golden dataset types and assertion helpers used across sim/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenProcess is one input record of a golden test case.
type GoldenProcess struct {
	Arrival  int64 `json:"arrival"`
	Service  int64 `json:"service"`
	Priority int   `json:"priority"`
}

// GoldenTestCase represents a single test case from the golden dataset.
type GoldenTestCase struct {
	Name          string          `json:"name"`
	Policy        string          `json:"policy"`
	Horizon       int64           `json:"horizon"`
	Quantum       int64           `json:"quantum"`
	PriorityOrder string          `json:"priority_order"`
	Processes     []GoldenProcess `json:"processes"`
	Expected      GoldenMetrics   `json:"expected"`
}

// GoldenProcessMetrics is the expected outcome for one process. Nil pointers
// mark values the process never reached before the horizon.
type GoldenProcessMetrics struct {
	ID         int    `json:"id"`
	Wait       int64  `json:"wait"`
	Start      *int64 `json:"start"`
	Finish     *int64 `json:"finish"`
	Turnaround *int64 `json:"turnaround"`
	Response   *int64 `json:"response"`
}

// GoldenMetrics represents the expected metrics from a golden test case.
type GoldenMetrics struct {
	Processes []GoldenProcessMetrics `json:"processes"`

	// Rounded to 6 decimals; compare with AssertFloat64Equal
	AverageWait       float64  `json:"average_wait"`
	AverageTurnaround *float64 `json:"average_turnaround"`
	AverageResponse   *float64 `json:"average_response"`

	Completed int `json:"completed"`
	// Occupancy[t] is the process on the CPU after the decision at tick t, -1 when idle
	Occupancy []int `json:"occupancy"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
