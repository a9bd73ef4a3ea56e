package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProcesses_AssignsIDsInOrder(t *testing.T) {
	procs := NewProcesses([]ProcessSpec{
		{ArrivalTime: 3, ServiceTime: 2, Priority: 1},
		{ArrivalTime: 0, ServiceTime: 5, Priority: 4},
	})
	for i, p := range procs {
		assert.Equal(t, i, p.ID)
		assert.Equal(t, StatusNotArrived, p.Status)
		assert.Equal(t, p.TotalServiceTime, p.RemainingServiceTime)
		assert.False(t, p.Started)
	}
	assert.Equal(t, 4, procs[1].Priority)
}

func TestProcess_DispatchSetsStartOnce(t *testing.T) {
	p := NewProcess(0, ProcessSpec{ArrivalTime: 0, ServiceTime: 3})
	p.dispatch(2)
	p.Status = StatusWaiting
	p.dispatch(7)
	assert.Equal(t, StatusRunning, p.Status)
	assert.Equal(t, int64(2), p.StartTime)
}

func TestProcess_CloneIsIndependent(t *testing.T) {
	p := NewProcess(1, ProcessSpec{ArrivalTime: 0, ServiceTime: 3})
	c := p.Clone()
	c.RemainingServiceTime = 0
	assert.Equal(t, int64(3), p.RemainingServiceTime)
}

func TestProcess_String(t *testing.T) {
	p := NewProcess(2, ProcessSpec{ArrivalTime: 1, ServiceTime: 4, Priority: 3})
	assert.Equal(t, "P[ 2]: arvl: 1 arvd:N st: - ts: 4 rs: 4 tw: 0 stat:not-arrived pr:3 fin: -", p.String())
}

func TestProcessSpec_Validate(t *testing.T) {
	assert.NoError(t, ProcessSpec{ArrivalTime: 0, ServiceTime: 1}.Validate())
	assert.ErrorIs(t, ProcessSpec{ArrivalTime: 0, ServiceTime: 0}.Validate(), ErrInvalidConfig)
	assert.ErrorIs(t, ProcessSpec{ArrivalTime: -1, ServiceTime: 1}.Validate(), ErrInvalidConfig)
}
