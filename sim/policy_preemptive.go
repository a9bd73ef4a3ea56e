package sim

// SRTFPolicy is preemptive Shortest Job First: every tick the eligible process
// with the least remaining service time holds the CPU.
// Re-evaluating every tick is idempotent; re-selecting the running process changes nothing.
type SRTFPolicy struct{}

func (s *SRTFPolicy) Name() string { return PolicySRTF }

func (s *SRTFPolicy) Schedule(procs []*Process, running int, clock int64) int {
	next := selectMin(procs, (*Process).Eligible, func(p *Process) int64 { return p.RemainingServiceTime })
	return switchTo(procs, running, next, clock)
}

// PriorityPolicy is preemptive priority scheduling. With LowerFirst the smallest
// numeric priority wins the CPU; HigherFirst inverts the comparison for workloads
// written with the opposite convention. Equal priorities go to the lowest ID.
type PriorityPolicy struct {
	Order PriorityOrder
}

func (pp *PriorityPolicy) Name() string { return PolicyPriority }

func (pp *PriorityPolicy) Schedule(procs []*Process, running int, clock int64) int {
	next := selectMin(procs, (*Process).Eligible, pp.rank)
	return switchTo(procs, running, next, clock)
}

// rank maps a priority to a key where smaller always wins.
func (pp *PriorityPolicy) rank(p *Process) int64 {
	if pp.Order == HigherFirst {
		return -int64(p.Priority)
	}
	return int64(p.Priority)
}
