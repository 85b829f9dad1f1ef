// Package lass implements a load-aware scale-number policy: instead of a
// fixed resource-ratio target (hpa), it sizes the fleet to the backlog of
// unscheduled requests divided by each container's recent throughput.
package lass

import (
	"math"

	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/entity"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism"
)

func init() {
	mechanism.RegisterScaleNum("lass", func(attr string) mechanism.ScaleNum { return New() })
}

// minThroughput floors the per-container throughput estimate so a cold
// fleet (no done-count history yet) doesn't divide by zero.
const minThroughput = 0.1

// Policy sizes fn's fleet so its unscheduled backlog could drain within one
// frame, given each container's observed per-frame handling speed.
type Policy struct {
	counts map[entity.FnId]int
}

// New creates a LASS policy.
func New() *Policy {
	return &Policy{counts: make(map[entity.FnId]int)}
}

func (p *Policy) FnAvailableCount(store *entity.Store, fn entity.FnId) int {
	return p.counts[fn]
}

func (p *Policy) ScaleForFn(store *entity.Store, fn entity.FnId) {
	f := store.Func(fn)
	backlog := store.UnscheduledCountForFn(fn)

	containerCnt := len(f.Nodes)
	if backlog == 0 {
		p.counts[fn] = containerCnt
		return
	}

	var totalThroughput float64
	for nodeID := range f.Nodes {
		c := store.Node(nodeID).Containers[fn]
		totalThroughput += math.Max(c.RecentHandleSpeed(), minThroughput)
	}
	if containerCnt == 0 {
		totalThroughput = minThroughput
	}

	perContainer := totalThroughput / math.Max(float64(containerCnt), 1)
	desired := int(math.Ceil(float64(backlog) / math.Max(perContainer, minThroughput)))
	if desired < 1 {
		desired = 1
	}
	p.counts[fn] = desired
}
