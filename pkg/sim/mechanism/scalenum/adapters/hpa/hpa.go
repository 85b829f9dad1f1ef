// Package hpa implements the HPA-style scale-number policy.
//
// Its target field is named for CPU use-rate but the computation below
// uses memory use-rate instead. This is preserved verbatim from the
// original: reimplementers should not "fix" it, per the design notes'
// open question — tests depend on the behavior as written.
package hpa

import (
	"math"

	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/entity"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism"
)

func init() {
	mechanism.RegisterScaleNum("hpa", func(attr string) mechanism.ScaleNum { return New() })
}

const targetTolerance = 0.1

// downscalePatience is how many consecutive evaluations the desired count
// must stay below the current count before the careful filter allows the
// container count to actually shrink.
const downscalePatience = 3

// Policy targets a fixed memory-use ratio per container, forcing at least
// one container whenever unscheduled work is waiting, then passes the
// result through a careful filter that resists shrinking on a single
// noisy reading.
type Policy struct {
	// targetCPUUseRate is named for CPU but is compared against memory
	// use-rate — see the package doc.
	targetCPUUseRate float64
	counts           map[entity.FnId]int
	belowStreak      map[entity.FnId]int
}

// New creates an HPA policy targeting a 0.5 memory-use ratio.
func New() *Policy {
	return &Policy{
		targetCPUUseRate: 0.5,
		counts:           make(map[entity.FnId]int),
		belowStreak:      make(map[entity.FnId]int),
	}
}

func (p *Policy) FnAvailableCount(store *entity.Store, fn entity.FnId) int {
	return p.counts[fn]
}

func (p *Policy) ScaleForFn(store *entity.Store, fn entity.FnId) {
	f := store.Func(fn)
	containerCnt := len(f.Nodes)

	var desired int
	if containerCnt != 0 {
		var avgMemUseRate float64
		for nodeID := range f.Nodes {
			node := store.Node(nodeID)
			avgMemUseRate += node.Mem() / node.MemCapacity
		}
		avgMemUseRate /= float64(containerCnt)

		ratio := avgMemUseRate / p.targetCPUUseRate
		if withinTolerance(ratio) {
			p.counts[fn] = containerCnt
			return
		}
		desired = int(math.Ceil(avgMemUseRate / p.targetCPUUseRate))
	}

	if store.UnscheduledCountForFn(fn) > 0 && desired < 1 {
		desired = 1
	}

	p.counts[fn] = p.carefulFilter(fn, desired, containerCnt)
}

// withinTolerance reports whether ratio falls within the symmetric
// +/-targetTolerance band around 1.0, inclusive at both ends. The small
// slack keeps an edge reading such as 0.55/0.5, which rounds to
// 1.1000000000000001, inside the band.
func withinTolerance(ratio float64) bool {
	return math.Abs(ratio-1.0) <= targetTolerance+1e-9
}

// carefulFilter resists rapid shrink: the desired count must stay below
// the current count for downscalePatience consecutive evaluations before
// a decrease is actually allowed through. Any reading at or above current
// resets the streak.
func (p *Policy) carefulFilter(fn entity.FnId, desired, current int) int {
	if desired >= current {
		p.belowStreak[fn] = 0
		return desired
	}
	p.belowStreak[fn]++
	if p.belowStreak[fn] >= downscalePatience {
		p.belowStreak[fn] = 0
		return desired
	}
	return current
}
