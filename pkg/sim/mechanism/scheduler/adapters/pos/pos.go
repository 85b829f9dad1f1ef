// Package pos implements the scale_sche_joint scheduler: the only
// scheduler that may emit UpCmd/DownCmd of its own accord, per §4.5. It
// asks the mechanism's configured scale-number policy for each function's
// target fleet size, drives the scale-up/scale-down executors itself to
// reach that target, then places every ready function on the
// best-scoring host among the function's current containers.
package pos

import (
	"sort"

	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/command"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/entity"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism"
)

func init() {
	mechanism.RegisterScheduler("pos", func(attr string) mechanism.Scheduler { return Scheduler{} })
}

// Scheduler jointly sizes and schedules every function's fleet each frame.
type Scheduler struct{}

func (Scheduler) ScheduleSome(ctx *mechanism.DispatchContext) ([]command.UpCmd, []command.ScheCmd, []command.DownCmd) {
	store := ctx.Store

	var ups []command.UpCmd
	var downs []command.DownCmd
	for _, f := range store.Funcs() {
		target := ctx.ScaleNum.FnAvailableCount(store, f.ID)
		cur := len(f.Nodes)
		switch {
		case target > cur:
			ups = append(ups, ctx.ScaleUp.ExecScaleUp(store, f.ID, target)...)
		case target < cur:
			downs = append(downs, ctx.ScaleDown.ExecScaleDown(store, f.ID, cur-target)...)
		}
	}

	var sches []command.ScheCmd
	for _, req := range store.PendingRequests() {
		dag := store.DAG(req.DagID)
		for _, fn := range dag.Nodes() {
			if !mechanism.ReadyToSchedule(req, dag, fn) {
				continue
			}
			node := bestHost(store, fn)
			if node == entity.NodeId(-1) {
				continue // no container yet this frame; scale-up above will create one, scheduler re-issues next frame
			}
			sches = append(sches, command.ScheCmd{NodeID: node, ReqID: req.ID, FnID: fn})
		}
	}
	return ups, sches, downs
}

// bestHost scores every node already hosting fn by free CPU/memory and
// returns the best one, or -1 if fn has no host yet. Node ids are visited
// in ascending order so a score tie is always broken toward the lowest
// id, keeping placement deterministic across runs despite Go's randomized
// map iteration.
func bestHost(store *entity.Store, fn entity.FnId) entity.NodeId {
	hosts := store.Func(fn).Nodes
	nodeIDs := make([]entity.NodeId, 0, len(hosts))
	for nodeID := range hosts {
		nodeIDs = append(nodeIDs, nodeID)
	}
	sort.Ints(nodeIDs)

	best := entity.NodeId(-1)
	var bestScore float64
	first := true
	for _, nodeID := range nodeIDs {
		n := store.Node(nodeID)
		score := entity.NodeScoreCPUWeight*(1.0-n.CPU()/n.CPUCapacity) + entity.NodeScoreMemWeight*(1.0-n.Mem()/n.MemCapacity)
		if first || score > bestScore {
			best, bestScore, first = nodeID, score, false
		}
	}
	return best
}
