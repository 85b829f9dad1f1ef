// Package faasflow implements a no_scale-compatible scheduler that spreads
// work across whichever eligible node currently carries the fewest active
// tasks, preferring a node that already hosts the function to avoid an
// avoidable cold start. Adapted from the pack's least-connections
// load-balancing strategy, applied to container placement instead of
// request routing.
package faasflow

import (
	"sort"

	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/command"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/entity"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism"
)

func init() {
	mechanism.RegisterScheduler("faasflow", func(attr string) mechanism.Scheduler { return Scheduler{} })
}

// Scheduler picks, for every ready function, the least-loaded node among
// those already hosting it, falling back to the least-loaded node overall
// (and cold-starting there) when none do yet.
type Scheduler struct{}

func (Scheduler) ScheduleSome(ctx *mechanism.DispatchContext) ([]command.UpCmd, []command.ScheCmd, []command.DownCmd) {
	store := ctx.Store
	allNodes := store.Nodes()
	if len(allNodes) == 0 {
		return nil, nil, nil
	}
	sort.Slice(allNodes, func(i, j int) bool {
		if allNodes[i].ActiveTaskCount() != allNodes[j].ActiveTaskCount() {
			return allNodes[i].ActiveTaskCount() < allNodes[j].ActiveTaskCount()
		}
		return allNodes[i].ID < allNodes[j].ID
	})

	var ups []command.UpCmd
	var sches []command.ScheCmd
	for _, req := range store.PendingRequests() {
		dag := store.DAG(req.DagID)
		for _, fn := range dag.Nodes() {
			if !mechanism.ReadyToSchedule(req, dag, fn) {
				continue
			}
			node := pickNode(store, allNodes, fn)
			if _, hosts := store.Func(fn).Nodes[node.ID]; !hosts {
				ups = append(ups, command.UpCmd{NodeID: node.ID, FnID: fn})
			}
			sches = append(sches, command.ScheCmd{NodeID: node.ID, ReqID: req.ID, FnID: fn})
		}
	}
	return ups, sches, nil
}

// pickNode returns the least-loaded node already hosting fn, or — if none
// do — the least-loaded node overall. allNodes is pre-sorted ascending by
// active task count.
func pickNode(store *entity.Store, allNodes []*entity.Node, fn entity.FnId) *entity.Node {
	hosts := store.Func(fn).Nodes
	for _, n := range allNodes {
		if _, ok := hosts[n.ID]; ok {
			return n
		}
	}
	return allNodes[0]
}
