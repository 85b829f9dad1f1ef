// Package pass implements the simplest no_scale scheduler: every ready
// function goes to a uniformly random node, cold-starting a container
// there if none exists yet. Adapted from the pack's random load-balancing
// strategy, applied to container placement instead of request routing.
package pass

import (
	"math/rand"

	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/command"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism"
)

func init() {
	mechanism.RegisterScheduler("pass", func(attr string) mechanism.Scheduler { return Scheduler{} })
}

// Scheduler picks a uniformly random node for every ready function.
type Scheduler struct{}

func (Scheduler) ScheduleSome(ctx *mechanism.DispatchContext) ([]command.UpCmd, []command.ScheCmd, []command.DownCmd) {
	store := ctx.Store
	nodes := store.Nodes()
	if len(nodes) == 0 {
		return nil, nil, nil
	}

	var ups []command.UpCmd
	var sches []command.ScheCmd
	for _, req := range store.PendingRequests() {
		dag := store.DAG(req.DagID)
		for _, fn := range dag.Nodes() {
			if !mechanism.ReadyToSchedule(req, dag, fn) {
				continue
			}
			node := nodes[rand.Intn(len(nodes))]
			if _, hosts := store.Func(fn).Nodes[node.ID]; !hosts {
				ups = append(ups, command.UpCmd{NodeID: node.ID, FnID: fn})
			}
			sches = append(sches, command.ScheCmd{NodeID: node.ID, ReqID: req.ID, FnID: fn})
		}
	}
	return ups, sches, nil
}
