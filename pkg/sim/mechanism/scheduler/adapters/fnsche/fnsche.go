// Package fnsche implements a no_scale-compatible scheduler that scores
// every eligible node by a weighted blend of free CPU and free memory
// (entity.NodeScoreCPUWeight / entity.NodeScoreMemWeight) and places each
// ready function on the highest-scoring one, excluding nodes whose free
// memory has fallen under entity.NodeLeftMemThreshold unless every node has.
package fnsche

import (
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/command"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/entity"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism"
)

func init() {
	mechanism.RegisterScheduler("fnsche", func(attr string) mechanism.Scheduler { return Scheduler{} })
}

// Scheduler places each ready function on the node with the best
// CPU/memory score among those with enough free memory left.
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
			node := bestNode(nodes)
			if node == nil {
				continue
			}
			if _, hosts := store.Func(fn).Nodes[node.ID]; !hosts {
				ups = append(ups, command.UpCmd{NodeID: node.ID, FnID: fn})
			}
			sches = append(sches, command.ScheCmd{NodeID: node.ID, ReqID: req.ID, FnID: fn})
		}
	}
	return ups, sches, nil
}

// bestNode returns the node with the highest weighted CPU/mem score among
// those with free memory at or above entity.NodeLeftMemThreshold, or the
// single best-scoring node overall if every node is below threshold.
func bestNode(nodes []*entity.Node) *entity.Node {
	var best, bestEligible *entity.Node
	var bestScore, bestEligibleScore float64
	for i, n := range nodes {
		score := score(n)
		if i == 0 || score > bestScore {
			best, bestScore = n, score
		}
		if n.FreeMem() >= entity.NodeLeftMemThreshold && (bestEligible == nil || score > bestEligibleScore) {
			bestEligible, bestEligibleScore = n, score
		}
	}
	if bestEligible != nil {
		return bestEligible
	}
	return best
}

func score(n *entity.Node) float64 {
	freeCPUFrac := 1.0 - n.CPU()/n.CPUCapacity
	freeMemFrac := 1.0 - n.Mem()/n.MemCapacity
	return entity.NodeScoreCPUWeight*freeCPUFrac + entity.NodeScoreMemWeight*freeMemFrac
}
