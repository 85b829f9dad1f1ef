// Package leasttask implements a scale-up executor that places new
// containers on the nodes currently carrying the fewest active tasks,
// adapting the pack's least-connections load-balancing strategy to
// container placement instead of request routing.
package leasttask

import (
	"sort"

	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/command"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/entity"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism"
)

func init() {
	mechanism.RegisterScaleUpExec("least_task", func(attr string) mechanism.ScaleUpExec { return Executor{} })
}

// Executor places each new container on the node, among those not already
// hosting fn, with the fewest active tasks.
type Executor struct{}

// ExecScaleUp emits enough UpCmds to raise fn's container count to
// targetCnt, each targeting the least-loaded eligible node.
func (Executor) ExecScaleUp(store *entity.Store, fn entity.FnId, targetCnt int) []command.UpCmd {
	f := store.Func(fn)
	need := targetCnt - len(f.Nodes)
	if need <= 0 {
		return nil
	}

	var candidates []*entity.Node
	for _, n := range store.Nodes() {
		if _, hosts := f.Nodes[n.ID]; hosts {
			continue
		}
		candidates = append(candidates, n)
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.ActiveTaskCount() == b.ActiveTaskCount() {
			return a.ID < b.ID
		}
		return a.ActiveTaskCount() < b.ActiveTaskCount()
	})

	if need > len(candidates) {
		need = len(candidates)
	}

	cmds := make([]command.UpCmd, 0, need)
	for i := 0; i < need; i++ {
		cmds = append(cmds, command.UpCmd{NodeID: candidates[i].ID, FnID: fn})
	}
	return cmds
}
