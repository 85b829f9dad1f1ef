// Package default_ implements the simulator's sole scale-down executor:
// it evicts the requested count of fn's containers, preferring the ones
// idle for the most recent frames (§4.6's eviction preference).
package default_

import (
	"sort"

	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/command"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/entity"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism"
)

func init() {
	mechanism.RegisterScaleDownExec("default", func(attr string) mechanism.ScaleDownExec { return Executor{} })
}

// Executor selects eviction targets among fn's Running, idle containers.
type Executor struct{}

// ExecScaleDown picks up to cnt of fn's idle containers, favoring those
// idle across the most recent frames, and emits one DownCmd each.
func (Executor) ExecScaleDown(store *entity.Store, fn entity.FnId, cnt int) []command.DownCmd {
	if cnt <= 0 {
		return nil
	}

	type scored struct {
		nodeID  entity.NodeId
		idleRun int
	}
	hosts := store.Func(fn).Nodes
	nodeIDs := make([]entity.NodeId, 0, len(hosts))
	for nodeID := range hosts {
		nodeIDs = append(nodeIDs, nodeID)
	}
	sort.Ints(nodeIDs)

	var idle []scored
	for _, nodeID := range nodeIDs {
		node := store.Node(nodeID)
		c, ok := node.Containers[fn]
		if !ok || !c.IsRunning() || !c.IsIdle() {
			continue
		}
		run := 0
		for run < 20 && c.RecentFrameIsIdle(run+1) {
			run++
		}
		idle = append(idle, scored{nodeID: nodeID, idleRun: run})
	}

	// Collected in ascending node-id order above, so a stable sort keyed
	// only on idleRun still breaks ties by lowest node id deterministically.
	sort.SliceStable(idle, func(i, j int) bool { return idle[i].idleRun > idle[j].idleRun })

	if cnt > len(idle) {
		cnt = len(idle)
	}
	cmds := make([]command.DownCmd, 0, cnt)
	for i := 0; i < cnt; i++ {
		cmds = append(cmds, command.DownCmd{NodeID: idle[i].nodeID, FnID: fn})
	}
	return cmds
}
