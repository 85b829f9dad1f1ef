package mechanism

import "github.com/chris-alexander-pop/faas-sim-core/pkg/sim/entity"

// ReadyToSchedule reports whether fn, within req, has every DAG parent
// already retired and is not itself scheduled yet — the condition every
// scheduler adapter must check before emitting a ScheCmd.
func ReadyToSchedule(req *entity.Request, dag *entity.FnDAG, fn entity.FnId) bool {
	if req.IsScheduled(fn) {
		return false
	}
	for _, parent := range dag.Parents(fn) {
		if !req.IsFnComplete(parent) {
			return false
		}
	}
	return true
}
