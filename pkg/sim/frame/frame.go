// Package frame advances the simulation by exactly one frame, applying the
// commands the mechanism dispatcher emitted for that frame in the fixed
// eight-step order the engine depends on for determinism.
package frame

import (
	"fmt"
	"math"

	apperrors "github.com/chris-alexander-pop/faas-sim-core/pkg/errors"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/command"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/entity"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/metrics"
)

// ColdStarted names one container that finished its cold start this frame.
type ColdStarted struct {
	NodeID entity.NodeId
	FnID   entity.FnId
}

// Result summarizes the effects of one frame.
type Result struct {
	ColdStarted       []ColdStarted
	DeferredSche      []command.ScheCmd
	CompletedRequests []entity.ReqId
	DownErrors        []error
}

// Runner advances a Store by one frame at a time.
type Runner struct {
	store    *entity.Store
	reporter metrics.Reporter
}

// New creates a Runner over store. Metrics events are discarded until
// WithReporter is called.
func New(store *entity.Store) *Runner {
	return &Runner{store: store, reporter: metrics.NoOp{}}
}

// WithReporter attaches the metrics collaborator every subsequent Run call
// notifies of cold starts, function completions, and request retirement.
func (r *Runner) WithReporter(reporter metrics.Reporter) *Runner {
	r.reporter = reporter
	return r
}

// Run advances the current frame in a fixed order: apply ups, age Starting
// containers, apply sches, advance transfers, advance compute, retire
// finished tasks, record telemetry, and apply downs last.
func (r *Runner) Run(ups []command.UpCmd, sches []command.ScheCmd, downs []command.DownCmd) Result {
	var res Result

	r.applyUps(ups)
	res.ColdStarted = r.ageStartingContainers()
	res.DeferredSche = r.applySches(sches)
	r.advanceDataTransfers()
	r.advanceCompute()
	res.CompletedRequests = r.retireCompletedTasks()
	r.recordTelemetry()
	res.DownErrors = r.applyDowns(downs)

	r.store.RecomputeNodeCharges()
	r.store.AdvanceFrame()
	return res
}

// applyUps creates a Starting container per command, skipping any command
// whose (node, fn) pair is already hosted.
func (r *Runner) applyUps(ups []command.UpCmd) {
	for _, cmd := range ups {
		node := r.store.Node(cmd.NodeID)
		if _, exists := node.Containers[cmd.FnID]; exists {
			continue
		}
		r.store.StartContainer(cmd.FnID, cmd.NodeID)
	}
}

// ageStartingContainers decrements every Starting container's remaining
// frame count, transitioning it to Running when it reaches zero.
func (r *Runner) ageStartingContainers() []ColdStarted {
	var started []ColdStarted
	for _, node := range r.store.Nodes() {
		for fnID, c := range node.Containers {
			if c.IsRunning() {
				continue
			}
			if c.StartingLeftFrameMoveOn() {
				c.MemUse = entity.ContainerBasicMem
				started = append(started, ColdStarted{NodeID: node.ID, FnID: fnID})
				r.reporter.OnFnInsColdStarted(c)
			}
		}
	}
	return started
}

// applySches binds each command's (reqid, fnid) to its node and starts a
// RunningTask, unless a parent's task has not yet finished computing, in
// which case the command is deferred back to the scheduler.
func (r *Runner) applySches(sches []command.ScheCmd) []command.ScheCmd {
	var deferred []command.ScheCmd
	for _, cmd := range sches {
		req := r.store.Request(cmd.ReqID)
		if req.IsScheduled(cmd.FnID) {
			continue
		}
		dag := r.store.DAG(req.DagID)
		fn := r.store.Func(cmd.FnID)

		if r.hasUnfinishedParent(req, dag, cmd.FnID) {
			deferred = append(deferred, cmd)
			continue
		}

		task := req.Schedule(cmd.FnID, cmd.NodeID, fn.CPU)
		for _, parent := range dag.Parents(cmd.FnID) {
			task.AddDependency(parent, r.store.Func(parent).OutputSize)
		}
		node := r.store.Node(cmd.NodeID)
		node.Containers[cmd.FnID].AddTask(cmd.ReqID, task)
	}
	return deferred
}

func (r *Runner) hasUnfinishedParent(req *entity.Request, dag *entity.FnDAG, fn entity.FnId) bool {
	for _, parent := range dag.Parents(fn) {
		if !req.IsFnComplete(parent) {
			return true
		}
	}
	return false
}

// advanceDataTransfers increases received bytes along every incoming
// channel of every active task. A parent that has already completed
// delivers its entire output in one frame — the minimal correct behavior
// absent a network model finer than one frame.
func (r *Runner) advanceDataTransfers() {
	for _, req := range r.store.Requests() {
		for _, task := range req.Tasks {
			for parent := range task.DataRecv {
				if req.IsFnComplete(parent) {
					task.AdvanceDataRecv(parent, task.DataRecvRemaining(parent))
				}
			}
		}
	}
}

// advanceCompute partitions each node's CPU capacity equally among its
// containers that have at least one ready task this frame, then partitions
// each container's share equally among its own ready tasks.
func (r *Runner) advanceCompute() {
	for _, node := range r.store.Nodes() {
		readyByContainer := make(map[entity.FnId][]*entity.RunningTask)
		for fnID, c := range node.Containers {
			if !c.IsRunning() {
				c.LastFrameCPUUsed = 0
				continue
			}
			var ready []*entity.RunningTask
			for _, task := range c.Tasks {
				if task.DataRecvDone() && !task.ComputeDone() {
					ready = append(ready, task)
				}
			}
			if len(ready) == 0 {
				c.LastFrameCPUUsed = 0
				continue
			}
			readyByContainer[fnID] = ready
		}
		if len(readyByContainer) == 0 {
			continue
		}

		perContainer := node.CPUCapacity / float64(len(readyByContainer))
		for fnID, tasks := range readyByContainer {
			c := node.Containers[fnID]
			perTask := perContainer / float64(len(tasks))

			var used float64
			for _, task := range tasks {
				spent := math.Min(perTask, task.LeftCalc)
				task.LeftCalc -= spent
				used += spent
			}
			c.LastFrameCPUUsed = used
			c.SetCPUUseRate(perContainer, used)
		}
	}
}

// retireCompletedTasks removes every compute-done task from its container,
// marks its function complete for the request, and marks the request done
// once its whole DAG has retired.
func (r *Runner) retireCompletedTasks() []entity.ReqId {
	var completedReqs []entity.ReqId
	for _, req := range r.store.Requests() {
		if req.IsDone() {
			continue
		}
		dag := r.store.DAG(req.DagID)
		for fnID, task := range req.Tasks {
			if !task.ComputeDone() {
				continue
			}
			node := r.store.Node(task.Node)
			c := node.Containers[fnID]
			c.RemoveTask(req.ID)
			c.FrameDoneCnt++
			req.RetireTask(fnID)
			r.reporter.OnFnCompleted(fnID, req.ID, r.store.Frame())
		}
		if req.AllComplete(dag) {
			req.MarkDone(r.store.Frame())
			completedReqs = append(completedReqs, req.ID)
			r.reporter.OnRequestRetired(req.ID, req.DagID, req.ArrivalFrame, r.store.Frame())
		}
	}
	return completedReqs
}

// recordTelemetry pushes this frame's done/working counts into every
// container's sliding windows and resets the done counter for next frame.
func (r *Runner) recordTelemetry() {
	for _, node := range r.store.Nodes() {
		for _, c := range node.Containers {
			c.ThisFrameUsed = len(c.Tasks) > 0
			c.RecordThisFrame(c.FrameDoneCnt, len(c.Tasks))
			c.FrameDoneCnt = 0
		}
	}
}

// applyDowns evicts the container named by each command, iff it is
// Running and idle. Any other target is reported back to the dispatcher
// as an error rather than applied.
func (r *Runner) applyDowns(downs []command.DownCmd) []error {
	var errs []error
	for _, cmd := range downs {
		node := r.store.Node(cmd.NodeID)
		c, ok := node.Containers[cmd.FnID]
		if !ok {
			errs = append(errs, errDownTarget(cmd, "no such container"))
			continue
		}
		if !c.IsRunning() || !c.IsIdle() {
			errs = append(errs, errDownTarget(cmd, "container is not running and idle"))
			continue
		}
		r.store.EvictContainer(cmd.FnID, cmd.NodeID)
	}
	return errs
}

func errDownTarget(cmd command.DownCmd, reason string) error {
	return apperrors.InvalidArgument(
		fmt.Sprintf("down command for node %d fn %d rejected: %s", cmd.NodeID, cmd.FnID, reason),
		nil,
	)
}
