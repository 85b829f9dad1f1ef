package entity

// dataChannel tracks the data transfer feeding one upstream dependency into
// a RunningTask: Needed is fixed at task creation (the upstream edge's
// weight), Received grows monotonically as the frame runner advances
// transfers.
type dataChannel struct {
	Needed   float64
	Received float64
}

// done reports whether this channel has delivered its full payload, within
// floating-point tolerance.
func (d *dataChannel) done() bool {
	return d.Needed-d.Received < dataRecvEpsilon
}

// RunningTask is one function's execution within one Request: it first
// waits for all upstream data transfers to complete, then consumes CPU
// until LeftCalc reaches zero.
type RunningTask struct {
	Fn   FnId
	Node NodeId

	DataRecv map[FnId]*dataChannel
	LeftCalc float64
}

func newRunningTask(fn FnId, node NodeId, cpuCost float64) *RunningTask {
	return &RunningTask{
		Fn:       fn,
		Node:     node,
		DataRecv: make(map[FnId]*dataChannel),
		LeftCalc: cpuCost,
	}
}

// AddDependency registers one upstream function this task must wait on,
// expecting dataSize MB of transfer from it. Called by the frame runner
// when a ScheCmd is applied, once per parent in the DAG.
func (t *RunningTask) AddDependency(parent FnId, dataSize float64) {
	t.DataRecv[parent] = &dataChannel{Needed: dataSize}
}

// AdvanceDataRecv advances the transfer from parent by amount, capped at
// Needed. No-op if parent was never registered as a dependency.
func (t *RunningTask) AdvanceDataRecv(parent FnId, amount float64) {
	ch, ok := t.DataRecv[parent]
	if !ok {
		return
	}
	ch.Received += amount
	if ch.Received > ch.Needed {
		ch.Received = ch.Needed
	}
}

// DataRecvRemaining is the outstanding transfer amount from parent. Returns
// 0 if parent was never registered as a dependency.
func (t *RunningTask) DataRecvRemaining(parent FnId) float64 {
	ch, ok := t.DataRecv[parent]
	if !ok {
		return 0
	}
	remaining := ch.Needed - ch.Received
	if remaining < 0 {
		return 0
	}
	return remaining
}

// DataRecvDone reports whether every upstream dependency has fully arrived.
// A task with no dependencies (the DAG's begin function) is vacuously done.
func (t *RunningTask) DataRecvDone() bool {
	for _, ch := range t.DataRecv {
		if !ch.done() {
			return false
		}
	}
	return true
}

// ComputeDone reports whether this task has exhausted its CPU cost.
func (t *RunningTask) ComputeDone() bool {
	return t.LeftCalc < dataRecvEpsilon
}

// Request is one invocation of a FnDAG: a placement decision per function
// (once scheduled) and a RunningTask tracking each function's progress.
type Request struct {
	ID            ReqId
	DagID         DagId
	ArrivalFrame  int

	// Placement records, for each function the scheduler has assigned, the
	// node it was placed on. A function absent from this map is still
	// unscheduled.
	Placement map[FnId]NodeId
	Tasks     map[FnId]*RunningTask

	// Completed is the set of functions that have retired (compute-done
	// and removed from Tasks) for this request.
	Completed map[FnId]struct{}

	doneFrame int
	done      bool
}

func newRequest(id ReqId, dagID DagId, arrivalFrame int) *Request {
	return &Request{
		ID:           id,
		DagID:        dagID,
		ArrivalFrame: arrivalFrame,
		Placement:    make(map[FnId]NodeId),
		Tasks:        make(map[FnId]*RunningTask),
		Completed:    make(map[FnId]struct{}),
	}
}

// IsScheduled reports whether fn has already been assigned a node.
func (r *Request) IsScheduled(fn FnId) bool {
	_, ok := r.Placement[fn]
	return ok
}

// Schedule records fn's placement and starts its RunningTask.
func (r *Request) Schedule(fn FnId, node NodeId, cpuCost float64) *RunningTask {
	r.Placement[fn] = node
	task := newRunningTask(fn, node, cpuCost)
	r.Tasks[fn] = task
	return task
}

// RetireTask removes fn's finished task and marks it complete.
func (r *Request) RetireTask(fn FnId) {
	delete(r.Tasks, fn)
	r.Completed[fn] = struct{}{}
}

// IsFnComplete reports whether fn has retired for this request.
func (r *Request) IsFnComplete(fn FnId) bool {
	_, ok := r.Completed[fn]
	return ok
}

// AllComplete reports whether every function in d has retired for this
// request.
func (r *Request) AllComplete(d *FnDAG) bool {
	for _, fn := range d.nodes {
		if _, ok := r.Completed[fn]; !ok {
			return false
		}
	}
	return true
}

// IsDone reports whether every function in the request's DAG has finished.
func (r *Request) IsDone() bool { return r.done }

// MarkDone finalizes the request at the given frame. Idempotent.
func (r *Request) MarkDone(frame int) {
	if r.done {
		return
	}
	r.done = true
	r.doneFrame = frame
}

// DoneFrame is the frame MarkDone was called at; meaningless if !IsDone.
func (r *Request) DoneFrame() int { return r.doneFrame }
