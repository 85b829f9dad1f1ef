package entity

import "github.com/chris-alexander-pop/faas-sim-core/pkg/concurrency"

// Store owns every simulation entity behind a named reader/writer lock per
// collection. The frame runner completes one frame fully before starting
// the next, so these locks never see real contention. They guard the
// collection slices and the container/host registration done here, not the
// entities inside them: callers read and write Node.Containers, container
// tasks, and request state directly without taking them.
type Store struct {
	funcsMu concurrency.SmartRWMutex
	funcs   []*Func

	dagsMu concurrency.SmartRWMutex
	dags   []*FnDAG

	nodesMu concurrency.SmartRWMutex
	nodes   []*Node

	reqsMu concurrency.SmartRWMutex
	reqs   []*Request

	frame int
}

// NewStore creates an empty entity store with nodeCnt nodes, each with the
// given per-node CPU/mem capacity.
func NewStore(nodeCnt int, cpuCapacity, memCapacity float64) *Store {
	s := &Store{
		funcsMu: *concurrency.NewSmartRWMutex(concurrency.MutexConfig{Name: "entity.funcs"}),
		dagsMu:  *concurrency.NewSmartRWMutex(concurrency.MutexConfig{Name: "entity.dags"}),
		nodesMu: *concurrency.NewSmartRWMutex(concurrency.MutexConfig{Name: "entity.nodes"}),
		reqsMu:  *concurrency.NewSmartRWMutex(concurrency.MutexConfig{Name: "entity.requests"}),
	}
	for i := 0; i < nodeCnt; i++ {
		s.nodes = append(s.nodes, newNode(i, cpuCapacity, memCapacity))
	}
	return s
}

// Frame returns the index of the frame currently being processed.
func (s *Store) Frame() int { return s.frame }

// AdvanceFrame increments the frame counter, returning the new value.
func (s *Store) AdvanceFrame() int {
	s.frame++
	return s.frame
}

// NewFunc allocates a Func with a dense id and registers it.
func (s *Store) NewFunc(cpu, mem, outputSize float64, coldStartFrames int, coldStartMem, coldStartCPU float64) *Func {
	s.funcsMu.Lock()
	defer s.funcsMu.Unlock()
	f := newFunc(len(s.funcs), cpu, mem, outputSize, coldStartFrames, coldStartMem, coldStartCPU)
	s.funcs = append(s.funcs, f)
	return f
}

// Func looks up a function by id.
func (s *Store) Func(id FnId) *Func {
	s.funcsMu.RLock()
	defer s.funcsMu.RUnlock()
	return s.funcs[id]
}

// Funcs returns every registered function.
func (s *Store) Funcs() []*Func {
	s.funcsMu.RLock()
	defer s.funcsMu.RUnlock()
	out := make([]*Func, len(s.funcs))
	copy(out, s.funcs)
	return out
}

// NewDAG allocates an empty FnDAG rooted at begin and registers it; begin
// must already be an allocated Func id.
func (s *Store) NewDAG(begin FnId) *FnDAG {
	s.dagsMu.Lock()
	defer s.dagsMu.Unlock()
	d := newFnDAG(len(s.dags), begin)
	s.dags = append(s.dags, d)
	s.Func(begin).setupAfterInsertIntoDag(d.ID, 0)
	return d
}

// AddFnToDAG inserts fn as the graphIndex-th node of d and stamps fn's
// DagID/GraphIndex. Callers append nodes in the order they should receive
// as GraphIndex.
func (s *Store) AddFnToDAG(d *FnDAG, fn FnId) {
	s.dagsMu.Lock()
	d.addNode(fn)
	graphIndex := len(d.nodes) - 1
	s.dagsMu.Unlock()
	s.Func(fn).setupAfterInsertIntoDag(d.ID, graphIndex)
}

// AddDagEdge records a weighted dependency u->v within d.
func (s *Store) AddDagEdge(d *FnDAG, u, v FnId, weight float64) {
	s.dagsMu.Lock()
	defer s.dagsMu.Unlock()
	d.addEdge(u, v, weight)
}

// DAG looks up a FnDAG by id.
func (s *Store) DAG(id DagId) *FnDAG {
	s.dagsMu.RLock()
	defer s.dagsMu.RUnlock()
	return s.dags[id]
}

// DAGs returns every registered DAG.
func (s *Store) DAGs() []*FnDAG {
	s.dagsMu.RLock()
	defer s.dagsMu.RUnlock()
	out := make([]*FnDAG, len(s.dags))
	copy(out, s.dags)
	return out
}

// Node looks up a compute node by id.
func (s *Store) Node(id NodeId) *Node {
	s.nodesMu.RLock()
	defer s.nodesMu.RUnlock()
	return s.nodes[id]
}

// Nodes returns every compute node.
func (s *Store) Nodes() []*Node {
	s.nodesMu.RLock()
	defer s.nodesMu.RUnlock()
	out := make([]*Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// RecomputeNodeCharges recomputes every node's per-frame CPU/mem charge from
// its hosted containers. Called once per frame, after containers are
// aged/advanced and before scale-number policies read Node.CPU/Mem.
func (s *Store) RecomputeNodeCharges() {
	s.nodesMu.RLock()
	defer s.nodesMu.RUnlock()
	for _, n := range s.nodes {
		n.recomputeCharges()
	}
}

// StartContainer creates a Starting container for fn on node and registers
// it on both the node and the function's derived Nodes index.
func (s *Store) StartContainer(fn FnId, node NodeId) *FnContainer {
	f := s.Func(fn)
	s.nodesMu.Lock()
	c := newFnContainer(fn, node, s.frame, f.ColdStartFrames, f.ColdStartMemUse)
	s.nodes[node].Containers[fn] = c
	s.nodesMu.Unlock()

	s.funcsMu.Lock()
	f.Nodes[node] = struct{}{}
	s.funcsMu.Unlock()
	return c
}

// EvictContainer removes fn's container from node. The container must be
// Running and idle; evicting anything else is a programmer error, not a
// recoverable condition, mirroring the simulator's container lifecycle.
func (s *Store) EvictContainer(fn FnId, node NodeId) {
	s.nodesMu.Lock()
	n := s.nodes[node]
	c, ok := n.Containers[fn]
	if !ok {
		s.nodesMu.Unlock()
		panic("evict: no container for fn on node")
	}
	if !c.IsRunning() || !c.IsIdle() {
		s.nodesMu.Unlock()
		panic("evict: container is not running+idle")
	}
	delete(n.Containers, fn)
	s.nodesMu.Unlock()

	s.funcsMu.Lock()
	delete(s.Func(fn).Nodes, node)
	s.funcsMu.Unlock()
}

// NewRequest allocates a Request with a dense id and registers it.
func (s *Store) NewRequest(dagID DagId) *Request {
	s.reqsMu.Lock()
	defer s.reqsMu.Unlock()
	r := newRequest(len(s.reqs), dagID, s.frame)
	s.reqs = append(s.reqs, r)
	return r
}

// Request looks up a request by id.
func (s *Store) Request(id ReqId) *Request {
	s.reqsMu.RLock()
	defer s.reqsMu.RUnlock()
	return s.reqs[id]
}

// Requests returns every registered request.
func (s *Store) Requests() []*Request {
	s.reqsMu.RLock()
	defer s.reqsMu.RUnlock()
	out := make([]*Request, len(s.reqs))
	copy(out, s.reqs)
	return out
}

// PendingRequests returns every request that is not yet done, in id order.
func (s *Store) PendingRequests() []*Request {
	s.reqsMu.RLock()
	defer s.reqsMu.RUnlock()
	var out []*Request
	for _, r := range s.reqs {
		if !r.IsDone() {
			out = append(out, r)
		}
	}
	return out
}

// UnscheduledCountForFn counts pending requests whose DAG contains fn but
// that have not yet been scheduled on it — the signal scale-number
// policies use to force at least one container rather than scale to zero
// while work is waiting.
func (s *Store) UnscheduledCountForFn(fn FnId) int {
	count := 0
	for _, r := range s.PendingRequests() {
		d := s.DAG(r.DagID)
		if d.ContainsFn(fn) && !r.IsScheduled(fn) {
			count++
		}
	}
	return count
}
