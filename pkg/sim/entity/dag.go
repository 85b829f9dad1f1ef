package entity

// edge records one outgoing or incoming dependency: the neighbor function
// id and the data volume (MB) carried across it, fixed at construction.
type edge struct {
	fn     FnId
	weight float64
}

// FnDAG is a directed acyclic graph of functions. Edge weights are fixed at
// construction time to the upstream function's OutputSize and never change.
type FnDAG struct {
	ID      DagId
	BeginFn FnId

	// nodes preserves insertion order, used as the stable tie-break for
	// map-reduce middle-node iteration and topological traversal.
	nodes    []FnId
	children map[FnId][]edge
	parents  map[FnId][]edge
}

func newFnDAG(id DagId, begin FnId) *FnDAG {
	return &FnDAG{
		ID:       id,
		BeginFn:  begin,
		nodes:    []FnId{begin},
		children: make(map[FnId][]edge),
		parents:  make(map[FnId][]edge),
	}
}

func (d *FnDAG) addNode(fn FnId) {
	d.nodes = append(d.nodes, fn)
}

// addEdge records a dependency u->v weighted by the upstream's output size.
func (d *FnDAG) addEdge(u, v FnId, weight float64) {
	d.children[u] = append(d.children[u], edge{fn: v, weight: weight})
	d.parents[v] = append(d.parents[v], edge{fn: u, weight: weight})
}

// Nodes returns every function id in this DAG, in insertion order.
func (d *FnDAG) Nodes() []FnId {
	out := make([]FnId, len(d.nodes))
	copy(out, d.nodes)
	return out
}

// Children returns fn's direct dependents.
func (d *FnDAG) Children(fn FnId) []FnId {
	edges := d.children[fn]
	out := make([]FnId, len(edges))
	for i, e := range edges {
		out[i] = e.fn
	}
	return out
}

// Parents returns fn's direct dependencies.
func (d *FnDAG) Parents(fn FnId) []FnId {
	edges := d.parents[fn]
	out := make([]FnId, len(edges))
	for i, e := range edges {
		out[i] = e.fn
	}
	return out
}

// ContainsFn reports whether fn belongs to this DAG.
func (d *FnDAG) ContainsFn(fn FnId) bool {
	for _, n := range d.nodes {
		if n == fn {
			return true
		}
	}
	return false
}
