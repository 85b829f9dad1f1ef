package entity

// Func is a compute workload template. Its DagID and GraphIndex are set
// exactly once, by setupAfterInsertIntoDag, and never change afterward.
type Func struct {
	ID   FnId
	DagID DagId

	// GraphIndex is the opaque handle for this function's position within
	// its owning FnDAG. It is set once, at insertion time.
	GraphIndex int

	CPU              float64 // compute units/second a request needs
	Mem              float64 // mean memory footprint while running, MB
	OutputSize       float64 // output payload size to downstream functions, MB
	ColdStartFrames  int
	ColdStartMemUse  float64
	ColdStartCPUUse  float64

	// Nodes is a derived index of which nodes currently host a container
	// for this function. It is maintained by Store.StartContainer and
	// Store.EvictContainer whenever a container is created or evicted —
	// never ground truth.
	Nodes map[NodeId]struct{}
}

func newFunc(id FnId, cpu, mem, outputSize float64, coldStartFrames int, coldStartMem, coldStartCPU float64) *Func {
	return &Func{
		ID:              id,
		CPU:             cpu,
		Mem:             mem,
		OutputSize:      outputSize,
		ColdStartFrames: coldStartFrames,
		ColdStartMemUse: coldStartMem,
		ColdStartCPUUse: coldStartCPU,
		Nodes:           make(map[NodeId]struct{}),
	}
}

// setupAfterInsertIntoDag stamps DagID/GraphIndex exactly once.
func (f *Func) setupAfterInsertIntoDag(dagID DagId, graphIndex int) {
	f.DagID = dagID
	f.GraphIndex = graphIndex
}

// ContainerMem is the steady-state per-container memory charge while Running.
func (f *Func) ContainerMem() float64 {
	return ContainerBasicMem
}
