package entity

// Node is a physical compute host.
type Node struct {
	ID NodeId

	CPUCapacity float64
	MemCapacity float64

	// lastFrameCPU/lastFrameMem are the charges recorded during the most
	// recently completed frame, used by scoring and scaling policies.
	lastFrameCPU float64
	lastFrameMem float64

	Containers map[FnId]*FnContainer
}

func newNode(id NodeId, cpuCapacity, memCapacity float64) *Node {
	return &Node{
		ID:          id,
		CPUCapacity: cpuCapacity,
		MemCapacity: memCapacity,
		Containers:  make(map[FnId]*FnContainer),
	}
}

// CPU returns the CPU charge recorded for the last completed frame.
func (n *Node) CPU() float64 { return n.lastFrameCPU }

// Mem returns the memory charge recorded for the last completed frame.
func (n *Node) Mem() float64 { return n.lastFrameMem }

// recomputeCharges sums every hosted container's current charge. Called by
// the frame runner once per frame, after containers have been aged/advanced.
func (n *Node) recomputeCharges() {
	var cpu, mem float64
	for _, c := range n.Containers {
		cpu += c.LastFrameCPUUsed
		mem += c.MemUse
	}
	n.lastFrameCPU = cpu
	n.lastFrameMem = mem
}

// ActiveTaskCount is the number of in-flight (request, function) tasks across
// every container hosted on this node — used by least-task scale-up scoring.
func (n *Node) ActiveTaskCount() int {
	count := 0
	for _, c := range n.Containers {
		count += len(c.Tasks)
	}
	return count
}

// FreeMem is the memory capacity left after charging every hosted container.
func (n *Node) FreeMem() float64 {
	return n.MemCapacity - n.lastFrameMem
}
