package entity

// FnContainer is one running or starting instance of a function on a node.
//
// State machine: Starting{left} -> Starting{left-1} each frame while
// left > 1; Starting{1} -> Running on the next tick. Running is terminal
// except for eviction, which removes the container from its Node's map
// entirely — there is no stored "evicted" state. A container never reverts
// from Running back to Starting.
type FnContainer struct {
	NodeID NodeId
	FnID   FnId

	Tasks map[ReqId]*RunningTask

	BornFrame     int
	UsedTimes     int
	ThisFrameUsed bool

	doneWindow    []int
	workingWindow []int

	cpuUseRate       float64
	LastFrameCPUUsed float64

	MemUse       float64
	LastFrameMem float64

	// FrameDoneCnt is the number of tasks this container retired during the
	// frame currently in progress. The frame runner increments it as tasks
	// retire and drains it into the done-count window each frame.
	FrameDoneCnt int

	starting     bool
	startingLeft int
}

// newFnContainer creates a container in Starting state for coldStartFrames
// frames, charged the function's cold-start memory overhead immediately.
func newFnContainer(fnID FnId, nodeID NodeId, bornFrame int, coldStartFrames int, coldStartMemUse float64) *FnContainer {
	return &FnContainer{
		NodeID:       nodeID,
		FnID:         fnID,
		Tasks:        make(map[ReqId]*RunningTask),
		BornFrame:    bornFrame,
		starting:     true,
		startingLeft: coldStartFrames,
		MemUse:       coldStartMemUse,
	}
}

// IsRunning reports whether the container has completed its cold start.
func (c *FnContainer) IsRunning() bool { return !c.starting }

// IsIdle holds iff the container is Running and hosts no active tasks.
func (c *FnContainer) IsIdle() bool {
	return !c.starting && len(c.Tasks) == 0
}

// AddTask binds a request's RunningTask to this container, tracking it
// until the task retires or the request is otherwise removed. Counts
// toward UsedTimes immediately — a container is "used" the moment a
// request is placed on it, not only once compute finishes.
func (c *FnContainer) AddTask(req ReqId, task *RunningTask) {
	c.Tasks[req] = task
	c.UsedTimes++
}

// RemoveTask drops a request's task from this container, e.g. once its
// compute has finished and it has been retired.
func (c *FnContainer) RemoveTask(req ReqId) {
	delete(c.Tasks, req)
}

// StartingLeftFrameMoveOn ages a Starting container by one frame, returning
// true the frame it transitions to Running. Calling this on a Running
// container is a programmer error — the frame runner must classify
// containers (Starting vs Running) before calling.
func (c *FnContainer) StartingLeftFrameMoveOn() (becameRunning bool) {
	if !c.starting {
		panic("starting_left_frame_move_on called on a non-starting container")
	}
	c.startingLeft--
	if c.startingLeft <= 0 {
		c.starting = false
		return true
	}
	return false
}

// MemTake is the memory charge this container currently incurs: the
// cold-start overhead while Starting, else the basic running charge.
func (c *FnContainer) MemTake(coldStartMemUse float64) float64 {
	if c.starting {
		return coldStartMemUse
	}
	return ContainerBasicMem
}

// RecentHandleSpeed is the arithmetic mean of the done-count window.
func (c *FnContainer) RecentHandleSpeed() float64 {
	if len(c.doneWindow) == 0 {
		return 0.0
	}
	sum := 0
	for _, v := range c.doneWindow {
		sum += v
	}
	return float64(sum) / float64(len(c.doneWindow))
}

// Busyness is a length-weighted mean of the working-count window: the most
// recent sample carries the highest weight (len(window)), the oldest the
// lowest (1).
func (c *FnContainer) Busyness() float64 {
	if len(c.workingWindow) == 0 {
		return 0.0
	}
	weight := 1
	var sum float64
	for _, v := range c.workingWindow {
		sum += float64(v * weight)
		weight++
	}
	return sum / float64(len(c.workingWindow))
}

// RecentFrameIsIdle reports whether the container had zero working tasks in
// each of the last frameCnt recorded frames (fewer frames if the window is
// shorter). Used by the default scale-down executor to rank eviction targets.
func (c *FnContainer) RecentFrameIsIdle(frameCnt int) bool {
	for i := len(c.workingWindow) - 1; i >= 0; i-- {
		if c.workingWindow[i] > 0 {
			return false
		}
		frameCnt--
		if frameCnt == 0 {
			break
		}
	}
	return true
}

// RecordThisFrame pushes this frame's done/working counts into the sliding
// windows, each capped at 20 entries with FIFO eviction.
func (c *FnContainer) RecordThisFrame(doneCnt, workingCnt int) {
	c.doneWindow = append(c.doneWindow, doneCnt)
	if len(c.doneWindow) > doneCntWindow {
		c.doneWindow = c.doneWindow[len(c.doneWindow)-doneCntWindow:]
	}
	c.workingWindow = append(c.workingWindow, workingCnt)
	if len(c.workingWindow) > workingCntWindow {
		c.workingWindow = c.workingWindow[len(c.workingWindow)-workingCntWindow:]
	}
}

// UseFreq is UsedTimes amortized over the container's lifetime in frames.
// Returns 0 rather than dividing by zero when called in the birth frame.
func (c *FnContainer) UseFreq(currentFrame int) float64 {
	age := currentFrame - c.BornFrame
	if age == 0 {
		return 0.0
	}
	return float64(c.UsedTimes) / float64(age)
}

// CPUUseRate returns the ratio recorded by the most recent SetCPUUseRate call.
func (c *FnContainer) CPUUseRate() float64 { return c.cpuUseRate }

// SetCPUUseRate records used/allocated CPU for this frame. Zero allocation
// with an active ready task is a scheduling bug, not a legitimate runtime
// state — it aborts rather than silently recording garbage.
func (c *FnContainer) SetCPUUseRate(alloced, used float64) {
	if alloced < dataRecvEpsilon {
		panic("alloced cpu is too small")
	}
	c.cpuUseRate = used / alloced
}
