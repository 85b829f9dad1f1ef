package entity

// FnId identifies a Func. Ids are dense and monotonically allocated so
// Store.Func is an O(1) slice lookup.
type FnId = int

// DagId identifies a FnDAG.
type DagId = int

// NodeId identifies a compute Node.
type NodeId = int

// ReqId identifies a Request.
type ReqId = int

// Constants reproduced from the simulator's original configuration surface.
const (
	RequestGenFrameInterval = 10
	ContainerBasicMem       = 199.0
	NodeCount               = 10
	NodeLeftMemThreshold    = 2500.0
	NodeScoreCPUWeight      = 0.5
	NodeScoreMemWeight      = 0.5
	SpeedSimilarThreshold   = 0.1

	doneCntWindow    = 20
	workingCntWindow = 20

	dataRecvEpsilon = 1e-5
)
