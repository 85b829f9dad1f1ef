package tests

import (
	"testing"

	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/entity"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism/scalenum/adapters/hpa"
	"github.com/stretchr/testify/suite"
)

type HPASuite struct {
	suite.Suite
	store *entity.Store
	fn    entity.FnId
}

func (s *HPASuite) SetupTest() {
	// Two nodes with mem capacity 1000 each: each container's MemUse can be
	// driven to an exact fraction of capacity by direct assignment.
	s.store = entity.NewStore(2, 1000, 1000)
	f := s.store.NewFunc(10, 100, 1, 1, 100.0, 0.5)
	s.store.NewDAG(f.ID)
	s.fn = f.ID
}

// runningContainerAtMemUseRate starts a single container on node 0, ages it
// to Running, then recomputes node charges so avgMemUseRate == rate.
func (s *HPASuite) runningContainerAtMemUseRate(rate float64) {
	c := s.store.StartContainer(s.fn, 0)
	c.StartingLeftFrameMoveOn()
	c.MemUse = rate * s.store.Node(0).MemCapacity
	s.store.RecomputeNodeCharges()
}

// setMemUseRateOnRunningNodes overwrites MemUse on every node already
// hosting a container for fn so avgMemUseRate == rate, without changing how
// many containers are realized.
func (s *HPASuite) setMemUseRateOnRunningNodes(rate float64) {
	for nodeID := range s.store.Func(s.fn).Nodes {
		node := s.store.Node(nodeID)
		node.Containers[s.fn].MemUse = rate * node.MemCapacity
	}
	s.store.RecomputeNodeCharges()
}

func (s *HPASuite) TestWithinToleranceBandSkipsScaling() {
	s.runningContainerAtMemUseRate(0.45)
	p := hpa.New()
	p.ScaleForFn(s.store, s.fn)
	s.Equal(1, p.FnAvailableCount(s.store, s.fn), "within band: target holds at the realized count")

	s.runningContainerAtMemUseRate(0.54)
	p2 := hpa.New()
	p2.ScaleForFn(s.store, s.fn)
	s.Equal(1, p2.FnAvailableCount(s.store, s.fn), "within band: target holds at the realized count")
}

func (s *HPASuite) TestAboveToleranceScalesUp() {
	s.runningContainerAtMemUseRate(0.7)
	p := hpa.New()
	p.ScaleForFn(s.store, s.fn)
	// ceil(0.7 / 0.5) == 2
	s.Equal(2, p.FnAvailableCount(s.store, s.fn))
}

func (s *HPASuite) TestBacklogForcesAtLeastOne() {
	s.store.NewRequest(s.store.Func(s.fn).DagID)
	p := hpa.New()
	p.ScaleForFn(s.store, s.fn)
	s.GreaterOrEqual(p.FnAvailableCount(s.store, s.fn), 1)
}

func (s *HPASuite) TestCarefulFilterDelaysDownscale() {
	// Two containers already realized, both over target: desired equals the
	// realized count, so the first evaluation holds steady at 2.
	s.runningContainerAtMemUseRate(0.75)
	c2 := s.store.StartContainer(s.fn, 1)
	c2.StartingLeftFrameMoveOn()
	c2.MemUse = 0.75 * s.store.Node(1).MemCapacity
	s.store.RecomputeNodeCharges()

	p := hpa.New()
	p.ScaleForFn(s.store, s.fn)
	s.Equal(2, p.FnAvailableCount(s.store, s.fn))

	// Drop the reading low enough that desired (1) falls below the realized
	// count (2). A single low reading should not immediately shrink the
	// target.
	s.setMemUseRateOnRunningNodes(0.1)
	p.ScaleForFn(s.store, s.fn)
	s.Equal(2, p.FnAvailableCount(s.store, s.fn))
	p.ScaleForFn(s.store, s.fn)
	s.Equal(2, p.FnAvailableCount(s.store, s.fn))

	// After enough consecutive low readings, the target is allowed to drop.
	p.ScaleForFn(s.store, s.fn)
	s.Less(p.FnAvailableCount(s.store, s.fn), 2)
}

func TestHPASuite(t *testing.T) {
	suite.Run(t, new(HPASuite))
}
