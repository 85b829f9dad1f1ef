package tests

import (
	"testing"

	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/entity"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism"
	scaledowndefault "github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism/scaledown/adapters/default"
	noscalenum "github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism/scalenum/adapters/no"
	noscaleup "github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism/scaleup/adapters/no"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism/scheduler/adapters/fnsche"
	"github.com/stretchr/testify/suite"
)

type FnscheSuite struct {
	suite.Suite
	store *entity.Store
}

func (s *FnscheSuite) SetupTest() {
	s.store = entity.NewStore(3, 1000, 4000)
}

func (s *FnscheSuite) ctx() *mechanism.DispatchContext {
	return &mechanism.DispatchContext{
		Store:     s.store,
		ScaleNum:  &noscalenum.Policy{},
		ScaleUp:   noscaleup.Executor{},
		ScaleDown: scaledowndefault.Executor{},
	}
}

func (s *FnscheSuite) TestPicksHighestScoringNode() {
	f := s.store.NewFunc(10, 100, 1, 1, 100.0, 0.5)
	s.store.NewDAG(f.ID)
	s.store.NewRequest(f.DagID)

	// Burden node 0 and 1 with existing charges so node 2 scores highest.
	busy := s.store.NewFunc(500, 3000, 1, 1, 100.0, 0.5)
	s.store.StartContainer(busy.ID, 0)
	s.store.Node(0).Containers[busy.ID].StartingLeftFrameMoveOn()
	s.store.Node(0).Containers[busy.ID].LastFrameCPUUsed = 500
	s.store.Node(0).Containers[busy.ID].MemUse = 3000
	s.store.StartContainer(busy.ID, 1)
	s.store.Node(1).Containers[busy.ID].StartingLeftFrameMoveOn()
	s.store.Node(1).Containers[busy.ID].LastFrameCPUUsed = 500
	s.store.Node(1).Containers[busy.ID].MemUse = 3000
	s.store.RecomputeNodeCharges()

	sche := fnsche.Scheduler{}
	ups, sches, _ := sche.ScheduleSome(s.ctx())
	s.Require().Len(ups, 1)
	s.Require().Len(sches, 1)
	s.Equal(2, ups[0].NodeID)
}

func TestFnscheSuite(t *testing.T) {
	suite.Run(t, new(FnscheSuite))
}
