package tests

import (
	"testing"

	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/entity"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism"
	scaledowndefault "github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism/scaledown/adapters/default"
	noscalenum "github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism/scalenum/adapters/no"
	noscaleup "github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism/scaleup/adapters/no"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism/scheduler/adapters/faasflow"
	"github.com/stretchr/testify/suite"
)

type FaasflowSuite struct {
	suite.Suite
	store *entity.Store
}

func (s *FaasflowSuite) SetupTest() {
	s.store = entity.NewStore(2, 1000, 4000)
}

func (s *FaasflowSuite) ctx() *mechanism.DispatchContext {
	return &mechanism.DispatchContext{
		Store:     s.store,
		ScaleNum:  &noscalenum.Policy{},
		ScaleUp:   noscaleup.Executor{},
		ScaleDown: scaledowndefault.Executor{},
	}
}

func (s *FaasflowSuite) TestColdStartsOnFirstRequest() {
	f := s.store.NewFunc(10, 100, 1, 1, 100.0, 0.5)
	s.store.NewDAG(f.ID)
	s.store.NewRequest(f.DagID)

	sche := faasflow.Scheduler{}
	ups, sches, downs := sche.ScheduleSome(s.ctx())
	s.Require().Len(ups, 1)
	s.Require().Len(sches, 1)
	s.Empty(downs)
	s.Equal(ups[0].NodeID, sches[0].NodeID)
}

func (s *FaasflowSuite) TestPrefersExistingHostOverColdStart() {
	f := s.store.NewFunc(10, 100, 1, 1, 100.0, 0.5)
	d := s.store.NewDAG(f.ID)
	s.store.StartContainer(f.ID, 1)
	s.store.Node(1).Containers[f.ID].StartingLeftFrameMoveOn()
	s.store.NewRequest(d.ID)

	sche := faasflow.Scheduler{}
	ups, sches, _ := sche.ScheduleSome(s.ctx())
	s.Empty(ups, "already hosting fn on node 1, no cold start needed")
	s.Require().Len(sches, 1)
	s.Equal(1, sches[0].NodeID)
}

func TestFaasflowSuite(t *testing.T) {
	suite.Run(t, new(FaasflowSuite))
}
