package tests

import (
	"testing"

	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/entity"
	scaledowndefault "github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism/scaledown/adapters/default"
	"github.com/stretchr/testify/suite"
)

type DefaultSuite struct {
	suite.Suite
	store *entity.Store
	fn    entity.FnId
}

func (s *DefaultSuite) SetupTest() {
	s.store = entity.NewStore(3, 1000, 4000)
	f := s.store.NewFunc(10, 100, 1, 1, 100.0, 0.5)
	s.store.NewDAG(f.ID)
	s.fn = f.ID

	for node := 0; node < 3; node++ {
		s.store.StartContainer(s.fn, node)
		s.store.Node(node).Containers[s.fn].StartingLeftFrameMoveOn()
	}
}

// recordIdleFrames pushes n all-idle telemetry frames for c.
func recordIdleFrames(c *entity.FnContainer, n int) {
	for i := 0; i < n; i++ {
		c.RecordThisFrame(0, 0)
	}
}

func (s *DefaultSuite) TestPrefersLongestIdleContainer() {
	// Node 0's idle run is longest, node 1's briefest, node 2 worked last frame.
	recordIdleFrames(s.store.Node(0).Containers[s.fn], 5)
	recordIdleFrames(s.store.Node(1).Containers[s.fn], 1)
	s.store.Node(2).Containers[s.fn].RecordThisFrame(1, 1)

	exec := scaledowndefault.Executor{}
	cmds := exec.ExecScaleDown(s.store, s.fn, 1)
	s.Require().Len(cmds, 1)
	s.Equal(0, cmds[0].NodeID)
}

func (s *DefaultSuite) TestSkipsContainersWithActiveTasks() {
	req := s.store.NewRequest(s.store.Func(s.fn).DagID)
	task := req.Schedule(s.fn, 0, 10)
	s.store.Node(0).Containers[s.fn].AddTask(req.ID, task)

	exec := scaledowndefault.Executor{}
	cmds := exec.ExecScaleDown(s.store, s.fn, 3)
	s.Len(cmds, 2, "only the two containers with no active tasks qualify")
}

func (s *DefaultSuite) TestZeroCountEmitsNothing() {
	exec := scaledowndefault.Executor{}
	s.Empty(exec.ExecScaleDown(s.store, s.fn, 0))
}

func TestDefaultSuite(t *testing.T) {
	suite.Run(t, new(DefaultSuite))
}
