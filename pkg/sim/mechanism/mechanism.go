// Package mechanism composes the four pluggable policies — scheduler,
// scale-number, scale-up executor, scale-down executor — into the fixed
// dispatch loop the frame runner consumes each frame.
package mechanism

import (
	"github.com/chris-alexander-pop/faas-sim-core/pkg/logger"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/command"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/entity"
)

// Recognized policy names, reproduced from the simulator's original
// configuration surface.
const (
	MechNoScale            = "no_scale"
	MechScaleScheSeparated = "scale_sche_separated"
	MechScaleScheJoint     = "scale_sche_joint"
)

var SchedulerNames = []string{"faasflow", "pass", "pos", "fnsche"}
var ScaleNumNames = []string{"no", "hpa", "lass"}
var ScaleDownExecNames = []string{"default"}
var ScaleUpExecNames = []string{"least_task", "no"}
var MechNames = []string{MechNoScale, MechScaleScheSeparated, MechScaleScheJoint}

// DispatchContext is the read/write surface every policy call sees: the
// entity store plus this mechanism's own scale-number/executor instances,
// so a joint-mode scheduler (pos) can consult and drive them directly.
type DispatchContext struct {
	Store     *entity.Store
	ScaleNum  ScaleNum
	ScaleUp   ScaleUpExec
	ScaleDown ScaleDownExec
}

// Scheduler binds (request, ready-function) pairs to nodes. In joint mode
// it may also emit up/down commands of its own accord.
type Scheduler interface {
	ScheduleSome(ctx *DispatchContext) (ups []command.UpCmd, sches []command.ScheCmd, downs []command.DownCmd)
}

// ScaleNum decides how many containers a function should have.
// ScaleForFn recomputes and stores the internal target; FnAvailableCount
// reads it back.
type ScaleNum interface {
	ScaleForFn(store *entity.Store, fn entity.FnId)
	FnAvailableCount(store *entity.Store, fn entity.FnId) int
}

// ScaleUpExec chooses which nodes should host new containers to reach
// targetCnt total containers for fn.
type ScaleUpExec interface {
	ExecScaleUp(store *entity.Store, fn entity.FnId, targetCnt int) []command.UpCmd
}

// ScaleDownExec chooses cnt existing containers of fn to evict.
type ScaleDownExec interface {
	ExecScaleDown(store *entity.Store, fn entity.FnId, cnt int) []command.DownCmd
}

// PolicyConfig names one policy and carries an opaque attribute string
// passed to the adapter's factory; none of the registered adapters reads it.
type PolicyConfig struct {
	Name string
	Attr string
}

// Config is the mechanism dispatcher's configuration surface.
type Config struct {
	MechType          string
	ScheConf          PolicyConfig
	ScaleNumConf      PolicyConfig
	ScaleDownExecConf PolicyConfig
	ScaleUpExecConf   PolicyConfig
}

// Mechanism composes the four policies under one mech_type and applies the
// matching dispatch body each frame.
type Mechanism struct {
	mechType  string
	sche      Scheduler
	scaleNum  ScaleNum
	scaleUp   ScaleUpExec
	scaleDown ScaleDownExec
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// checkConfig validates one mode's allowed policy names, logging (warning
// level) a reason naming the incompatible policy, per §7's user-visible
// contract.
func checkConfig(mechType string, cfg Config, allowSche, allowScaleNum, allowScaleDownExec, allowScaleUpExec []string) bool {
	if !contains(allowSche, cfg.ScheConf.Name) {
		logger.L().Warn("mech_type does not support scheduler", "mech_type", mechType, "sche", cfg.ScheConf.Name)
		return false
	}
	if !contains(allowScaleNum, cfg.ScaleNumConf.Name) {
		logger.L().Warn("mech_type does not support scale_num", "mech_type", mechType, "scale_num", cfg.ScaleNumConf.Name)
		return false
	}
	if !contains(allowScaleDownExec, cfg.ScaleDownExecConf.Name) {
		logger.L().Warn("mech_type does not support scale_down_exec", "mech_type", mechType, "scale_down_exec", cfg.ScaleDownExecConf.Name)
		return false
	}
	if !contains(allowScaleUpExec, cfg.ScaleUpExecConf.Name) {
		logger.L().Warn("mech_type does not support scale_up_exec", "mech_type", mechType, "scale_up_exec", cfg.ScaleUpExecConf.Name)
		return false
	}
	return true
}

// New validates cfg against the fixed compatibility matrix and resolves
// each policy name through the package registries. Returns (nil, false) on
// any incompatibility or unknown mech_type — construction failure, not a
// panic, per §7's configuration-error taxonomy: the caller must not
// proceed to simulation.
//
// scale_sche_separated unconditionally fails here, reproducing the
// original's behavior verbatim: the mode's dispatch body exists (see
// stepScaleScheSeparated) but is unreachable through New. See DESIGN.md.
func New(cfg Config) (*Mechanism, bool) {
	switch cfg.MechType {
	case MechNoScale:
		if !checkConfig(cfg.MechType, cfg,
			[]string{"faasflow", "pass", "fnsche"},
			[]string{"no"},
			[]string{"default"},
			[]string{"no"},
		) {
			return nil, false
		}
	case MechScaleScheSeparated:
		return nil, false
	case MechScaleScheJoint:
		if !checkConfig(cfg.MechType, cfg,
			[]string{"pos"},
			[]string{"hpa", "lass"},
			[]string{"default"},
			[]string{"least_task"},
		) {
			return nil, false
		}
	default:
		logger.L().Warn("mech_type not supported", "mech_type", cfg.MechType)
		return nil, false
	}

	sche, ok := NewScheduler(cfg.ScheConf)
	if !ok {
		return nil, false
	}
	scaleNum, ok := NewScaleNum(cfg.ScaleNumConf)
	if !ok {
		return nil, false
	}
	scaleDown, ok := NewScaleDownExec(cfg.ScaleDownExecConf)
	if !ok {
		return nil, false
	}
	scaleUp, ok := NewScaleUpExec(cfg.ScaleUpExecConf)
	if !ok {
		return nil, false
	}

	return &Mechanism{
		mechType:  cfg.MechType,
		sche:      sche,
		scaleNum:  scaleNum,
		scaleUp:   scaleUp,
		scaleDown: scaleDown,
	}, true
}

// Step runs this frame's dispatch body for the configured mech_type.
func (m *Mechanism) Step(store *entity.Store) (ups []command.UpCmd, sches []command.ScheCmd, downs []command.DownCmd) {
	switch m.mechType {
	case MechNoScale:
		return m.stepNoScale(store)
	case MechScaleScheSeparated:
		return m.stepScaleScheSeparated(store)
	case MechScaleScheJoint:
		return m.stepScaleScheJoint(store)
	default:
		panic("mechanism: mech_type not supported " + m.mechType)
	}
}

func (m *Mechanism) ctx(store *entity.Store) *DispatchContext {
	return &DispatchContext{Store: store, ScaleNum: m.scaleNum, ScaleUp: m.scaleUp, ScaleDown: m.scaleDown}
}

func (m *Mechanism) stepNoScale(store *entity.Store) ([]command.UpCmd, []command.ScheCmd, []command.DownCmd) {
	return m.sche.ScheduleSome(m.ctx(store))
}

// stepScaleScheSeparated evaluates scale-number per function, driving the
// up/down executors directly with the resulting target, then runs the
// scheduler and asserts it emitted no up/down commands of its own. This
// path is unreachable through New (see its doc comment), so no test
// exercises it — reproducing the original's own
// never-constructed-but-present mode.
func (m *Mechanism) stepScaleScheSeparated(store *entity.Store) ([]command.UpCmd, []command.ScheCmd, []command.DownCmd) {
	var ups []command.UpCmd
	var downs []command.DownCmd

	for _, f := range store.Funcs() {
		m.scaleNum.ScaleForFn(store, f.ID)
		target := m.scaleNum.FnAvailableCount(store, f.ID)
		cur := len(f.Nodes)
		switch {
		case target > cur:
			ups = append(ups, m.scaleUp.ExecScaleUp(store, f.ID, target)...)
		case target < cur:
			downs = append(downs, m.scaleDown.ExecScaleDown(store, f.ID, cur-target)...)
		}
	}

	schedUps, sches, schedDowns := m.sche.ScheduleSome(m.ctx(store))
	if len(schedUps) != 0 || len(schedDowns) != 0 {
		panic("mechanism: scheduler emitted up/down commands in scale_sche_separated mode")
	}
	return ups, sches, downs
}

// stepScaleScheJoint evaluates scale-number per function as advisory
// information, then defers entirely to the scheduler (pos), which consults
// DispatchContext's ScaleNum/ScaleUp/ScaleDown to emit up, down, and
// schedule commands jointly.
func (m *Mechanism) stepScaleScheJoint(store *entity.Store) ([]command.UpCmd, []command.ScheCmd, []command.DownCmd) {
	for _, f := range store.Funcs() {
		m.scaleNum.ScaleForFn(store, f.ID)
		m.scaleNum.FnAvailableCount(store, f.ID)
	}
	return m.sche.ScheduleSome(m.ctx(store))
}
