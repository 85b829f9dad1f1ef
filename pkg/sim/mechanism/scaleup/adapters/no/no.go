// Package no implements the no-op scale-up executor required by no_scale
// mode, where only the scheduler is permitted to emit commands.
package no

import (
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/command"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/entity"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism"
)

func init() {
	mechanism.RegisterScaleUpExec("no", func(attr string) mechanism.ScaleUpExec { return Executor{} })
}

// Executor never emits any command.
type Executor struct{}

func (Executor) ExecScaleUp(store *entity.Store, fn entity.FnId, targetCnt int) []command.UpCmd {
	return nil
}
