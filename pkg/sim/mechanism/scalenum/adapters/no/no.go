// Package no implements the no-op scale-number policy required by
// no_scale mode: the target always tracks whatever is currently deployed,
// so neither scale-up nor scale-down executors are ever invoked.
package no

import (
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/entity"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism"
)

func init() {
	mechanism.RegisterScaleNum("no", func(attr string) mechanism.ScaleNum { return &Policy{} })
}

// Policy never changes its target away from the current container count.
type Policy struct{}

func (p *Policy) ScaleForFn(store *entity.Store, fn entity.FnId) {}

func (p *Policy) FnAvailableCount(store *entity.Store, fn entity.FnId) int {
	return len(store.Func(fn).Nodes)
}
