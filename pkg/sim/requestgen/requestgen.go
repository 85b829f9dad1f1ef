// Package requestgen emits new requests at a fixed frame interval, one per
// registered DAG, per §4.3.
package requestgen

import "github.com/chris-alexander-pop/faas-sim-core/pkg/sim/entity"

// Generator emits one request per DAG every intervalFrames frames.
type Generator struct {
	store          *entity.Store
	intervalFrames int
}

// New creates a Generator firing every intervalFrames frames against store.
func New(store *entity.Store, intervalFrames int) *Generator {
	return &Generator{store: store, intervalFrames: intervalFrames}
}

// Tick is called once per frame, after the frame has been fully advanced.
// Every intervalFrames frames it emits one request per registered DAG and
// returns the ids created, in DAG-id order. Otherwise it returns nil.
func (g *Generator) Tick(frame int) []entity.ReqId {
	if frame == 0 || frame%g.intervalFrames != 0 {
		return nil
	}
	var created []entity.ReqId
	for _, d := range g.store.DAGs() {
		req := g.store.NewRequest(d.ID)
		created = append(created, req.ID)
	}
	return created
}
