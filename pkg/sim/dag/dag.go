// Package dag builds function DAGs in the three shapes the simulator
// supports: a single node, a map-reduce fan-out/fan-in, and an arbitrary
// DAG described by an external list of task records.
package dag

import (
	"fmt"

	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/entity"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/random"
)

// FnType selects the output-size distribution used by the random function
// generator: cpu-bound workloads emit small payloads, data-bound ones emit
// large payloads. CPU and memory distributions are identical either way.
type FnType int

const (
	FnTypeCPU FnType = iota
	FnTypeData
)

// Builder constructs DAGs against a Store, drawing random functions from a
// shared seeded source.
type Builder struct {
	store  *entity.Store
	rnd    *random.Random
	fntype FnType
}

// New creates a Builder backed by store, drawing functions via rnd using
// the given workload type.
func New(store *entity.Store, rnd *random.Random, fntype FnType) *Builder {
	return &Builder{store: store, rnd: rnd, fntype: fntype}
}

// randFn allocates one randomly-parameterized function.
func (b *Builder) randFn() entity.FnId {
	cpu := b.rnd.F(10.0, 100.0)
	mem := b.rnd.F(100.0, 1000.0)
	coldStartFrames := b.rnd.I(50, 100)
	coldStartCPU := b.rnd.F(0.1, 1.0)
	const coldStartMem = 100.0

	var outputSize float64
	switch b.fntype {
	case FnTypeCPU:
		outputSize = b.rnd.F(0.1, 20.0)
	case FnTypeData:
		outputSize = b.rnd.F(30.0, 100.0)
	default:
		panic("dag: unsupported fntype")
	}

	f := b.store.NewFunc(cpu, mem, outputSize, coldStartFrames, coldStartMem, coldStartCPU)
	return f.ID
}

// SingleFn builds a DAG with one function, no edges.
func (b *Builder) SingleFn() *entity.FnDAG {
	begin := b.randFn()
	return b.store.NewDAG(begin)
}

// MapReduce builds a begin function fanning out to mapCnt middle functions,
// each fanning into one shared end function. Middle nodes are inserted (and
// therefore iterated) in allocation order.
func (b *Builder) MapReduce(mapCnt int) *entity.FnDAG {
	begin := b.randFn()
	d := b.store.NewDAG(begin)

	end := b.randFn()
	b.store.AddFnToDAG(d, end)

	beginOutputSize := b.store.Func(begin).OutputSize
	for i := 0; i < mapCnt; i++ {
		mid := b.randFn()
		b.store.AddFnToDAG(d, mid)
		b.store.AddDagEdge(d, begin, mid, beginOutputSize)
		b.store.AddDagEdge(d, mid, end, b.store.Func(mid).OutputSize)
	}
	return d
}

// TaskRecord is one external task description fed to FromCSV: an opaque id
// and the ids of every task it depends on.
type TaskRecord struct {
	TaskID       string
	Dependencies []string
}

// FromCSV builds a DAG from an arbitrary list of task records. The begin
// node is the first record, in input order, with no dependencies. Returns
// an error if no such record exists, or an error naming the record and the
// missing id if a declared dependency id is not present among the records.
func (b *Builder) FromCSV(records []TaskRecord) (*entity.FnDAG, error) {
	ids := make(map[string]entity.FnId, len(records))
	for _, rec := range records {
		ids[rec.TaskID] = b.randFn()
	}

	var beginTask string
	var beginFn entity.FnId
	found := false
	for _, rec := range records {
		if len(rec.Dependencies) == 0 {
			beginTask = rec.TaskID
			beginFn = ids[rec.TaskID]
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("dag: no dependency-free record among %d task records", len(records))
	}

	d := b.store.NewDAG(beginFn)
	for _, rec := range records {
		if rec.TaskID == beginTask {
			continue
		}
		b.store.AddFnToDAG(d, ids[rec.TaskID])
	}

	for _, rec := range records {
		taskFn := ids[rec.TaskID]
		for _, depID := range rec.Dependencies {
			depFn, ok := ids[depID]
			if !ok {
				return nil, fmt.Errorf("dag: record %q depends on unknown task %q", rec.TaskID, depID)
			}
			b.store.AddDagEdge(d, depFn, taskFn, b.store.Func(depFn).OutputSize)
		}
	}
	return d, nil
}
