// Package metrics defines the simulator's external metrics collaborator
// (§6) and a default slog-backed implementation, mirroring the teacher's
// logger-as-ambient-dependency idiom rather than a bespoke metrics client.
package metrics

import (
	"github.com/chris-alexander-pop/faas-sim-core/pkg/logger"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/entity"
)

// Reporter is the external collaborator the simulation engine calls out to
// as requests progress. Bodies are out of core scope (§1) — only the
// contract is specified here.
type Reporter interface {
	// OnFnCompleted fires once a function's task retires for a request.
	OnFnCompleted(fn entity.FnId, req entity.ReqId, frame int)
	// OnFnInsColdStarted fires the frame a container finishes cold-starting.
	OnFnInsColdStarted(c *entity.FnContainer)
	// OnRequestRetired fires once every function in a request's DAG has
	// completed.
	OnRequestRetired(req entity.ReqId, dag entity.DagId, arrivalFrame, doneFrame int)
}

// NoOp discards every event. Useful for tests that don't care about metrics.
type NoOp struct{}

func (NoOp) OnFnCompleted(entity.FnId, entity.ReqId, int)         {}
func (NoOp) OnFnInsColdStarted(*entity.FnContainer)               {}
func (NoOp) OnRequestRetired(entity.ReqId, entity.DagId, int, int) {}

// SlogReporter logs every event at debug level via the package logger,
// the default collaborator when no dedicated metrics backend is wired.
type SlogReporter struct{}

func (SlogReporter) OnFnCompleted(fn entity.FnId, req entity.ReqId, frame int) {
	logger.L().Debug("fn completed", "fn", fn, "req", req, "frame", frame)
}

func (SlogReporter) OnFnInsColdStarted(c *entity.FnContainer) {
	logger.L().Debug("container cold started", "node", c.NodeID, "fn", c.FnID, "born_frame", c.BornFrame)
}

func (SlogReporter) OnRequestRetired(req entity.ReqId, dag entity.DagId, arrivalFrame, doneFrame int) {
	logger.L().Debug("request retired", "req", req, "dag", dag, "latency_frames", doneFrame-arrivalFrame)
}
