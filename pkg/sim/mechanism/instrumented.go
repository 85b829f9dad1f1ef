package mechanism

import (
	"context"

	"github.com/chris-alexander-pop/faas-sim-core/pkg/logger"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/command"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/entity"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedMechanism wraps a Mechanism with a span and a debug log line
// per dispatch step, mirroring the teacher's instrumented-adapter idiom
// (pkg/cloud/scheduler's InstrumentedScheduler) applied to the simulator's
// own mechanism dispatcher rather than a cloud-provisioning call.
type InstrumentedMechanism struct {
	next   *Mechanism
	tracer trace.Tracer
}

// NewInstrumented wraps next with tracing and logging around each Step.
func NewInstrumented(next *Mechanism) *InstrumentedMechanism {
	return &InstrumentedMechanism{next: next, tracer: otel.Tracer("pkg/sim/mechanism")}
}

// StepContext runs one frame's dispatch body under a span named after the
// configured mech_type, logging the command counts it produced.
func (m *InstrumentedMechanism) StepContext(ctx context.Context, store *entity.Store) (ups []command.UpCmd, sches []command.ScheCmd, downs []command.DownCmd) {
	ctx, span := m.tracer.Start(ctx, "mechanism.Step", trace.WithAttributes(
		attribute.String("mech_type", m.next.mechType),
		attribute.Int("frame", store.Frame()),
	))
	defer span.End()

	ups, sches, downs = m.next.Step(store)

	span.SetAttributes(
		attribute.Int("ups", len(ups)),
		attribute.Int("sches", len(sches)),
		attribute.Int("downs", len(downs)),
	)
	logger.L().DebugContext(ctx, "mechanism dispatched",
		"mech_type", m.next.mechType, "frame", store.Frame(),
		"ups", len(ups), "sches", len(sches), "downs", len(downs))
	return ups, sches, downs
}
