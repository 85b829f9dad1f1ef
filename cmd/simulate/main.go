package main

import (
	"context"
	"log"
	"os"

	"github.com/chris-alexander-pop/faas-sim-core/pkg/config"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/logger"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/dag"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/entity"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/frame"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/random"
	"github.com/chris-alexander-pop/faas-sim-core/pkg/sim/requestgen"
	"github.com/google/uuid"

	// Blank-imported so every adapter's init() populates the mechanism
	// registries before Config is resolved through mechanism.New below.
	_ "github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism/scaledown/adapters/default"
	_ "github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism/scalenum/adapters/hpa"
	_ "github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism/scalenum/adapters/lass"
	_ "github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism/scalenum/adapters/no"
	_ "github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism/scaleup/adapters/leasttask"
	_ "github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism/scaleup/adapters/no"
	_ "github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism/scheduler/adapters/faasflow"
	_ "github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism/scheduler/adapters/fnsche"
	_ "github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism/scheduler/adapters/pass"
	_ "github.com/chris-alexander-pop/faas-sim-core/pkg/sim/mechanism/scheduler/adapters/pos"
)

// Config is this binary's whole env-driven configuration surface, loaded
// through pkg/config the way every service in the pack loads its own.
type Config struct {
	Logger logger.Config
	Sim    SimConfig
}

// SimConfig names the four pluggable policies, the DAG shape to run, and
// the run's sizing knobs, mirroring spec.md §6's configuration object.
type SimConfig struct {
	MechType      string `env:"MECH_TYPE" env-default:"no_scale" validate:"oneof=no_scale scale_sche_separated scale_sche_joint"`
	Scheduler     string `env:"SCHEDULER" env-default:"pass"`
	ScaleNum      string `env:"SCALE_NUM" env-default:"no"`
	ScaleUpExec   string `env:"SCALE_UP_EXEC" env-default:"no"`
	ScaleDownExec string `env:"SCALE_DOWN_EXEC" env-default:"default"`

	DagType string `env:"DAG_TYPE" env-default:"single" validate:"oneof=single mapreduce"`
	FnType  string `env:"FN_TYPE" env-default:"cpu" validate:"oneof=cpu data"`
	MapCnt  int    `env:"MAP_CNT" env-default:"3" validate:"min=1"`

	NodeCount       int     `env:"NODE_COUNT" env-default:"4" validate:"min=1"`
	NodeCPUCapacity float64 `env:"NODE_CPU_CAPACITY" env-default:"1000"`
	NodeMemCapacity float64 `env:"NODE_MEM_CAPACITY" env-default:"8000"`

	RequestIntervalFrames int   `env:"REQUEST_INTERVAL_FRAMES" env-default:"10" validate:"min=1"`
	MaxFrames             int   `env:"MAX_FRAMES" env-default:"1000" validate:"min=1"`
	Seed                  int64 `env:"SEED" env-default:"42"`
}

func main() {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg := logger.Init(cfg.Logger)

	// runID has no bearing on simulation semantics (the run stays
	// deterministic given Seed); it exists purely to correlate one
	// invocation's log lines and spans, the way the pack's services tag a
	// request with a UUID rather than a sequential counter.
	runID := uuid.New()
	lg = lg.With("run_id", runID.String())
	ctx := context.Background()

	store := entity.NewStore(cfg.Sim.NodeCount, cfg.Sim.NodeCPUCapacity, cfg.Sim.NodeMemCapacity)

	fntype := dag.FnTypeCPU
	if cfg.Sim.FnType == "data" {
		fntype = dag.FnTypeData
	}
	builder := dag.New(store, random.New(cfg.Sim.Seed), fntype)
	switch cfg.Sim.DagType {
	case "mapreduce":
		builder.MapReduce(cfg.Sim.MapCnt)
	default:
		builder.SingleFn()
	}

	mech, ok := mechanism.New(mechanism.Config{
		MechType:          cfg.Sim.MechType,
		ScheConf:          mechanism.PolicyConfig{Name: cfg.Sim.Scheduler},
		ScaleNumConf:      mechanism.PolicyConfig{Name: cfg.Sim.ScaleNum},
		ScaleUpExecConf:   mechanism.PolicyConfig{Name: cfg.Sim.ScaleUpExec},
		ScaleDownExecConf: mechanism.PolicyConfig{Name: cfg.Sim.ScaleDownExec},
	})
	if !ok {
		lg.Error("incompatible mechanism configuration", "mech_type", cfg.Sim.MechType,
			"scheduler", cfg.Sim.Scheduler, "scale_num", cfg.Sim.ScaleNum,
			"scale_up_exec", cfg.Sim.ScaleUpExec, "scale_down_exec", cfg.Sim.ScaleDownExec)
		os.Exit(1)
	}

	instrumented := mechanism.NewInstrumented(mech)

	reqGen := requestgen.New(store, cfg.Sim.RequestIntervalFrames)
	report := &runSummary{}
	runner := frame.New(store).WithReporter(report)

	for i := 0; i < cfg.Sim.MaxFrames; i++ {
		ups, sches, downs := instrumented.StepContext(ctx, store)
		res := runner.Run(ups, sches, downs)
		for _, downErr := range res.DownErrors {
			lg.Warn("down command rejected", "error", downErr)
		}
		reqGen.Tick(store.Frame())
	}

	lg.Info("run complete",
		"frames", store.Frame(),
		"requests_retired", report.requestsRetired,
		"fns_completed", report.fnsCompleted,
		"cold_starts", report.coldStarts,
		"requests_pending", len(store.PendingRequests()),
	)
}

// runSummary logs the same per-event debug lines as metrics.SlogReporter
// and keeps running totals for the end-of-run summary line.
type runSummary struct {
	requestsRetired int
	fnsCompleted    int
	coldStarts      int
}

func (r *runSummary) OnFnCompleted(fn entity.FnId, req entity.ReqId, frame int) {
	r.fnsCompleted++
	logger.L().Debug("fn completed", "fn", fn, "req", req, "frame", frame)
}

func (r *runSummary) OnFnInsColdStarted(c *entity.FnContainer) {
	r.coldStarts++
	logger.L().Debug("container cold started", "node", c.NodeID, "fn", c.FnID, "born_frame", c.BornFrame)
}

func (r *runSummary) OnRequestRetired(req entity.ReqId, dagID entity.DagId, arrivalFrame, doneFrame int) {
	r.requestsRetired++
	logger.L().Debug("request retired", "req", req, "dag", dagID, "latency_frames", doneFrame-arrivalFrame)
}
