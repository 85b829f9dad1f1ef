package mechanism

// Registries map a policy name to a factory taking its opaque attribute
// string. Adapter packages register themselves from an init function —
// cmd/simulate blank-imports every adapter package so its registration
// runs before any Config is resolved through New.
var (
	schedulerRegistry     = map[string]func(attr string) Scheduler{}
	scaleNumRegistry      = map[string]func(attr string) ScaleNum{}
	scaleUpExecRegistry   = map[string]func(attr string) ScaleUpExec{}
	scaleDownExecRegistry = map[string]func(attr string) ScaleDownExec{}
)

// RegisterScheduler makes a scheduler factory available under name.
func RegisterScheduler(name string, factory func(attr string) Scheduler) {
	schedulerRegistry[name] = factory
}

// RegisterScaleNum makes a scale-number factory available under name.
func RegisterScaleNum(name string, factory func(attr string) ScaleNum) {
	scaleNumRegistry[name] = factory
}

// RegisterScaleUpExec makes a scale-up-executor factory available under name.
func RegisterScaleUpExec(name string, factory func(attr string) ScaleUpExec) {
	scaleUpExecRegistry[name] = factory
}

// RegisterScaleDownExec makes a scale-down-executor factory available under name.
func RegisterScaleDownExec(name string, factory func(attr string) ScaleDownExec) {
	scaleDownExecRegistry[name] = factory
}

// NewScheduler resolves cfg.Name through the scheduler registry.
func NewScheduler(cfg PolicyConfig) (Scheduler, bool) {
	factory, ok := schedulerRegistry[cfg.Name]
	if !ok {
		return nil, false
	}
	return factory(cfg.Attr), true
}

// NewScaleNum resolves cfg.Name through the scale-number registry.
func NewScaleNum(cfg PolicyConfig) (ScaleNum, bool) {
	factory, ok := scaleNumRegistry[cfg.Name]
	if !ok {
		return nil, false
	}
	return factory(cfg.Attr), true
}

// NewScaleUpExec resolves cfg.Name through the scale-up-executor registry.
func NewScaleUpExec(cfg PolicyConfig) (ScaleUpExec, bool) {
	factory, ok := scaleUpExecRegistry[cfg.Name]
	if !ok {
		return nil, false
	}
	return factory(cfg.Attr), true
}

// NewScaleDownExec resolves cfg.Name through the scale-down-executor registry.
func NewScaleDownExec(cfg PolicyConfig) (ScaleDownExec, bool) {
	factory, ok := scaleDownExecRegistry[cfg.Name]
	if !ok {
		return nil, false
	}
	return factory(cfg.Attr), true
}
