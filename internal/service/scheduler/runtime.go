package scheduler

import "context"

// Runtime bundles the scheduler and its poller manager into one
// operational unit with a single start/stop lifecycle.
type Runtime struct {
	scheduler *Scheduler
	pollers   *PollerManager
}

// NewRuntime creates a runtime over an assembled scheduler and manager.
func NewRuntime(sched *Scheduler, pollers *PollerManager) *Runtime {
	return &Runtime{scheduler: sched, pollers: pollers}
}

// Start brings up the registry loop first, then the provider pollers
// that feed off it.
func (r *Runtime) Start(ctx context.Context) error {
	if err := r.scheduler.Start(ctx); err != nil {
		return err
	}
	return r.pollers.Start(ctx)
}

// Stop tears down in reverse order: pollers drain before the registry
// goroutine exits.
func (r *Runtime) Stop() {
	r.pollers.Stop()
	r.scheduler.Stop()
}

// IsRunning reports whether the registry loop is active.
func (r *Runtime) IsRunning() bool {
	return r.scheduler.IsRunning()
}

// Snapshot returns the queue registry state.
func (r *Runtime) Snapshot(ctx context.Context) ([]QueueSnapshot, error) {
	return r.scheduler.Snapshot(ctx)
}

// PollerStatus reports every known provider poller.
func (r *Runtime) PollerStatus() []PollerStatus {
	return r.pollers.Status()
}

// StartProvider launches or relaunches one provider poller.
func (r *Runtime) StartProvider(ctx context.Context, providerID string) error {
	return r.pollers.StartProvider(ctx, providerID)
}

// TriggerPass runs one manual scheduling pass for a provider.
func (r *Runtime) TriggerPass(ctx context.Context, providerID string) (bool, error) {
	return r.pollers.TriggerPass(ctx, providerID)
}
