package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mailfleet/mailfleet/internal/domain"
	"github.com/mailfleet/mailfleet/pkg/logger"
)

// Dispatcher hands one selected subtask to a provider. Implemented by
// the service layer; errors are per-subtask and never stop the poller.
type Dispatcher interface {
	Dispatch(ctx context.Context, sel Selection, providerID string) error
}

// PollerStatus describes one provider poller for the status surface.
type PollerStatus struct {
	ProviderID string `json:"provider_id"`
	Running    bool   `json:"running"`
	Interval   string `json:"interval"`
}

type poller struct {
	providerID string
	interval   time.Duration
	limiter    *rate.Limiter
	cancel     context.CancelFunc
	done       chan struct{}
}

// PollerManager runs one polling goroutine per enabled provider. Each
// goroutine ticks at the provider's configured rate, asks the scheduler
// for the next eligible subtask and dispatches it. A poller whose
// provider becomes unavailable suspends itself and stays down until
// restarted through StartProvider.
type PollerManager struct {
	providerRepo domain.ProviderRepository
	scheduler    *Scheduler
	dispatcher   Dispatcher
	logger       logger.Logger

	mu      sync.Mutex
	ctx     context.Context
	pollers map[string]*poller
	wg      sync.WaitGroup
}

// NewPollerManager creates a manager with no pollers running.
func NewPollerManager(
	providerRepo domain.ProviderRepository,
	sched *Scheduler,
	dispatcher Dispatcher,
	log logger.Logger,
) *PollerManager {
	return &PollerManager{
		providerRepo: providerRepo,
		scheduler:    sched,
		dispatcher:   dispatcher,
		logger:       log,
		pollers:      make(map[string]*poller),
	}
}

// Start spawns a poller for every enabled provider.
func (m *PollerManager) Start(ctx context.Context) error {
	providers, err := m.providerRepo.ListEnabled(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.ctx = ctx
	m.mu.Unlock()

	for _, provider := range providers {
		if err := m.StartProvider(ctx, provider.ID); err != nil {
			m.logger.WithField("provider_id", provider.ID).
				Error("Failed to start provider poller: " + err.Error())
		}
	}
	return nil
}

// StartProvider launches (or relaunches) the poller for one provider.
// Used both at startup and to bring a suspended poller back after its
// provider was re-enabled, unfrozen or its daily quota reset.
func (m *PollerManager) StartProvider(ctx context.Context, providerID string) error {
	provider, err := m.providerRepo.Get(ctx, providerID)
	if err != nil {
		return err
	}
	if !provider.Available() {
		return domain.ErrProviderUnavailable
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.pollers[providerID]; ok {
		select {
		case <-existing.done:
			// suspended, replace it
		default:
			return nil
		}
	}
	if m.ctx == nil {
		m.ctx = ctx
	}

	interval := provider.RateInterval()
	pollCtx, cancel := context.WithCancel(m.ctx)
	p := &poller{
		providerID: providerID,
		interval:   interval,
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	m.pollers[providerID] = p

	m.wg.Add(1)
	go m.pollLoop(pollCtx, p)

	m.logger.WithFields(map[string]interface{}{
		"provider_id": providerID,
		"interval":    interval.String(),
	}).Info("Provider poller started")
	return nil
}

// Stop cancels every poller and waits for the loops to drain.
func (m *PollerManager) Stop() {
	m.mu.Lock()
	for _, p := range m.pollers {
		p.cancel()
	}
	m.mu.Unlock()

	m.wg.Wait()
	m.logger.Info("Provider pollers stopped")
}

// TriggerPass runs one immediate scheduling pass for a provider,
// subject to the provider's rate limiter. Returns false when the
// limiter refuses the pass or no work was selected.
func (m *PollerManager) TriggerPass(ctx context.Context, providerID string) (bool, error) {
	m.mu.Lock()
	p, ok := m.pollers[providerID]
	m.mu.Unlock()
	if !ok {
		return false, domain.ErrProviderUnavailable
	}
	if !p.limiter.Allow() {
		return false, nil
	}
	return m.pass(ctx, p)
}

// Status reports every known poller and whether its loop is live.
func (m *PollerManager) Status() []PollerStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	statuses := make([]PollerStatus, 0, len(m.pollers))
	for _, p := range m.pollers {
		running := true
		select {
		case <-p.done:
			running = false
		default:
		}
		statuses = append(statuses, PollerStatus{
			ProviderID: p.providerID,
			Running:    running,
			Interval:   p.interval.String(),
		})
	}
	return statuses
}

func (m *PollerManager) pollLoop(ctx context.Context, p *poller) {
	defer m.wg.Done()
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	log := m.logger.WithField("provider_id", p.providerID)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.limiter.Allow() {
				continue
			}
			if _, err := m.pass(ctx, p); err != nil {
				if errors.Is(err, domain.ErrProviderUnavailable) {
					log.Info("Provider capacity exhausted or disabled, suspending poller")
					return
				}
				if errors.Is(err, context.Canceled) {
					return
				}
				log.Error("Scheduling pass failed: " + err.Error())
			}
		}
	}
}

// pass performs one tick: check the provider is still available, pick
// the next eligible subtask and dispatch it.
func (m *PollerManager) pass(ctx context.Context, p *poller) (bool, error) {
	provider, err := m.providerRepo.Get(ctx, p.providerID)
	if err != nil {
		return false, err
	}
	if !provider.Available() {
		return false, domain.ErrProviderUnavailable
	}

	sel, found, err := m.scheduler.Next(ctx, p.providerID)
	if err != nil || !found {
		return false, err
	}

	if err := m.dispatcher.Dispatch(ctx, sel, p.providerID); err != nil {
		if errors.Is(err, domain.ErrProviderUnavailable) {
			return false, err
		}
		// Per-subtask failure: recorded by the dispatcher, the poller
		// keeps ticking.
		m.logger.WithFields(map[string]interface{}{
			"provider_id": p.providerID,
			"subtask_id":  sel.SubTaskID,
		}).Error("Dispatch failed: " + err.Error())
	}
	return true, nil
}
