package workers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	application "marquee/contexts/kiosk-advertising/campaign-service/application"
	domainerrors "marquee/contexts/kiosk-advertising/campaign-service/domain/errors"
)

// TriggerActionCheckExpired is the manual trigger action id for running a
// reconciliation pass on demand.
const TriggerActionCheckExpired = "check_expired_campaigns"

// Pass is one reconciliation run.
type Pass interface {
	RunOnce(ctx context.Context) (ReconciliationSummary, error)
}

// Driver ticks the reconciler on a fixed interval and serves manual
// triggers. Each driver is a self-contained instance with its own
// lifecycle; tests can run several side by side. Overlap between a
// scheduled pass and a manual one is allowed — the reconciler's
// compare-and-set keeps that safe, the driver makes no serialization
// promises.
type Driver struct {
	Reconciler Pass
	Interval   time.Duration
	Logger     *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

// Start begins periodic ticking until Stop. Starting a started driver is
// a no-op.
func (d *Driver) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return
	}

	interval := d.Interval
	if interval <= 0 {
		interval = time.Minute
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.stopped = make(chan struct{})

	logger := application.ResolveLogger(d.Logger)
	logger.Info("lifecycle driver started",
		"event", "lifecycle_driver_started",
		"module", "kiosk-advertising/campaign-service",
		"layer", "worker",
		"interval", interval.String(),
	)

	go func(done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			d.runGuarded(runCtx, logger)
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
			}
		}
	}(d.stopped)
}

// Stop halts ticking and waits for an in-flight pass to finish.
func (d *Driver) Stop() {
	d.mu.Lock()
	cancel := d.cancel
	stopped := d.stopped
	d.cancel = nil
	d.stopped = nil
	d.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-stopped

	application.ResolveLogger(d.Logger).Info("lifecycle driver stopped",
		"event", "lifecycle_driver_stopped",
		"module", "kiosk-advertising/campaign-service",
		"layer", "worker",
	)
}

// TriggerNow runs one pass synchronously for the named action. It may
// execute concurrently with a scheduled pass.
func (d *Driver) TriggerNow(ctx context.Context, action string) (ReconciliationSummary, error) {
	if strings.TrimSpace(action) != TriggerActionCheckExpired {
		return ReconciliationSummary{}, domainerrors.ErrUnknownTriggerAction
	}
	return d.Reconciler.RunOnce(ctx)
}

// runGuarded keeps a panicking pass from taking the process down; the
// next tick proceeds independently.
func (d *Driver) runGuarded(ctx context.Context, logger *slog.Logger) {
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("reconciliation pass panicked",
				"event", "campaign_reconciliation_panicked",
				"module", "kiosk-advertising/campaign-service",
				"layer", "worker",
				"panic", fmt.Sprint(recovered),
			)
		}
	}()

	if _, err := d.Reconciler.RunOnce(ctx); err != nil {
		logger.Error("scheduled reconciliation failed",
			"event", "campaign_reconciliation_failed",
			"module", "kiosk-advertising/campaign-service",
			"layer", "worker",
			"error", err.Error(),
		)
	}
}
