package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	domainerrors "marquee/contexts/kiosk-advertising/campaign-service/domain/errors"
)

type countingPass struct {
	runs  atomic.Int64
	err   error
	panic bool
}

func (p *countingPass) RunOnce(ctx context.Context) (ReconciliationSummary, error) {
	p.runs.Add(1)
	if p.panic {
		panic("boom")
	}
	return ReconciliationSummary{CampaignsFound: 1}, p.err
}

func TestDriverTriggerNow(t *testing.T) {
	pass := &countingPass{}
	driver := &Driver{Reconciler: pass}
	ctx := context.Background()

	summary, err := driver.TriggerNow(ctx, TriggerActionCheckExpired)
	if err != nil {
		t.Fatalf("trigger failed: %v", err)
	}
	if summary.CampaignsFound != 1 {
		t.Fatalf("expected pass summary, got %+v", summary)
	}
	if pass.runs.Load() != 1 {
		t.Fatalf("expected exactly one run, got %d", pass.runs.Load())
	}

	_, err = driver.TriggerNow(ctx, "compact_disk")
	if !errors.Is(err, domainerrors.ErrUnknownTriggerAction) {
		t.Fatalf("expected unknown trigger action, got %v", err)
	}
	if pass.runs.Load() != 1 {
		t.Fatal("unknown action must not run a pass")
	}
}

func TestDriverStartRunsImmediatelyAndStops(t *testing.T) {
	pass := &countingPass{}
	driver := &Driver{Reconciler: pass, Interval: time.Hour}

	driver.Start(context.Background())
	driver.Start(context.Background()) // second start is a no-op
	driver.Stop()

	if runs := pass.runs.Load(); runs != 1 {
		t.Fatalf("expected one immediate pass before the first tick, got %d", runs)
	}

	// Stopping a stopped driver is safe.
	driver.Stop()
}

func TestDriverSurvivesPanicAndError(t *testing.T) {
	pass := &countingPass{panic: true}
	driver := &Driver{Reconciler: pass, Interval: 5 * time.Millisecond}

	driver.Start(context.Background())
	deadline := time.After(time.Second)
	for pass.runs.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("driver did not keep ticking after a panicking pass")
		case <-time.After(time.Millisecond):
		}
	}
	driver.Stop()

	failing := &countingPass{err: errors.New("pass failed")}
	driver = &Driver{Reconciler: failing, Interval: time.Hour}
	driver.Start(context.Background())
	driver.Stop()
	if failing.runs.Load() != 1 {
		t.Fatalf("failing pass should still have run once, got %d", failing.runs.Load())
	}
}

func TestDriverRestartsAfterStop(t *testing.T) {
	pass := &countingPass{}
	driver := &Driver{Reconciler: pass, Interval: time.Hour}

	driver.Start(context.Background())
	driver.Stop()
	driver.Start(context.Background())
	driver.Stop()

	if runs := pass.runs.Load(); runs != 2 {
		t.Fatalf("expected one pass per start, got %d", runs)
	}
}
