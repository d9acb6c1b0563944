package action

import (
	"context"
	"time"

	"piccolo/internal/backend"
)

// settle sleeps for the controller's configured settling delay, or
// returns immediately if ctx is done first — §4.5's "fixed 100ms settling
// delay after any reload_all call".
func (c *Controller) settle(ctx context.Context) {
	if c.settleDelay <= 0 {
		return
	}
	timer := time.NewTimer(c.settleDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (c *Controller) reloadAll(ctx context.Context, be backend.Backend, node string) error {
	return c.breakers.call(node, func() error {
		return withRetry(ctx, func() error { return be.ReloadAll(ctx, node) })
	})
}

func (c *Controller) start(ctx context.Context, be backend.Backend, node, workloadID string) error {
	return c.breakers.call(node, func() error {
		return withRetry(ctx, func() error { return be.Start(ctx, workloadID, node) })
	})
}

func (c *Controller) stop(ctx context.Context, be backend.Backend, node, workloadID string) error {
	return c.breakers.call(node, func() error {
		return withRetry(ctx, func() error { return be.Stop(ctx, workloadID, node) })
	})
}

// startWithRetry exposes start for the reconcile path, which issues only
// the idempotent start operation (§4.5's "contract that the reconciler
// calls only idempotent backend operations").
func (c *Controller) startWithRetry(ctx context.Context, be backend.Backend, node, workloadID string) error {
	return c.start(ctx, be, node, workloadID)
}

// reloadThenStart implements the `launch` sequence.
func (c *Controller) reloadThenStart(ctx context.Context, be backend.Backend, node, workloadID string) error {
	if err := c.reloadAll(ctx, be, node); err != nil {
		return err
	}
	c.settle(ctx)
	return c.start(ctx, be, node, workloadID)
}

// reloadThenStop implements the `terminate` sequence.
func (c *Controller) reloadThenStop(ctx context.Context, be backend.Backend, node, workloadID string) error {
	if err := c.reloadAll(ctx, be, node); err != nil {
		return err
	}
	c.settle(ctx)
	return c.stop(ctx, be, node, workloadID)
}

// reloadStopReloadStart implements the `update`/`rollback` sequence:
// reload_all -> stop -> reload_all -> start.
func (c *Controller) reloadStopReloadStart(ctx context.Context, be backend.Backend, node, workloadID string) error {
	if err := c.reloadAll(ctx, be, node); err != nil {
		return err
	}
	c.settle(ctx)
	if err := c.stop(ctx, be, node, workloadID); err != nil {
		return err
	}
	if err := c.reloadAll(ctx, be, node); err != nil {
		return err
	}
	c.settle(ctx)
	return c.start(ctx, be, node, workloadID)
}
