package backend

import (
	"context"
	"fmt"

	dbus "github.com/coreos/go-systemd/v22/dbus"
)

// BluechiBackend drives a node's systemd-unit-based fleet manager over
// D-Bus. It speaks the go-systemd unit-management API; "ControllerReloadAllNodes"
// is realized as the node's systemd-manager reload, the local analogue of
// bluechi's controller-wide reload broadcast.
type BluechiBackend struct {
	dial   func(ctx context.Context) (*dbus.Conn, error)
	dialer Dialer
}

// NewBluechiBackend builds a backend that dials the system D-Bus on every
// call. Production wiring passes dbus.NewSystemConnectionContext; tests
// substitute a fake dialer. Every dial and RPC is bounded by the §5
// defaults (DefaultDialer).
func NewBluechiBackend(dial func(ctx context.Context) (*dbus.Conn, error)) *BluechiBackend {
	return &BluechiBackend{dial: dial, dialer: DefaultDialer()}
}

func (b *BluechiBackend) Kind() string { return "bluechi" }

func (b *BluechiBackend) connect(ctx context.Context, node string) (*dbus.Conn, error) {
	connectCtx, cancel := b.dialer.WithConnectTimeout(ctx)
	defer cancel()

	conn, err := b.dial(connectCtx)
	if err != nil {
		if connectCtx.Err() != nil {
			return nil, &TimeoutError{Node: node, Op: "connect"}
		}
		return nil, fmt.Errorf("bluechi backend: dial %s: %w", node, err)
	}
	return conn, nil
}

func (b *BluechiBackend) Start(ctx context.Context, workloadID, node string) error {
	conn, err := b.connect(ctx, node)
	if err != nil {
		return err
	}
	defer conn.Close()

	callCtx, cancel := b.dialer.WithCallTimeout(ctx)
	defer cancel()

	statusCh := make(chan string, 1)
	if _, err := conn.StartUnitContext(callCtx, workloadID, "replace", statusCh); err != nil {
		if callCtx.Err() != nil {
			return &TimeoutError{Node: node, Op: "UnitStart"}
		}
		return fmt.Errorf("bluechi backend: UnitStart %s on %s: %w", workloadID, node, err)
	}
	return awaitJob(callCtx, statusCh, "UnitStart", workloadID, node)
}

func (b *BluechiBackend) Stop(ctx context.Context, workloadID, node string) error {
	conn, err := b.connect(ctx, node)
	if err != nil {
		return err
	}
	defer conn.Close()

	callCtx, cancel := b.dialer.WithCallTimeout(ctx)
	defer cancel()

	statusCh := make(chan string, 1)
	if _, err := conn.StopUnitContext(callCtx, workloadID, "replace", statusCh); err != nil {
		if callCtx.Err() != nil {
			return &TimeoutError{Node: node, Op: "UnitStop"}
		}
		return fmt.Errorf("bluechi backend: UnitStop %s on %s: %w", workloadID, node, err)
	}
	return awaitJob(callCtx, statusCh, "UnitStop", workloadID, node)
}

func (b *BluechiBackend) ReloadAll(ctx context.Context, node string) error {
	conn, err := b.connect(ctx, node)
	if err != nil {
		return err
	}
	defer conn.Close()

	callCtx, cancel := b.dialer.WithCallTimeout(ctx)
	defer cancel()

	if err := conn.ReloadContext(callCtx); err != nil {
		if callCtx.Err() != nil {
			return &TimeoutError{Node: node, Op: "ControllerReloadAllNodes"}
		}
		return fmt.Errorf("bluechi backend: ControllerReloadAllNodes on %s: %w", node, err)
	}
	return nil
}

func awaitJob(ctx context.Context, statusCh <-chan string, op, workloadID, node string) error {
	select {
	case status := <-statusCh:
		if status != "done" {
			return fmt.Errorf("bluechi backend: %s %s on %s finished with status %q", op, workloadID, node, status)
		}
		return nil
	case <-ctx.Done():
		return &TimeoutError{Node: node, Op: op}
	}
}
