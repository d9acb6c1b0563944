// Package backend implements the Runtime Backend Abstraction (§4.6): a
// polymorphic interface over node-local workload managers, with two
// in-tree variants (bluechi-like systemd fleets, nodeagent-like container
// agents) and dynamic node->backend resolution.
package backend

import (
	"context"
	"time"
)

// Backend is the capability set every runtime backend must implement.
type Backend interface {
	// Start starts workloadID on node.
	Start(ctx context.Context, workloadID, node string) error
	// Stop stops workloadID on node.
	Stop(ctx context.Context, workloadID, node string) error
	// ReloadAll tells node's local manager to reload its full unit/workload set.
	ReloadAll(ctx context.Context, node string) error
	// Kind names the backend family, for logging and error annotation.
	Kind() string
}

// Dialer bounds connect and per-RPC latency the way §5 requires: 5s
// default connect, 1s default per call. Backends use it instead of
// hardcoding context.WithTimeout so the defaults live in exactly one
// place.
type Dialer struct {
	ConnectTimeout time.Duration
	CallTimeout    time.Duration
}

// DefaultDialer returns the §5 defaults.
func DefaultDialer() Dialer {
	return Dialer{ConnectTimeout: 5 * time.Second, CallTimeout: 1 * time.Second}
}

// WithCallTimeout returns a context bounded by d's CallTimeout.
func (d Dialer) WithCallTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.CallTimeout)
}

// WithConnectTimeout returns a context bounded by d's ConnectTimeout.
func (d Dialer) WithConnectTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.ConnectTimeout)
}

// TimeoutError distinguishes a deadline expiry from a connection failure,
// per §5's "Timeouts surface as a typed error distinct from 'connection
// failed'".
type TimeoutError struct {
	Node, Op string
}

func (e *TimeoutError) Error() string {
	return e.Op + " on node " + e.Node + " timed out"
}

// WorkloadID composes the backend-facing identifier for a model, per
// §4.5's "{model_info.name}.service" convention.
func WorkloadID(modelName string) string {
	return modelName + ".service"
}
