package runtime

import (
	"context"

	"piccolo/pkg/logging"
)

// SignalSubscriber manages the transport-level subscription a Scenario's
// condition needs. The DDS wire transport itself is out of scope (§6's
// "wire type negotiation is delegated to the transport"); this interface
// is the seam a concrete transport binds into.
type SignalSubscriber interface {
	Subscribe(ctx context.Context, topic string) error
	Unsubscribe(ctx context.Context, topic string) error
}

// NoopSubscriber satisfies SignalSubscriber for unconditional-only
// deployments and for tests: it logs and succeeds trivially. A real
// deployment supplies a transport-backed SignalSubscriber instead.
type NoopSubscriber struct{}

func (NoopSubscriber) Subscribe(_ context.Context, topic string) error {
	logging.Debug("ScenarioActivation", "no-op subscribe to topic %q", topic)
	return nil
}

func (NoopSubscriber) Unsubscribe(_ context.Context, topic string) error {
	logging.Debug("ScenarioActivation", "no-op unsubscribe from topic %q", topic)
	return nil
}
