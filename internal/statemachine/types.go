// Package statemachine implements the Resource State Machine & Reconciler
// (§4.3): the single writer of authoritative latest state for every
// (resource_type, resource_name), its transition graphs, and the
// append-only history log.
package statemachine

import "piccolo/internal/store"

// ResourceType re-exports store.ResourceType so callers of this package
// never need to import internal/store directly for the enum.
type ResourceType = store.ResourceType

const (
	ResourceScenario = store.ResourceScenario
	ResourcePackage  = store.ResourcePackage
	ResourceModel    = store.ResourceModel
)

// State is a resource's lifecycle state string, canonical per §4.3's
// state tables.
type State string

const (
	// Scenario states.
	ScenarioIdle      State = "idle"
	ScenarioWaiting   State = "waiting"
	ScenarioSatisfied State = "satisfied"
	ScenarioAllowed   State = "allowed"
	ScenarioDenied    State = "denied"
	ScenarioCompleted State = "completed"
	ScenarioError     State = "error"

	// Package states.
	PackagePending  State = "pending"
	PackageUpdating State = "updating"
	PackageRunning  State = "running"
	PackageFailed   State = "failed"

	// Model states.
	ModelInit    State = "init"
	ModelReady   State = "ready"
	ModelRunning State = "running"
	ModelDone    State = "done"
	ModelFailed  State = "failed"

	// Sentinel states reconcile() rejects as ill-formed driver input.
	StateNone    State = "none"
	StateFailed  State = PackageFailed
	StateUnknown State = "unknown"
)

// StateChange is the append-only history record and apply() input,
// mirroring §3's StateChangeRecord.
type StateChange struct {
	ResourceType  ResourceType `json:"resource_type"`
	ResourceName  string       `json:"resource_name"`
	CurrentState  State        `json:"current_state"`
	TargetState   State        `json:"target_state"`
	TransitionID  string       `json:"transition_id"`
	TimestampNano int64        `json:"timestamp_ns"`
	Source        string       `json:"source"`
}
