package statemachine

import (
	"context"
	"strconv"
	"sync"

	"piccolo/internal/store"

	"piccolo/pkg/logging"
)

// Listener is notified after a StateChange is durably committed, so a
// subscriber can react to state transitions without polling the store.
type Listener func(StateChange)

// Machine is the single writer of authoritative latest state for every
// (resource_type, resource_name). It is safe for concurrent use.
type Machine struct {
	kv      store.KV
	metrics *Metrics

	mu        sync.Mutex // guards resLocks and listeners
	resLocks  map[string]*sync.Mutex
	listeners []Listener
}

// New builds a Machine writing through kv, instrumented with metrics.
func New(kv store.KV, metrics *Metrics) *Machine {
	return &Machine{
		kv:       kv,
		metrics:  metrics,
		resLocks: make(map[string]*sync.Mutex),
	}
}

// Subscribe registers l to be called after every successfully applied
// StateChange, in the order they are applied.
func (m *Machine) Subscribe(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

func (m *Machine) lockFor(resourceType ResourceType, name string) *sync.Mutex {
	key := resourceType.String() + "/" + name
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.resLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		m.resLocks[key] = lock
	}
	return lock
}

// Current returns the authoritative latest state for (resourceType, name),
// or that resource type's initial state if no StateChange has ever been
// applied to it.
func (m *Machine) Current(ctx context.Context, resourceType ResourceType, name string) (State, error) {
	raw, err := m.kv.Get(ctx, store.StateKey(resourceType, name))
	if err != nil {
		if store.IsNotFound(err) {
			return initialState(resourceType), nil
		}
		return "", err
	}
	return State(raw), nil
}

// Apply commits a state change: it must be the fully populated
// StateChangeRecord described in §3, with CurrentState matching the
// resource's actual latest state (or its initial state, for the first
// ever transition on a fresh resource).
func (m *Machine) Apply(ctx context.Context, change StateChange) error {
	if change.ResourceName == "" {
		return newErr(ErrInvalidArgument, "resource_name must not be empty")
	}
	if change.TransitionID == "" {
		return newErr(ErrInvalidArgument, "transition_id must not be empty")
	}

	lock := m.lockFor(change.ResourceType, change.ResourceName)
	lock.Lock()
	defer lock.Unlock()

	if m.metrics != nil {
		m.metrics.recordAttempt(change.ResourceType)
	}

	actual, err := m.Current(ctx, change.ResourceType, change.ResourceName)
	if err != nil {
		return err
	}
	if actual != change.CurrentState {
		if m.metrics != nil {
			m.metrics.recordRejected(change.ResourceType, "concurrent_modification")
		}
		return newErr(ErrConcurrentModification,
			"%s/%s: current_state %q does not match stored state %q",
			change.ResourceType, change.ResourceName, change.CurrentState, actual)
	}

	if !allowed(change.ResourceType, change.CurrentState, change.TargetState) {
		if m.metrics != nil {
			m.metrics.recordRejected(change.ResourceType, "invalid_transition")
		}
		return newErr(ErrInvalidTransition,
			"%s/%s: %s -> %s is not a permitted transition",
			change.ResourceType, change.ResourceName, change.CurrentState, change.TargetState)
	}

	stateKey := store.StateKey(change.ResourceType, change.ResourceName)
	if err := m.kv.Put(ctx, stateKey, []byte(change.TargetState)); err != nil {
		return err
	}

	if err := m.appendHistory(ctx, change); err != nil {
		logging.Warn("StateMachine", "failed to append history for %s/%s: %v", change.ResourceType, change.ResourceName, err)
	}

	if m.metrics != nil {
		m.metrics.recordSuccess(change.ResourceType, change.TargetState)
	}

	logging.Info("StateMachine", "%s/%s: %s -> %s (source=%s, transition=%s)",
		change.ResourceType, change.ResourceName, change.CurrentState, change.TargetState,
		change.Source, change.TransitionID)

	m.notify(change)
	return nil
}

func (m *Machine) notify(change StateChange) {
	m.mu.Lock()
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, l := range listeners {
		l(change)
	}
}

func (m *Machine) appendHistory(ctx context.Context, change StateChange) error {
	seq, err := m.nextHistorySeq(ctx, change.ResourceType, change.ResourceName)
	if err != nil {
		return err
	}
	key := store.HistoryKey(change.ResourceType, change.ResourceName, seq)
	return m.kv.Put(ctx, key, []byte(historyLine(change)))
}

// nextHistorySeq counts existing history entries to pick the next
// sequence number; acceptable because Apply holds the per-resource lock
// for the whole read-then-write.
func (m *Machine) nextHistorySeq(ctx context.Context, resourceType ResourceType, name string) (uint64, error) {
	entries, err := m.kv.ListPrefix(ctx, store.HistoryKeyPrefix(resourceType, name))
	if err != nil {
		return 0, err
	}
	return uint64(len(entries)) + 1, nil
}

func historyLine(change StateChange) string {
	return change.Source + "\t" + string(change.CurrentState) + "\t" + string(change.TargetState) +
		"\t" + change.TransitionID + "\t" + strconv.FormatInt(change.TimestampNano, 10)
}

// History returns every recorded transition for (resourceType, name), in
// the order they were applied.
func (m *Machine) History(ctx context.Context, resourceType ResourceType, name string) ([]StateChange, error) {
	entries, err := m.kv.ListPrefix(ctx, store.HistoryKeyPrefix(resourceType, name))
	if err != nil {
		return nil, err
	}
	out := make([]StateChange, 0, len(entries))
	for _, e := range entries {
		sc, err := parseHistoryLine(resourceType, name, e.Value)
		if err != nil {
			logging.Warn("StateMachine", "skipping corrupt history entry %s: %v", e.Key, err)
			continue
		}
		out = append(out, sc)
	}
	return out, nil
}

func parseHistoryLine(resourceType ResourceType, name string, raw []byte) (StateChange, error) {
	fields := splitTabs(string(raw))
	if len(fields) != 5 {
		return StateChange{}, newErr(ErrInvalidArgument, "malformed history entry")
	}
	ts, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return StateChange{}, err
	}
	return StateChange{
		ResourceType:  resourceType,
		ResourceName:  name,
		Source:        fields[0],
		CurrentState:  State(fields[1]),
		TargetState:   State(fields[2]),
		TransitionID:  fields[3],
		TimestampNano: ts,
	}, nil
}

func splitTabs(s string) []string {
	var fields []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\t' {
			fields = append(fields, s[start:i])
			start = i + 1
		}
	}
	fields = append(fields, s[start:])
	return fields
}

// Reconciler is the action controller's dispatch surface, invoked by
// Reconcile once a (current, desired) pair has been validated. Kept as an
// interface here so this package never imports internal/action directly —
// the state machine is the decider, not the dispatcher (§4.3).
type Reconciler interface {
	Reconcile(ctx context.Context, resourceType ResourceType, resourceName string, current, desired State) error
}

// Reconcile computes whether (resourceName, current, desired) requires any
// runtime work and, if so, forwards the decision to r. Trivially succeeds
// when current == desired; rejects none/failed/unknown as ill-formed
// driver input.
func (m *Machine) Reconcile(ctx context.Context, r Reconciler, resourceType ResourceType, resourceName string, current, desired State) error {
	if current == desired {
		if m.metrics != nil {
			m.metrics.recordReconcile(resourceType, "noop")
		}
		return nil
	}
	if isIllFormed(current) || isIllFormed(desired) {
		if m.metrics != nil {
			m.metrics.recordReconcile(resourceType, "invalid_state")
		}
		return newErr(ErrInvalidState, "reconcile(%s/%s): current=%q desired=%q is ill-formed", resourceType, resourceName, current, desired)
	}

	err := r.Reconcile(ctx, resourceType, resourceName, current, desired)
	if err != nil {
		if m.metrics != nil {
			m.metrics.recordReconcile(resourceType, "failed")
		}
		return err
	}
	if m.metrics != nil {
		m.metrics.recordReconcile(resourceType, "dispatched")
	}
	return nil
}

func isIllFormed(s State) bool {
	return s == StateNone || s == StateFailed || s == StateUnknown || s == ""
}
