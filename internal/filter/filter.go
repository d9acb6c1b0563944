// Package filter implements the Filter Engine (§4.4): one live Filter per
// active Scenario with a condition, signal-topic routing, predicate
// evaluation, and action-trigger emission on a held condition.
package filter

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"piccolo/internal/artifact"
	"piccolo/internal/signal"
	"piccolo/internal/statemachine"

	"piccolo/pkg/logging"
)

// Trigger is the action controller's entry point a satisfied Filter calls.
// Kept as an interface so this package never imports internal/action.
type Trigger interface {
	Trigger(ctx context.Context, scenarioName string) error
}

// TransitionIDFunc generates a fresh transition_id for the idle->waiting
// state change a Filter emits on success.
type TransitionIDFunc func() string

// Clock returns the current time as nanoseconds, injected so tests can
// control timestamp_ns deterministically.
type Clock func() int64

// filterEntry is one engine-owned Filter instance.
type filterEntry struct {
	scenario *artifact.Scenario
	active   bool
}

// Engine owns the live Filter collection and the signal routing table.
type Engine struct {
	mu      sync.Mutex // single-writer lock over filters (§4.4's concurrency note)
	filters map[string]*filterEntry

	machine    *statemachine.Machine
	trigger    Trigger
	decoder    *signal.TypeRegistry
	newTransID TransitionIDFunc
	now        Clock
}

// New builds a Filter Engine. machine receives the idle->waiting state
// change a satisfied Filter emits; trigger is called with the scenario
// name once a condition holds.
func New(machine *statemachine.Machine, trigger Trigger, decoder *signal.TypeRegistry, newTransID TransitionIDFunc, now Clock) *Engine {
	return &Engine{
		filters:    make(map[string]*filterEntry),
		machine:    machine,
		trigger:    trigger,
		decoder:    decoder,
		newTransID: newTransID,
		now:        now,
	}
}

// Launch installs a Filter for scenario. If the scenario has no condition
// it fires immediately instead (fire-and-forget, no Filter is created).
// Launching an already-installed scenario is a no-op.
func (e *Engine) Launch(ctx context.Context, scenario *artifact.Scenario) error {
	if scenario.Unconditional() {
		return e.trigger.Trigger(ctx, scenario.Name)
	}

	e.mu.Lock()
	_, exists := e.filters[scenario.Name]
	if !exists {
		e.filters[scenario.Name] = &filterEntry{scenario: scenario, active: true}
	}
	e.mu.Unlock()
	return nil
}

// Pause marks an installed Filter inactive without removing it.
func (e *Engine) Pause(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if f, ok := e.filters[name]; ok {
		f.active = false
	}
}

// Resume reactivates a paused Filter.
func (e *Engine) Resume(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if f, ok := e.filters[name]; ok {
		f.active = true
	}
}

// Remove uninstalls a Filter. Removing an absent scenario is a no-op.
func (e *Engine) Remove(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.filters, name)
}

// Dispatch routes a raw signal payload received on topic, tagged with
// tag, to every active Filter subscribed to that topic, evaluating each
// one's predicate and triggering its scenario's action on success.
func (e *Engine) Dispatch(ctx context.Context, tag, topic string, raw []byte) {
	rec, err := e.decoder.Decode(tag, topic, raw)
	if err != nil {
		logging.Warn("FilterEngine", "failed to decode signal on topic %s: %v", topic, err)
		return
	}

	e.mu.Lock()
	matching := make([]*artifact.Scenario, 0)
	for _, f := range e.filters {
		if !f.active {
			continue
		}
		if f.scenario.Condition.Operand.Value != topic {
			continue
		}
		matching = append(matching, f.scenario)
	}
	e.mu.Unlock()

	for _, s := range matching {
		e.evaluate(ctx, s, rec)
	}
}

func (e *Engine) evaluate(ctx context.Context, s *artifact.Scenario, rec signal.Record) {
	held, ok := evaluateCondition(s.Condition, rec)
	if !ok || !held {
		return
	}

	if e.machine != nil {
		err := e.machine.Apply(ctx, statemachine.StateChange{
			ResourceType: statemachine.ResourceScenario,
			ResourceName: s.Name,
			CurrentState: statemachine.ScenarioIdle,
			TargetState:  statemachine.ScenarioWaiting,
			TransitionID: e.newTransID(),
			TimestampNano: e.now(),
			Source:       "filter-engine",
		})
		if err != nil && !statemachine.IsConcurrentModification(err) {
			logging.Warn("FilterEngine", "failed to record idle->waiting for %s: %v", s.Name, err)
		}
	}

	if err := e.trigger.Trigger(ctx, s.Name); err != nil {
		logging.Warn("FilterEngine", "trigger failed for scenario %s: %v", s.Name, err)
	}
}

// evaluateCondition reports (held, ok). ok is false when the field is
// missing, the expression is unknown, or a numeric parse fails — all of
// which are logged and treated as "condition not met", never as an error
// surfaced to the caller.
func evaluateCondition(c *artifact.Condition, rec signal.Record) (held bool, ok bool) {
	fieldValue, present := rec.Fields[c.Operand.Name]
	if !present {
		logging.Debug("FilterEngine", "field %q absent from record on topic %s", c.Operand.Name, rec.Topic)
		return false, false
	}

	switch c.Express {
	case artifact.ExpressEq:
		return strings.EqualFold(fieldValue, c.Value), true
	case artifact.ExpressLt, artifact.ExpressLe, artifact.ExpressGe, artifact.ExpressGt:
		lhs, err := strconv.ParseFloat(fieldValue, 32)
		if err != nil {
			logging.Debug("FilterEngine", "field %q value %q is not numeric: %v", c.Operand.Name, fieldValue, err)
			return false, false
		}
		rhs, err := strconv.ParseFloat(c.Value, 32)
		if err != nil {
			logging.Debug("FilterEngine", "condition value %q is not numeric: %v", c.Value, err)
			return false, false
		}
		switch c.Express {
		case artifact.ExpressLt:
			return lhs < rhs, true
		case artifact.ExpressLe:
			return lhs <= rhs, true
		case artifact.ExpressGe:
			return lhs >= rhs, true
		case artifact.ExpressGt:
			return lhs > rhs, true
		}
	}

	logging.Warn("FilterEngine", "unknown expression %q", c.Express)
	return false, false
}
