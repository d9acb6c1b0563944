// Package runtime is the top-level glue (§4.7, §5): the Scenario
// Activation Pipeline connecting artifact ingestion to Filter
// installation, and the Supervisor that starts/stops every long-running
// unit the daemon owns the way muster's orchestrator drives its service
// registry — one goroutine per unit, failures logged and isolated rather
// than aborting the whole process.
package runtime

import (
	"context"
	"sync"

	"piccolo/internal/artifact"
	"piccolo/internal/statemachine"

	"piccolo/pkg/logging"
)

// Launcher is the filter engine's activation surface the Supervisor
// drives. Kept as an interface so this package never imports
// internal/filter's concrete Engine type directly.
type Launcher interface {
	Launch(ctx context.Context, scenario *artifact.Scenario) error
	Remove(name string)
}

// Repository is the subset of artifact.Repository the activation
// pipeline needs.
type Repository interface {
	ListScenarios(ctx context.Context) ([]artifact.Scenario, error)
	GetScenario(ctx context.Context, name string) (*artifact.Scenario, error)
}

// Supervisor is the Scenario Activation Pipeline: it turns allow/withdraw
// requests and cold-start recovery into Filter installation, and doubles
// as the process's Task runner for every other long-running unit (the
// HTTP gateway listener, the fs store watch).
type Supervisor struct {
	repo       Repository
	launcher   Launcher
	machine    *statemachine.Machine
	subscriber SignalSubscriber

	tasks []Task

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewSupervisor builds a Supervisor. subscriber may be NoopSubscriber{}
// when no signal transport is wired.
func NewSupervisor(repo Repository, launcher Launcher, machine *statemachine.Machine, subscriber SignalSubscriber) *Supervisor {
	return &Supervisor{repo: repo, launcher: launcher, machine: machine, subscriber: subscriber}
}

// AddTask registers a long-running unit to be started by Start and
// stopped by Stop, alongside the activation pipeline itself.
func (s *Supervisor) AddTask(t Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, t)
}

// Allow implements §4.7's `allow` action: ensure a signal subscription
// for the scenario's topic (a no-op for unconditional scenarios, which
// have no operand to subscribe on), then install its Filter. A duplicate
// allow is itself a no-op, since Launch/Launch on an already-installed
// Filter is idempotent.
func (s *Supervisor) Allow(ctx context.Context, scenarioName string) error {
	scenario, err := s.repo.GetScenario(ctx, scenarioName)
	if err != nil {
		return err
	}

	if !scenario.Unconditional() {
		if err := s.subscriber.Subscribe(ctx, scenario.Condition.Operand.Value); err != nil {
			logging.Warn("ScenarioActivation", "subscribe failed for scenario %s: %v", scenarioName, err)
		}
	}

	return s.launcher.Launch(ctx, scenario)
}

// Withdraw implements §4.7's `withdraw` action: unsubscribe, then remove
// the Filter. Withdrawing an unknown scenario succeeds trivially, since
// both steps are no-ops on an absent entry.
func (s *Supervisor) Withdraw(ctx context.Context, scenarioName string) error {
	if err := s.subscriber.Unsubscribe(ctx, scenarioName); err != nil {
		logging.Warn("ScenarioActivation", "unsubscribe failed for scenario %s: %v", scenarioName, err)
	}
	s.launcher.Remove(scenarioName)
	return nil
}

// ColdStart reads every Scenario in the store and re-activates the ones
// whose recorded state shows they were previously allowed: a Scenario
// that has never left its initial idle state was never allowed and is
// skipped, since re-launching it would be activating a Scenario no
// operator ever requested. Subscription failures are logged but never
// prevent other scenarios from starting.
func (s *Supervisor) ColdStart(ctx context.Context) error {
	scenarios, err := s.repo.ListScenarios(ctx)
	if err != nil {
		return err
	}

	for i := range scenarios {
		scenario := scenarios[i]
		current, err := s.machine.Current(ctx, statemachine.ResourceScenario, scenario.Name)
		if err != nil {
			logging.Warn("ScenarioActivation", "cold start: failed to read state for %s: %v", scenario.Name, err)
			continue
		}
		if current == statemachine.ScenarioIdle {
			continue // never allowed; nothing to recover
		}

		if !scenario.Unconditional() {
			if err := s.subscriber.Subscribe(ctx, scenario.Condition.Operand.Value); err != nil {
				logging.Warn("ScenarioActivation", "cold start: subscribe failed for %s: %v", scenario.Name, err)
			}
		}
		if err := s.launcher.Launch(ctx, &scenario); err != nil {
			logging.Warn("ScenarioActivation", "cold start: launch failed for %s: %v", scenario.Name, err)
		}
	}
	return nil
}

// Start runs ColdStart and then every registered Task concurrently. A
// Task failing to start is logged, not fatal to its siblings — the same
// independence the action controller's per-model dispatch preserves.
func (s *Supervisor) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	tasks := make([]Task, len(s.tasks))
	copy(tasks, s.tasks)
	s.mu.Unlock()

	if err := s.ColdStart(runCtx); err != nil {
		logging.Warn("Supervisor", "cold start failed: %v", err)
	}

	for _, t := range tasks {
		go func(t Task) {
			if err := t.Start(runCtx); err != nil {
				logging.Warn("Supervisor", "task %s exited: %v", t.Name(), err)
			}
		}(t)
	}
	return nil
}

// Stop cancels the run context and stops every registered Task
// concurrently, waiting for all of them before returning.
func (s *Supervisor) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	tasks := make([]Task, len(s.tasks))
	copy(tasks, s.tasks)
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	var wg sync.WaitGroup
	for _, t := range tasks {
		wg.Add(1)
		go func(t Task) {
			defer wg.Done()
			if err := t.Stop(ctx); err != nil {
				logging.Warn("Supervisor", "task %s failed to stop: %v", t.Name(), err)
			}
		}(t)
	}
	wg.Wait()
	return nil
}
