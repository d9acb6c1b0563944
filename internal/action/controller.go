// Package action implements the Action Controller & Runtime Dispatcher
// (§4.5): trigger/reconcile, per-node backend resolution, retry/circuit
// breaking, and per-model independent failure semantics.
package action

import (
	"context"
	"fmt"
	"sync"
	"time"

	"piccolo/internal/api"
	"piccolo/internal/artifact"
	"piccolo/internal/backend"
	"piccolo/internal/statemachine"

	"piccolo/pkg/logging"

	"golang.org/x/sync/errgroup"
)

// Repository is the subset of artifact.Repository the controller needs.
type Repository interface {
	GetScenario(ctx context.Context, name string) (*artifact.Scenario, error)
	GetPackage(ctx context.Context, name string) (*artifact.Package, error)
	GetNode(ctx context.Context, name string) (*artifact.Node, error)
}

// BackendResolver resolves a node name to the Backend that should drive it.
type BackendResolver interface {
	Resolve(ctx context.Context, nodes backend.NodeRepository, nodeName string) backend.Backend
}

// TransitionIDFunc and Clock mirror the filter package's injected
// nondeterminism seams.
type TransitionIDFunc func() string
type Clock func() int64

// Controller is the Action Controller & Runtime Dispatcher.
type Controller struct {
	repo     Repository
	machine  *statemachine.Machine
	backends BackendResolver

	breakers    *breakerPool
	settleDelay time.Duration

	newTransID TransitionIDFunc
	now        Clock
}

// SettlingDelay is the fixed delay §4.5 inserts after any reload_all call,
// a protocol concession to the backend's asynchronous reload semantics.
const SettlingDelay = 100 * time.Millisecond

// New builds a Controller. Pass SettlingDelay in production; tests may
// pass 0 to run synchronously.
func New(repo Repository, machine *statemachine.Machine, backends BackendResolver, newTransID TransitionIDFunc, now Clock, settleDelay time.Duration) *Controller {
	return &Controller{
		repo:        repo,
		machine:     machine,
		backends:    backends,
		breakers:    newBreakerPool(),
		settleDelay: settleDelay,
		newTransID:  newTransID,
		now:         now,
	}
}

// Trigger loads scenario, publishes its waiting->satisfied transition,
// loads its target Package, and dispatches one independent runtime
// sequence per model. A per-model failure never aborts its siblings; the
// aggregate per-model outcome is returned as a ModelErrors map.
func (c *Controller) Trigger(ctx context.Context, scenarioName string) error {
	if scenarioName == "" {
		return newErr(ErrInvalidArgument, "scenario_name must not be empty")
	}

	scenario, err := c.repo.GetScenario(ctx, scenarioName)
	if err != nil {
		return mapArtifactErr(err, "scenario", scenarioName)
	}

	if err := c.publishScenarioTransition(ctx, scenarioName, statemachine.ScenarioSatisfied); err != nil {
		logging.Warn("ActionController", "failed to record waiting->satisfied for %s: %v", scenarioName, err)
	}

	pkg, err := c.repo.GetPackage(ctx, scenario.Target)
	if err != nil {
		return mapArtifactErr(err, "package", scenario.Target)
	}

	return c.dispatchAll(ctx, scenario.Action, pkg)
}

// Reconcile loads Scenario and Package as Trigger does, and for each model
// whose desired state is "running" issues a start. Only idempotent backend
// operations are used, per §4.5's forward-compatibility contract.
func (c *Controller) Reconcile(ctx context.Context, resourceType statemachine.ResourceType, resourceName string, current, desired statemachine.State) error {
	scenario, err := c.repo.GetScenario(ctx, resourceName)
	if err != nil {
		return mapArtifactErr(err, "scenario", resourceName)
	}
	pkg, err := c.repo.GetPackage(ctx, scenario.Target)
	if err != nil {
		return mapArtifactErr(err, "package", scenario.Target)
	}
	if desired != statemachine.ModelRunning {
		return nil // "running" is the only desired state that issues work (§4.5)
	}

	var g errgroup.Group
	for _, modelRef := range pkg.Models {
		modelRef := modelRef
		g.Go(func() error {
			be := c.backends.Resolve(ctx, c.repo, modelRef.Node)
			if be == nil {
				logging.Warn("ActionController", "reconcile: skipping model %s, node %s unclassified", modelRef.Name, modelRef.Node)
				return nil
			}
			workloadID := backend.WorkloadID(modelRef.Name)
			if err := c.startWithRetry(ctx, be, modelRef.Node, workloadID); err != nil {
				logging.Warn("ActionController", "reconcile: start failed for %s on %s: %v", workloadID, modelRef.Node, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return nil
}

// ModelErrors aggregates per-model dispatch outcomes. A nil entry means
// that model's sequence completed successfully.
type ModelErrors map[string]error

// Error implements error so a Trigger caller can propagate the aggregate
// as a single value while still inspecting individual model failures.
func (m ModelErrors) Error() string {
	count := 0
	for _, err := range m {
		if err != nil {
			count++
		}
	}
	return formatModelErrors(count, len(m))
}

// HasFailures reports whether any model failed.
func (m ModelErrors) HasFailures() bool {
	for _, err := range m {
		if err != nil {
			return true
		}
	}
	return false
}

func (c *Controller) dispatchAll(ctx context.Context, act artifact.Action, pkg *artifact.Package) error {
	var mu sync.Mutex
	outcomes := make(ModelErrors, len(pkg.Models))

	var g errgroup.Group
	for _, modelRef := range pkg.Models {
		modelRef := modelRef
		g.Go(func() error {
			err := c.dispatchModel(ctx, act, modelRef)
			mu.Lock()
			outcomes[modelRef.Name] = err
			mu.Unlock()
			return nil // independence: never cancel siblings via errgroup
		})
	}
	_ = g.Wait()

	if outcomes.HasFailures() {
		return outcomes
	}
	return nil
}

func (c *Controller) dispatchModel(ctx context.Context, act artifact.Action, modelRef artifact.ModelRef) error {
	be := c.backends.Resolve(ctx, c.repo, modelRef.Node)
	if be == nil {
		logging.Warn("ActionController", "skipping model %s: node %s has no classified backend", modelRef.Name, modelRef.Node)
		return nil
	}

	if modelRef.Resources.Network != "" && modelRef.Node != "" {
		if prov := api.GetNetworkProvisioner(); prov != nil {
			if err := prov.ProvisionNetwork(ctx, modelRef.Resources.Network, modelRef.Node); err != nil {
				wrapped := newErr(ErrUnknown, "model %s: network provisioning for %s failed: %v", modelRef.Name, modelRef.Resources.Network, err)
				c.recordModelOutcome(ctx, modelRef.Name, act, wrapped)
				return wrapped
			}
		}
	}

	workloadID := backend.WorkloadID(modelRef.Name)
	var dispatchErr error
	switch act {
	case artifact.ActionLaunch:
		dispatchErr = c.reloadThenStart(ctx, be, modelRef.Node, workloadID)
	case artifact.ActionTerminate:
		dispatchErr = c.reloadThenStop(ctx, be, modelRef.Node, workloadID)
	case artifact.ActionUpdate, artifact.ActionRollback:
		dispatchErr = c.reloadStopReloadStart(ctx, be, modelRef.Node, workloadID)
	default:
		return nil // unknown action: ignore silently
	}

	c.recordModelOutcome(ctx, modelRef.Name, act, dispatchErr)
	return dispatchErr
}

func (c *Controller) recordModelOutcome(ctx context.Context, modelName string, act artifact.Action, dispatchErr error) {
	current, err := c.machine.Current(ctx, statemachine.ResourceModel, modelName)
	if err != nil {
		logging.Warn("ActionController", "failed to read current state for model %s: %v", modelName, err)
		return
	}

	var target statemachine.State
	switch {
	case dispatchErr != nil:
		target = statemachine.ModelFailed
	case act == artifact.ActionTerminate:
		target = statemachine.ModelDone
	default:
		target = statemachine.ModelRunning
	}

	err = c.machine.Apply(ctx, statemachine.StateChange{
		ResourceType:  statemachine.ResourceModel,
		ResourceName:  modelName,
		CurrentState:  current,
		TargetState:   target,
		TransitionID:  c.newTransID(),
		TimestampNano: c.now(),
		Source:        "action-controller",
	})
	if err != nil && !statemachine.IsConcurrentModification(err) {
		logging.Warn("ActionController", "failed to record model %s -> %s: %v", modelName, target, err)
	}
}

func (c *Controller) publishScenarioTransition(ctx context.Context, scenarioName string, target statemachine.State) error {
	current, err := c.machine.Current(ctx, statemachine.ResourceScenario, scenarioName)
	if err != nil {
		return err
	}
	return c.machine.Apply(ctx, statemachine.StateChange{
		ResourceType:  statemachine.ResourceScenario,
		ResourceName:  scenarioName,
		CurrentState:  current,
		TargetState:   target,
		TransitionID:  c.newTransID(),
		TimestampNano: c.now(),
		Source:        "action-controller",
	})
}

func mapArtifactErr(err error, resourceType, name string) error {
	switch {
	case artifact.IsNotFound(err):
		return newErr(ErrNotFound, "%s %q not found", resourceType, name)
	case artifact.IsInvalidArgument(err):
		return newErr(ErrInvalidFormat, "%s %q is unparseable: %v", resourceType, name, err)
	default:
		return err
	}
}

func formatModelErrors(failed, total int) string {
	if failed == 0 {
		return "all models dispatched successfully"
	}
	return fmt.Sprintf("%d/%d models failed", failed, total)
}
