package rpc

import (
	"context"

	"piccolo/internal/statemachine"
	"piccolo/internal/store"

	"piccolo/pkg/logging"
)

// Trigger is the subset of action.Controller the Server needs to drive
// scenario triggers.
type Trigger interface {
	Trigger(ctx context.Context, scenarioName string) error
}

// Reconciler mirrors action.Controller's Reconcile method so Server
// never needs to import the action package directly.
type Reconciler interface {
	Reconcile(ctx context.Context, resourceType statemachine.ResourceType, resourceName string, current, desired statemachine.State) error
}

// Server implements Service over an injected trigger/reconciler pair and
// the authoritative Machine, so ApplyStateChange goes through the same
// CAS/transition-graph checks any other caller does.
type Server struct {
	trigger    Trigger
	reconciler Reconciler
	machine    *statemachine.Machine
	newTransID func() string
	clock      func() int64
}

// NewServer builds a Server. clock may be nil to use time.Now. newTransID
// fills in a blank transition_id; when it is nil a blank transition_id is
// passed through and the Machine rejects it.
func NewServer(trigger Trigger, reconciler Reconciler, machine *statemachine.Machine, newTransID func() string, clock func() int64) *Server {
	return &Server{trigger: trigger, reconciler: reconciler, machine: machine, newTransID: newTransID, clock: clock}
}

func (s *Server) Trigger(ctx context.Context, req TriggerRequest) TriggerResponse {
	err := s.trigger.Trigger(ctx, req.ScenarioName)
	if err != nil {
		logging.Warn("RPC", "trigger(%s) failed: %v", req.ScenarioName, err)
		return TriggerResponse{Code: ToRPCCode(err), Description: err.Error()}
	}
	return TriggerResponse{Code: CodeOK, Description: "Action triggered successfully"}
}

func (s *Server) Reconcile(ctx context.Context, req ReconcileRequest) ReconcileResponse {
	current := DecodeWireState(req.Current)
	desired := DecodeWireState(req.Desired)
	if current == desired {
		return ReconcileResponse{Code: CodeOK, Description: "Current and desired states are equal"}
	}

	err := s.reconciler.Reconcile(ctx, statemachine.ResourceScenario, req.ScenarioName, current, desired)
	if err != nil {
		logging.Warn("RPC", "reconcile(%s, %s -> %s) failed: %v", req.ScenarioName, current, desired, err)
		return ReconcileResponse{Code: ToRPCCode(err), Description: err.Error()}
	}
	return ReconcileResponse{Code: CodeOK, Description: "reconciled"}
}

func (s *Server) ApplyStateChange(ctx context.Context, req StateChangeRequest) StateChangeResponse {
	resourceType := store.ParseResourceType(req.ResourceType)
	if resourceType == store.ResourceUnknown {
		return StateChangeResponse{Code: CodeInvalidArgument, Description: "unknown resource_type " + req.ResourceType}
	}

	change := statemachine.StateChange{
		ResourceType:  resourceType,
		ResourceName:  req.ResourceName,
		CurrentState:  statemachine.State(req.CurrentState),
		TargetState:   statemachine.State(req.TargetState),
		TransitionID:  req.TransitionID,
		TimestampNano: req.TimestampNano,
		Source:        req.Source,
	}
	if change.TransitionID == "" && s.newTransID != nil {
		change.TransitionID = s.newTransID()
	}
	if change.TimestampNano == 0 {
		change.TimestampNano = nowUnixNano(s.clock)
	}

	accepted := nowUnixNano(s.clock)
	if err := s.machine.Apply(ctx, change); err != nil {
		return StateChangeResponse{Code: ToRPCCode(err), Description: err.Error(), AcceptedNano: accepted}
	}
	return StateChangeResponse{
		Code:         CodeOK,
		Description:  "applied",
		AcceptedNano: accepted,
		AppliedState: string(change.TargetState),
	}
}
