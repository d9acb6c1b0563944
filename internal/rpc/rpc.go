// Package rpc defines the trigger/reconcile/state-change request-response
// contract of §6 as plain Go types and a Service interface. The wire
// transport (gRPC) is an explicit non-goal; this package is transport-
// agnostic so a future transport can sit on top of it without
// duplicating the contract. The httpgw artifact gateway does not use it.
package rpc

import (
	"context"
	"time"

	"piccolo/internal/statemachine"
)

// Code is the transport-neutral status code every response carries,
// mirroring gRPC's canonical codes closely enough to map onto them
// without inventing a parallel taxonomy.
type Code int

const (
	CodeOK Code = iota
	CodeNotFound
	CodeInvalidArgument
	CodeDeadlineExceeded
	CodeUnavailable
	CodeInternal
	CodeUnknown
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeNotFound:
		return "NotFound"
	case CodeInvalidArgument:
		return "InvalidArgument"
	case CodeDeadlineExceeded:
		return "DeadlineExceeded"
	case CodeUnavailable:
		return "Unavailable"
	case CodeInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// TriggerRequest asks the runtime to fire a named Scenario's Action.
type TriggerRequest struct {
	ScenarioName string `json:"scenario_name"`
}

// TriggerResponse carries the trigger outcome.
type TriggerResponse struct {
	Code        Code   `json:"code"`
	Description string `json:"description"`
}

// ReconcileRequest asks the runtime to reconcile a resource toward a
// desired state. Current/Desired are the wire integer encoding named in
// §6 (0 none .. 5 failed); DecodeWireState decodes them into statemachine.State.
type ReconcileRequest struct {
	ScenarioName string `json:"scenario_name"`
	Current      int    `json:"current"`
	Desired      int    `json:"desired"`
}

// ReconcileResponse carries the reconcile outcome.
type ReconcileResponse struct {
	Code        Code   `json:"code"`
	Description string `json:"description"`
}

// StateChangeRequest is the wire shape of a statemachine.StateChange.
type StateChangeRequest struct {
	ResourceType  string `json:"resource_type"`
	ResourceName  string `json:"resource_name"`
	CurrentState  string `json:"current_state"`
	TargetState   string `json:"target_state"`
	TransitionID  string `json:"transition_id"`
	TimestampNano int64  `json:"timestamp_ns"`
	Source        string `json:"source"`
}

// StateChangeResponse carries the server's acceptance timestamp and the
// state actually applied.
type StateChangeResponse struct {
	Code          Code   `json:"code"`
	Description   string `json:"description"`
	AcceptedNano  int64  `json:"accepted_ns"`
	AppliedState  string `json:"applied_state"`
}

// Service is the in-process surface a transport adapter (such as a future
// gRPC binding) is built on top of; the httpgw artifact gateway is not.
type Service interface {
	Trigger(ctx context.Context, req TriggerRequest) TriggerResponse
	Reconcile(ctx context.Context, req ReconcileRequest) ReconcileResponse
	ApplyStateChange(ctx context.Context, req StateChangeRequest) StateChangeResponse
}

// stateByWireInt is §6's integer encoding of resource-type-generic
// lifecycle states, shared across Scenario/Package/Model since the wire
// contract is untyped by resource.
var stateByWireInt = map[int]statemachine.State{
	0: statemachine.StateNone,
	1: statemachine.ModelInit,
	2: statemachine.ModelReady,
	3: statemachine.ModelRunning,
	4: statemachine.ModelDone,
	5: statemachine.StateFailed,
}

// DecodeWireState maps §6's integer state encoding to a statemachine.State,
// or StateUnknown for anything out of range.
func DecodeWireState(n int) statemachine.State {
	if s, ok := stateByWireInt[n]; ok {
		return s
	}
	return statemachine.StateUnknown
}

func nowUnixNano(clock func() int64) int64 {
	if clock != nil {
		return clock()
	}
	return time.Now().UnixNano()
}
