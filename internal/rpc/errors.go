package rpc

import (
	"piccolo/internal/action"
	"piccolo/internal/artifact"
	"piccolo/internal/backend"
	"piccolo/internal/statemachine"
)

// ToRPCCode maps any of this repository's typed errors onto the
// transport-neutral Code table from §7: InvalidArgument/NotFound pass
// through by name, BackendTimeout becomes DeadlineExceeded,
// BackendUnavailable becomes Unavailable, and everything else not
// explicitly named in the table is Internal.
func ToRPCCode(err error) Code {
	if err == nil {
		return CodeOK
	}

	switch {
	case artifact.IsNotFound(err), statemachine.IsNotFound(err), action.IsNotFound(err):
		return CodeNotFound
	case artifact.IsInvalidArgument(err), statemachine.IsInvalidArgument(err), action.IsInvalidArgument(err):
		return CodeInvalidArgument
	case action.IsBackendTimeout(err):
		return CodeDeadlineExceeded
	case action.IsBackendUnavailable(err):
		return CodeUnavailable
	case isTimeoutError(err):
		return CodeDeadlineExceeded
	case statemachine.IsConcurrentModification(err), statemachine.IsInvalidTransition(err):
		// Surfaced per §7, but neither maps onto a canonical transport
		// code of its own; the caller distinguishes them from the
		// Description string.
		return CodeInternal
	default:
		return CodeInternal
	}
}

func isTimeoutError(err error) bool {
	_, ok := err.(*backend.TimeoutError)
	return ok
}
