package action

import (
	"errors"
	"fmt"
)

// ErrorKind enumerates trigger()/reconcile() failure modes (§4.5).
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrInvalidArgument
	ErrNotFound
	ErrInvalidFormat
	ErrBackendUnavailable
	ErrBackendTimeout
)

// Error is the typed error this package returns.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newErr(kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func kindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrUnknown
}

func IsInvalidArgument(err error) bool    { return kindOf(err) == ErrInvalidArgument }
func IsNotFound(err error) bool           { return kindOf(err) == ErrNotFound }
func IsInvalidFormat(err error) bool      { return kindOf(err) == ErrInvalidFormat }
func IsBackendUnavailable(err error) bool { return kindOf(err) == ErrBackendUnavailable }
func IsBackendTimeout(err error) bool     { return kindOf(err) == ErrBackendTimeout }
