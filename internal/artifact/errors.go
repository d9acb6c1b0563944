package artifact

import (
	"errors"
	"fmt"
)

// ErrorKind distinguishes the bundle-validation failure modes named in
// §4.2, plus the generic kinds every other component maps to RPC codes.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrMissingScenario
	ErrMissingPackage
	ErrDanglingReference
	ErrInvalidArgument
	ErrNotFound
)

// Error is the typed error the artifact package returns. Callers use the
// Is* predicates below rather than comparing strings.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newErr(kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// IsMissingScenario reports whether err is a MissingScenario validation failure.
func IsMissingScenario(err error) bool { return kindOf(err) == ErrMissingScenario }

// IsMissingPackage reports whether err is a MissingPackage validation failure.
func IsMissingPackage(err error) bool { return kindOf(err) == ErrMissingPackage }

// IsDanglingReference reports whether err is a DanglingReference validation failure.
func IsDanglingReference(err error) bool { return kindOf(err) == ErrDanglingReference }

// IsNotFound reports whether err is a NotFound lookup failure.
func IsNotFound(err error) bool { return kindOf(err) == ErrNotFound }

// IsInvalidArgument reports whether err is an InvalidArgument failure.
func IsInvalidArgument(err error) bool { return kindOf(err) == ErrInvalidArgument }

func kindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrUnknown
}
