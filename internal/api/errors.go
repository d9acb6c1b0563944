// Package api provides the typed errors and in-process handler registry
// shared by components that need an optional, possibly-absent
// collaborator (§9's design note): a NetworkProvisioner is resolved the
// same way muster's internal/api resolves its ToolCaller.
package api

import (
	"errors"
	"fmt"
)

// NotFoundError represents a resource not found error.
type NotFoundError struct {
	ResourceType string
	ResourceName string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.ResourceType, e.ResourceName)
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceName string) *NotFoundError {
	return &NotFoundError{ResourceType: resourceType, ResourceName: resourceName}
}

// IsNotFound checks if err is a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// UnavailableError represents a backend or collaborator that is known but
// currently cannot service requests (e.g. a tripped circuit breaker).
type UnavailableError struct {
	Component string
	Reason    string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %s", e.Component, e.Reason)
}

// NewUnavailableError creates a new UnavailableError.
func NewUnavailableError(component, reason string) *UnavailableError {
	return &UnavailableError{Component: component, Reason: reason}
}

// IsUnavailable checks if err is an UnavailableError.
func IsUnavailable(err error) bool {
	var e *UnavailableError
	return errors.As(err, &e)
}
