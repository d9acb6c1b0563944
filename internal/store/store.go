// Package store implements the abstract ordered key-value contract that the
// rest of the control plane is built against (artifact storage, resource
// state, transition history). Concrete adapters live alongside this file;
// callers should depend on the KV interface, never on a specific adapter.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a store error the way the rest of the core maps errors to
// transport codes (see internal/rpc).
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindNotFound
)

// Error is the typed error every KV adapter must return for the conditions
// listed in the artifact store contract.
type Error struct {
	Kind Kind
	Key  string
	Msg  string
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s: %s", e.Key, e.Msg)
	}
	return e.Msg
}

func invalidArgument(key, msg string) error {
	return &Error{Kind: KindInvalidArgument, Key: key, Msg: msg}
}

func notFound(key string) error {
	return &Error{Kind: KindNotFound, Key: key, Msg: "key not found"}
}

// IsNotFound reports whether err is a store.Error of kind NotFound.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindNotFound
}

// IsInvalidArgument reports whether err is a store.Error of kind InvalidArgument.
func IsInvalidArgument(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindInvalidArgument
}

// MaxKeyLength is the §4.1 contract limit on key size.
const MaxKeyLength = 1024

// invalidKeyChars are the characters the contract forbids in a key.
const invalidKeyChars = "<>?{}"

// ValidateKey enforces the §4.1 key charset/length contract. Adapters call
// this before every operation so the "fails with InvalidArgument otherwise"
// clause holds uniformly across implementations.
func ValidateKey(key string) error {
	if key == "" {
		return invalidArgument(key, "key must not be empty")
	}
	if len(key) > MaxKeyLength {
		return invalidArgument(key, fmt.Sprintf("key exceeds maximum length of %d bytes", MaxKeyLength))
	}
	if strings.ContainsAny(key, invalidKeyChars) {
		return invalidArgument(key, "key contains a disallowed character")
	}
	return nil
}

// Entry is a single ordered (key, value) pair as returned by ListPrefix.
type Entry struct {
	Key   string
	Value []byte
}

// KV is the abstract ordered key-value store the artifact model, the state
// machine, and the transition history are all built on. Implementations
// must not assume cross-key atomicity: every write is atomic on its own key
// only (§4.1).
type KV interface {
	// Put writes value at key, creating or overwriting it.
	Put(ctx context.Context, key string, value []byte) error

	// Get reads the value stored at key. Returns a NotFound-kind Error if
	// the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key sharing prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	// ListPrefix returns every (key, value) pair under prefix in ascending
	// creation order. The order is stable across calls as long as no
	// intervening write touches the prefix (§4.1).
	ListPrefix(ctx context.Context, prefix string) ([]Entry, error)
}
