package sessions

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned for malformed input: bad target address,
	// empty permission set, or a duration spec that does not parse.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound is returned when no session exists for the given ID.
	ErrNotFound = errors.New("session not found")

	// ErrConflict is returned when a second command races an in-flight
	// mutation on the same session, or when a command targets a session
	// already in a terminal state.
	ErrConflict = errors.New("conflicting command")

	// ErrCancelled is returned when a command is aborted mid-flight
	// (caller context cancelled or the store closed). No state changed.
	ErrCancelled = errors.New("command cancelled")

	// ErrTransientNetwork classifies collaborator failures that may
	// succeed on retry. The engine never retries; the caller decides.
	ErrTransientNetwork = errors.New("transient network failure")

	// ErrConfig is returned for invalid engine configuration.
	ErrConfig = errors.New("invalid config")
)

// OpError is a typed operation error with a stable Op + Kind contract.
// Kind is always one of the sentinel errors above; Msg may carry
// human-readable context.
type OpError struct {
	Op   string
	Kind error
	Msg  string
}

func (e OpError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Msg)
}

func (e OpError) Unwrap() error { return e.Kind }

// IsValidation reports whether err represents ErrValidation.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err represents ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err represents ErrConflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsCancelled reports whether err represents ErrCancelled.
func IsCancelled(err error) bool { return errors.Is(err, ErrCancelled) }

// IsTransientNetwork reports whether err represents ErrTransientNetwork.
func IsTransientNetwork(err error) bool { return errors.Is(err, ErrTransientNetwork) }

// TransientError wraps a collaborator failure in the transient-network
// class so callers can branch on IsTransientNetwork.
func TransientError(op string, err error) error {
	return OpError{Op: op, Kind: ErrTransientNetwork, Msg: err.Error()}
}
