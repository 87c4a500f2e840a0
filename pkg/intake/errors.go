package intake

import (
	"errors"
	"fmt"
)

// InvariantViolationError marks a defect: a code path tried something
// the session invariants forbid (overwriting a populated fact, stepping
// past a terminal stage). The turn fails closed; nothing is persisted.
type InvariantViolationError struct {
	Stage string
	Field string
	Msg   string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation at stage %s (field %q): %s", e.Stage, e.Field, e.Msg)
}

// TransientError wraps a collaborator failure (timeout, unavailable
// service). The turn produced no state mutation and the client may
// safely resend the same message.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient failure in %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}

func IsInvariantViolation(err error) bool {
	var v *InvariantViolationError
	return errors.As(err, &v)
}
