package workflow

import (
	"errors"
)

// Sentinel errors of the workflow engine. Callers match them with errors.Is;
// the handler layer maps them to HTTP statuses. Any other error coming out of
// a workflow operation is a persistence failure and has already rolled back
// the transaction it occurred in.
var (
	// ErrNotFound means the referenced complaint, decision or committee
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller is not the assigned handler or not the
	// intended receiver.
	ErrForbidden = errors.New("forbidden")

	// ErrPreconditionFailed means the complaint's status or a required
	// field does not satisfy the transition guard.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrValidation means the input is malformed or out of range.
	ErrValidation = errors.New("validation error")

	// ErrAlreadyAssigned means the committee or resolver is already set.
	// This is an idempotency guard evaluated under the row lock, not a
	// race detector.
	ErrAlreadyAssigned = errors.New("already assigned")
)
