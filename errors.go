package txbridge

import (
	"errors"
	"fmt"
)

var (
	// ErrMiddlewareMissing is returned by FromRequest and FromContext when the
	// request never passed through the Middleware. This is a wiring defect,
	// not a transient condition.
	ErrMiddlewareMissing = errors.New("txbridge: middleware not installed; wrap the handler with txbridge.Middleware")

	// ErrOverlappingUse is returned when the request's transaction is already
	// on loan to another Tx that has not been closed, or when an explicit
	// Tx.Commit already consumed it. It indicates overlapping accessors in a
	// single request and is never retried by this package.
	ErrOverlappingUse = errors.New("txbridge: request transaction already in use; close the other Tx first")
)

// BeginError wraps a driver failure while starting the request's transaction.
// It is returned by the accessor call that triggered the begin; the request is
// not doomed, and a later accessor call may try again.
type BeginError struct {
	Err error
}

func (e *BeginError) Error() string {
	return fmt.Sprintf("txbridge: begin transaction: %v", e.Err)
}

func (e *BeginError) Unwrap() error {
	return e.Err
}

// CommitError wraps a driver failure while committing. When the commit was
// triggered by a successful response, the Middleware converts it into the
// final response through the configured error responder.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("txbridge: commit transaction: %v", e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}
