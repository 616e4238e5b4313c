package maiko

import (
	"errors"
	"fmt"
)

var (
	// ErrSendFailed means a Context.Send could not complete because stage-1
	// is closed: the broker has terminated.
	ErrSendFailed = errors.New("maiko: send failed, broker is not running")

	// ErrOverflowClosed means this actor's mailbox was closed by the
	// broker because a Fail-policy subscriber's mailbox was full.
	ErrOverflowClosed = errors.New("maiko: mailbox closed by overflow policy")

	// ErrDuplicateName means AddActor was called with a name already
	// registered on this supervisor.
	ErrDuplicateName = errors.New("maiko: duplicate actor name")

	// ErrInvalidState means a lifecycle operation was attempted in a
	// supervisor state that rejects it (e.g. AddActor after Start).
	ErrInvalidState = errors.New("maiko: invalid state for requested operation")
)

// HandlerError wraps an error returned by Actor.HandleEvent or Stepper.Step
// before it reaches ErrorHandler.OnError.
type HandlerError struct {
	Cause error
}

func (e *HandlerError) Error() string { return fmt.Sprintf("maiko: handler failed: %v", e.Cause) }
func (e *HandlerError) Unwrap() error { return e.Cause }

// ExternalError wraps an error an actor surfaces from outside the core
// (e.g. a serialization failure), for callers that want to distinguish
// "my own logic failed" from "something external failed".
type ExternalError struct {
	Cause error
}

func (e *ExternalError) Error() string { return fmt.Sprintf("maiko: external error: %v", e.Cause) }
func (e *ExternalError) Unwrap() error { return e.Cause }
