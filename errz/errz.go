// Package errz defines the error types produced by the brack interpreter.
package errz

import (
	"errors"
	"fmt"
)

// Kind represents the category of an interpreter error.
type Kind int

const (
	// KindStopped indicates the run was halted through the stop handle or a
	// cancelled context. It is a deliberate abort, not a failure, and
	// callers typically swallow it.
	KindStopped Kind = iota
	// KindOutOfBounds indicates the pointer left the permitted address
	// range under the active bounds policy.
	KindOutOfBounds
	// KindUnmatchedLoopClose indicates a "]" with no corresponding "[" at
	// the current depth.
	KindUnmatchedLoopClose
	// KindUnterminatedLoop indicates the program ended with one or more
	// loops still open.
	KindUnterminatedLoop
	// KindIOFault indicates the byte sink or source failed. The underlying
	// transport error is wrapped.
	KindIOFault
)

// String returns the string representation of the error kind.
func (k Kind) String() string {
	switch k {
	case KindStopped:
		return "stopped"
	case KindOutOfBounds:
		return "out of bounds"
	case KindUnmatchedLoopClose:
		return "unmatched loop close"
	case KindUnterminatedLoop:
		return "unterminated loop"
	case KindIOFault:
		return "io fault"
	default:
		return "error"
	}
}

// Error is an interpreter error with a kind and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind.String(), e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind, which makes
// errors.Is usable with the kind constructors below.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// Stopped returns the error used to unwind a cancelled run.
func Stopped() error {
	return &Error{Kind: KindStopped}
}

// OutOfBounds returns a pointer bounds violation error.
func OutOfBounds(format string, args ...any) error {
	return &Error{Kind: KindOutOfBounds, Message: fmt.Sprintf(format, args...)}
}

// UnmatchedLoopClose returns the error for a "]" with no open loop.
func UnmatchedLoopClose() error {
	return &Error{
		Kind:    KindUnmatchedLoopClose,
		Message: "cannot end a loop when none has been started",
	}
}

// UnterminatedLoop returns the error for a program that ends mid-loop.
func UnterminatedLoop(depth int) error {
	return &Error{
		Kind:    KindUnterminatedLoop,
		Message: fmt.Sprintf("program ended with %d unclosed loop(s)", depth),
	}
}

// IOFault wraps a sink or source failure.
func IOFault(cause error) error {
	return &Error{Kind: KindIOFault, Message: cause.Error(), Cause: cause}
}

// KindOf returns the kind of err and true if err is an interpreter error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsStopped reports whether err represents a cancelled run.
func IsStopped(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindStopped
}

// IsIOFault reports whether err wraps a sink or source failure.
func IsIOFault(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindIOFault
}
