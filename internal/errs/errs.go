// Package errs declares the small, closed taxonomy of error kinds carried
// through service boundaries instead of ad-hoc exceptions: a kv operation,
// an RPC handler, or an HTTP handler returns one of these, never panics on
// a domain condition.
package errs

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
)

// Kind is the closed set of error categories every service boundary uses.
type Kind int

const (
	// Internal is the zero value so a bare Kind never silently maps to
	// something more lenient than "unexpected".
	Internal Kind = iota
	NotFound
	PreconditionFailed
	Conflict
	Stale
	Halted
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case PreconditionFailed:
		return "precondition_failed"
	case Conflict:
		return "conflict"
	case Stale:
		return "stale"
	case Halted:
		return "halted"
	default:
		return "internal"
	}
}

// Error is a kinded error wrapping an underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a kinded error.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the Kind of err, defaulting to Internal if err isn't
// (or doesn't wrap) an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// GRPCCode maps a Kind to the gRPC status code used on the wire.
func GRPCCode(k Kind) codes.Code {
	switch k {
	case NotFound:
		return codes.NotFound
	case PreconditionFailed:
		return codes.FailedPrecondition
	case Conflict:
		return codes.Aborted
	case Stale:
		return codes.FailedPrecondition
	case Halted:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// HTTPStatus maps a Kind to the HTTP status used by the Order service.
func HTTPStatus(k Kind) int {
	switch k {
	case Halted:
		return 500
	case Internal:
		return 500
	default:
		return 400
	}
}
