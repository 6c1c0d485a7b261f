// Package zwerr defines the error kinds used throughout the stack (spec
// §7): Decode, Encode, Timeout, Transport, Protocol and Unhandled. Callers
// branch on Kind via errors.As, not on sentinel identity, since most
// errors here wrap an underlying cause (a short read, a closed socket).
package zwerr

import "fmt"

// Kind classifies an Error.
type Kind int

const (
	// Decode covers short reads, unknown embedded commands and malformed
	// TLV lengths encountered while parsing inbound bytes.
	Decode Kind = iota
	// Encode covers missing required attributes and non-serializable
	// values encountered while composing outbound bytes.
	Encode
	// Timeout covers an ack or message wait exceeding its deadline.
	Timeout
	// Transport covers a closed socket or DTLS failure.
	Transport
	// Protocol covers a duplicate ack id, a nack without waiting, or an
	// unsolicited ackRequest the stack failed to answer.
	Protocol
	// Unhandled covers an inbound frame with no matching handler or
	// waiter.
	Unhandled
)

// String names the Kind for logging.
func (k Kind) String() string {
	switch k {
	case Decode:
		return "decode"
	case Encode:
		return "encode"
	case Timeout:
		return "timeout"
	case Transport:
		return "transport"
	case Protocol:
		return "protocol"
	case Unhandled:
		return "unhandled"
	default:
		return "unknown"
	}
}

// Error is a *zwerr.Error: a Kind, the failing operation, and the
// underlying cause (if any).
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("zwaveip: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("zwaveip: %s: %s", e.Op, e.Kind)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Err }

// New constructs an *Error.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if ze, ok := err.(*Error); ok {
			e = ze
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return e != nil && e.Kind == kind
}
