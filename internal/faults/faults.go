// Package faults defines the closed set of error variants exchanged between
// the service layer and the HTTP boundary. Services construct tagged faults
// for every predictable failure; the HTTP error normalizer maps the tag to a
// status code and a stable envelope code. Nothing in the system classifies
// errors by message text.
//
// Conventions:
//   - Services return *Fault (or an error wrapping one) for expected
//     failures: missing resources, conflicts, invalid input, denied access.
//   - Unexpected errors are returned as-is and normalize to an internal
//     fault at the boundary.
//   - Use KindOf / IsKind to branch on a fault without unwrapping manually.
package faults

import (
	"errors"
	"fmt"
)

// Kind tags a fault with its variant. The set is deliberately closed: adding
// a variant means deciding its HTTP mapping in the normalizer as well.
type Kind uint8

const (
	// KindInternal is the catch-all for unclassified failures.
	KindInternal Kind = iota
	// KindInvalid marks malformed or missing input (maps to 400).
	KindInvalid
	// KindUnauthenticated marks a missing or unusable credential (401).
	KindUnauthenticated
	// KindTokenExpired marks a credential that was valid but has expired
	// (401 with a distinct code, so clients know to refresh).
	KindTokenExpired
	// KindForbidden marks a valid identity with insufficient rights (403).
	KindForbidden
	// KindNotFound marks an absent resource, or one owned by another
	// identity; callers cannot tell the two apart (404).
	KindNotFound
	// KindConflict marks duplicates and constraint violations (409).
	KindConflict
	// KindRateLimited marks a request rejected by a rate-limit ceiling (429).
	KindRateLimited
	// KindTimeout marks a request that exceeded the server deadline (408).
	KindTimeout
)

// String returns a short name for the kind, used in logs.
func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindTokenExpired:
		return "token_expired"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRateLimited:
		return "rate_limited"
	case KindTimeout:
		return "timeout"
	default:
		return "internal"
	}
}

// Issue describes a single validation problem within a payload.
type Issue struct {
	// Path locates the offending field (e.g. "address.city", "limit").
	Path string `json:"path"`
	// Message is a human-readable description of the problem.
	Message string `json:"message"`
	// Code is the machine-readable constraint that failed (e.g. "required",
	// "min", "uuid").
	Code string `json:"code"`
}

// Fault is a tagged error. The zero Kind is KindInternal, so a Fault that is
// constructed carelessly still fails safe (500, redacted in production).
type Fault struct {
	Kind    Kind
	Message string
	// Issues carries validation details; only set for KindInvalid.
	Issues []Issue
	// Err is the wrapped cause, if any.
	Err error
}

// Error implements the error interface.
func (f *Fault) Error() string {
	if f.Err != nil && f.Message == "" {
		return f.Err.Error()
	}
	return f.Message
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (f *Fault) Unwrap() error { return f.Err }

// New constructs a fault with the given kind and message.
func New(kind Kind, msg string) *Fault {
	return &Fault{Kind: kind, Message: msg}
}

// Newf constructs a fault with a formatted message.
func Newf(kind Kind, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs a fault wrapping cause. The message stays client-safe; the
// cause is for server-side logs only.
func Wrap(kind Kind, cause error, msg string) *Fault {
	return &Fault{Kind: kind, Message: msg, Err: cause}
}

// Invalid constructs a validation fault carrying per-field issues.
func Invalid(msg string, issues ...Issue) *Fault {
	return &Fault{Kind: KindInvalid, Message: msg, Issues: issues}
}

// NotFound constructs a not-found fault. The same fault is used whether the
// resource is absent or belongs to someone else.
func NotFound(msg string) *Fault { return New(KindNotFound, msg) }

// Conflict constructs a duplicate/constraint fault.
func Conflict(msg string) *Fault { return New(KindConflict, msg) }

// Unauthenticated constructs a missing/invalid-credential fault.
func Unauthenticated(msg string) *Fault { return New(KindUnauthenticated, msg) }

// Expired constructs an expired-credential fault.
func Expired(msg string) *Fault { return New(KindTokenExpired, msg) }

// Forbidden constructs an insufficient-rights fault.
func Forbidden(msg string) *Fault { return New(KindForbidden, msg) }

// Timeout constructs a deadline-exceeded fault.
func Timeout(msg string) *Fault { return New(KindTimeout, msg) }

// KindOf returns the kind of err, or KindInternal when err carries no fault.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries a fault of the given kind.
func IsKind(err error, kind Kind) bool {
	var f *Fault
	return errors.As(err, &f) && f.Kind == kind
}

// IssuesOf returns the validation issues attached to err, if any.
func IssuesOf(err error) []Issue {
	var f *Fault
	if errors.As(err, &f) {
		return f.Issues
	}
	return nil
}
