package gemini

import (
	"errors"
	"fmt"
)

// Kind enumerates the internal error taxonomy of spec.md §7. No Kind value
// is ever written literally onto the wire; handlers translate failures into
// Status/Meta pairs themselves, or rely on the engine's panic/error
// isolation to produce a PermanentFailure response.
type Kind int

const (
	// KindBadFraming: the request line was not terminated with CRLF within
	// the length limit.
	KindBadFraming Kind = iota
	// KindURITooLong: the request line exceeded 1024 bytes before CRLF.
	KindURITooLong
	// KindInvalidURI: the URI reference failed to parse.
	KindInvalidURI
	// KindInvalidRequest: the query component was present but not valid
	// UTF-8 after percent-decoding.
	KindInvalidRequest
	// KindTLSHandshake: the TLS session could not be established.
	KindTLSHandshake
	// KindTimeout: a phase deadline elapsed. Phase is carried in Error.Phase.
	KindTimeout
	// KindIO: an underlying read or write failure.
	KindIO
	// KindHandlerError: the handler returned an error, or panicked.
	KindHandlerError
	// KindInvalidMeta: a Meta/ResponseHeader construction violated an
	// invariant.
	KindInvalidMeta
	// KindConflictingRoute: two handlers were registered for the same
	// normalized path.
	KindConflictingRoute
)

func (k Kind) String() string {
	switch k {
	case KindBadFraming:
		return "bad-framing"
	case KindURITooLong:
		return "uri-too-long"
	case KindInvalidURI:
		return "invalid-uri"
	case KindInvalidRequest:
		return "invalid-request"
	case KindTLSHandshake:
		return "tls-handshake"
	case KindTimeout:
		return "timeout"
	case KindIO:
		return "io"
	case KindHandlerError:
		return "handler-error"
	case KindInvalidMeta:
		return "invalid-meta"
	case KindConflictingRoute:
		return "conflicting-route"
	default:
		return "unknown"
	}
}

// Error is the internal error type used throughout the core. It carries a
// Kind, an optional causing error, and optional phase/path context used for
// log messages.
type Error struct {
	Kind  Kind
	Phase string
	Path  string
	Cause error
}

func newError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

func newTimeoutError(phase string) *Error {
	return &Error{Kind: KindTimeout, Phase: phase, Cause: fmt.Errorf("deadline exceeded")}
}

func (e *Error) Error() string {
	switch {
	case e.Phase != "" && e.Cause != nil:
		return fmt.Sprintf("gemini: %s (%s): %v", e.Kind, e.Phase, e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("gemini: %s: %v", e.Kind, e.Cause)
	default:
		return fmt.Sprintf("gemini: %s", e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, so that
// callers can write errors.Is(err, gemini.KindTimeout) style checks via
// errors.Is(err, &Error{Kind: k}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf extracts the Kind of err if it is (or wraps) a *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
