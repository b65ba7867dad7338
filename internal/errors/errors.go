// Package errors defines the typed errors raised by the cursor core.
// Remote failures are classified into a small set of kinds so callers can tell
// a rejected credential from a bad query without parsing messages. Each kind maps
// to a caller-visible class sentinel that works with errors.Is, while errors.As
// recovers the full RemoteError with the remote message and raw payload.
//
// Only the transport layer constructs RemoteError values.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable remote failure category.
type Kind string

const (
	// NotFound means the remote resource does not exist (404).
	NotFound Kind = "not_found"
	// Gone means the remote resource was removed (410).
	Gone Kind = "gone"
	// Unauthorized means the credential was rejected (401).
	Unauthorized Kind = "unauthorized"
	// InvalidField is the INVALID_FIELD rejection.
	InvalidField Kind = "invalid_field"
	// MalformedQuery is the MALFORMED_QUERY rejection.
	MalformedQuery Kind = "malformed_query"
	// IntegrityViolation is the INVALID_FIELD_FOR_INSERT_UPDATE rejection.
	IntegrityViolation Kind = "integrity_violation"
	// Generic covers every other rejection.
	Generic Kind = "generic"
)

// Caller-visible error classes.
var (
	// ErrPermissionDenied is the class of Unauthorized.
	ErrPermissionDenied = stderrors.New("permission denied")
	// ErrFieldError is the class of InvalidField.
	ErrFieldError = stderrors.New("field error")
	// ErrSyntax is the class of MalformedQuery.
	ErrSyntax = stderrors.New("syntax error")
	// ErrIntegrity is the class of IntegrityViolation.
	ErrIntegrity = stderrors.New("integrity error")
	// ErrDatabase is the class of Generic, NotFound and Gone.
	ErrDatabase = stderrors.New("database error")

	// ErrUnsupportedOperation is returned for query intents that cannot be routed.
	ErrUnsupportedOperation = stderrors.New("unsupported operation")
)

// Remote error codes carried in the errorCode field of a rejection payload.
const (
	CodeInvalidField             = "INVALID_FIELD"
	CodeMalformedQuery           = "MALFORMED_QUERY"
	CodeInvalidFieldInsertUpdate = "INVALID_FIELD_FOR_INSERT_UPDATE"
)

// RemoteError is a failure reported by the remote service.
type RemoteError struct {
	Kind Kind
	// Message is the remote message, verbatim.
	Message string
	// Payload is the raw response body, kept for Generic diagnosis.
	Payload string
	// Status is the HTTP status code.
	Status int
}

func (e *RemoteError) Error() string {
	switch {
	case e.Kind == Generic && e.Payload != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Payload)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	default:
		return string(e.Kind)
	}
}

// Unwrap exposes the caller-visible class so errors.Is works on the kind.
func (e *RemoteError) Unwrap() error { return e.Kind.Class() }

// Class returns the caller-visible error class for the kind.
func (k Kind) Class() error {
	switch k {
	case Unauthorized:
		return ErrPermissionDenied
	case InvalidField:
		return ErrFieldError
	case MalformedQuery:
		return ErrSyntax
	case IntegrityViolation:
		return ErrIntegrity
	default:
		return ErrDatabase
	}
}

// Empty reports whether the kind is downgraded to an empty result rather than raised.
func (k Kind) Empty() bool { return k == NotFound || k == Gone }

// KindForCode maps a remote errorCode to a Kind.
func KindForCode(code string) Kind {
	switch code {
	case CodeInvalidField:
		return InvalidField
	case CodeMalformedQuery:
		return MalformedQuery
	case CodeInvalidFieldInsertUpdate:
		return IntegrityViolation
	default:
		return Generic
	}
}

// New creates a RemoteError with a message.
func New(kind Kind, msg string) *RemoteError { return &RemoteError{Kind: kind, Message: msg} }

// Unsupported wraps ErrUnsupportedOperation with a reason.
func Unsupported(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedOperation, fmt.Sprintf(format, args...))
}

// AsRemote extracts a RemoteError from err.
func AsRemote(err error) (*RemoteError, bool) {
	var re *RemoteError
	if stderrors.As(err, &re) {
		return re, true
	}
	return nil, false
}
