package analysis

import "errors"

// ErrorKind classifies a failure of the analysis flow. Authentication,
// authorization and validation failures are detected eagerly; collaborator
// failures are surfaced verbatim; persistence failures never appear here.
type ErrorKind string

const (
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindBadRequest   ErrorKind = "bad_request"
	KindNotFound     ErrorKind = "not_found"
	KindAnalysis     ErrorKind = "analysis_failed"
	KindBatch        ErrorKind = "batch_analysis_failed"
)

// Error carries a kind for transport mapping plus a caller-facing message.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a flow error.
func E(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches an underlying cause. The message stays the caller-facing
// text; the cause is for logs.
func Wrap(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// AsError unwraps err to a flow *Error, or nil for foreign errors.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// KindOf extracts the kind, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	if e := AsError(err); e != nil {
		return e.Kind
	}
	return ""
}
