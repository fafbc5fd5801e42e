package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable codes carried in the error envelope. Clients switch on
// these, never on messages.
const (
	CodeInvalidRequest    = "invalid_request"
	CodeUnauthorized      = "unauthorized"
	CodeSessionNotFound   = "session_not_found"
	CodeSessionConflict   = "session_conflict"
	CodeInvalidTransition = "invalid_transition"
	CodeValidationFailed  = "validation_failed"
	CodeProductNotFound   = "product_not_found"
	CodeIssueNotFound     = "issue_not_found"
	CodeInvalidPhoto      = "invalid_photo"
	CodeReportNotFound    = "report_not_found"
	CodeExportFailed      = "export_failed"
	CodeUnavailable       = "unavailable"
	CodeInternal          = "internal"
)

// Error is an HTTP-facing error: a status, a code from the list above and
// the underlying cause, which is logged but only shown for 4xx.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Err != nil:
		return e.Err.Error()
	case e.Code != "":
		return e.Code
	default:
		return fmt.Sprintf("api error (%d)", e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// From returns the *Error in err's chain, or a 500 CodeInternal wrapping err.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return New(http.StatusInternalServerError, CodeInternal, err)
}
