package request

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrEmptyBody is returned when a successful transport response carries
	// no body or a JSON null.
	ErrEmptyBody = errors.New("empty response body")
	// ErrAuthInvalid marks an envelope carrying the invalid-session code.
	ErrAuthInvalid = errors.New("session invalid")
	// ErrPermissionDenied marks an envelope carrying the no-permission code.
	ErrPermissionDenied = errors.New("permission denied")
)

// Outcome classifies a non-success code.
type Outcome string

// Outcomes.
const (
	OutcomeAuthInvalid      Outcome = "auth_invalid"
	OutcomePermissionDenied Outcome = "permission_denied"
	OutcomeFailure          Outcome = "failure"
)

// ApplicationError is returned when the envelope code is not a success code.
// It is never retried.
type ApplicationError struct {
	URL  string
	Code Code
	Msg  string
	Kind Outcome
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("request %s failed: code=%s msg=%q", e.URL, e.Code.String(), e.Msg)
}

// Unwrap exposes ErrAuthInvalid or ErrPermissionDenied for errors.Is.
func (e *ApplicationError) Unwrap() error {
	switch e.Kind {
	case OutcomeAuthInvalid:
		return ErrAuthInvalid
	case OutcomePermissionDenied:
		return ErrPermissionDenied
	default:
		return nil
	}
}

// TransportKind classifies a transport failure.
type TransportKind string

// Transport failure kinds.
const (
	TransportNetwork TransportKind = "network"
	TransportTimeout TransportKind = "timeout"
	TransportStatus  TransportKind = "status"
	TransportUnknown TransportKind = "unknown"
)

// TransportError is returned once a transport failure has exhausted its
// retry budget, or when the caller's context ends.
type TransportError struct {
	URL  string
	Kind TransportKind
	// Status is the HTTP status for TransportStatus failures.
	Status int
	// Msg is the backend message when the failing response carried a body.
	Msg string
	// Attempts is the number of dispatches made, including the first.
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	var detail string
	switch {
	case e.Kind == TransportStatus && e.Msg != "":
		detail = fmt.Sprintf("status %d: %s", e.Status, e.Msg)
	case e.Kind == TransportStatus:
		detail = fmt.Sprintf("status %d", e.Status)
	case e.Err != nil:
		detail = e.Err.Error()
	default:
		detail = string(e.Kind)
	}
	return fmt.Sprintf("request %s failed after %d attempt(s): %s", e.URL, e.Attempts, detail)
}

func (e *TransportError) Unwrap() error { return e.Err }

// statusError is the transport error produced for a non-2xx response.
type statusError struct {
	status int
	body   []byte
}

func (e *statusError) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.status)
}
