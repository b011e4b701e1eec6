package model

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

// Failure kinds. Every error a view shows to the user unwraps to exactly one of these.
var (
	ErrValidation     = goerr.New("invalid input")
	ErrTransport      = goerr.New("transport failure")
	ErrBackend        = goerr.New("backend rejected request")
	ErrPermission     = goerr.New("permission denied")
	ErrCorruptSession = goerr.New("corrupt stored session")
)

// Context keys for error values
const (
	FieldKey      = "field"
	StatusKey     = "status"
	PatientIDKey  = "patient_id"
	DocumentIDKey = "document_id"
	PathKey       = "path"
)

// Failure carries the display message of a failed operation together with its kind.
// Message is what the view renders; for backend failures it is the server's detail verbatim.
type Failure struct {
	Kind    error
	Status  int
	Message string
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Kind
}

// NewValidationFailure reports bad or missing local input. No request is issued.
func NewValidationFailure(msg string) *Failure {
	return &Failure{Kind: ErrValidation, Message: msg}
}

// NewTransportFailure reports a network failure or an undecodable error response
func NewTransportFailure(status int, msg string) *Failure {
	return &Failure{Kind: ErrTransport, Status: status, Message: msg}
}

// NewBackendFailure reports a structured error detail returned by the backend
func NewBackendFailure(status int, msg string) *Failure {
	return &Failure{Kind: ErrBackend, Status: status, Message: msg}
}

// NewPermissionFailure reports a denied or unavailable capture device
func NewPermissionFailure(msg string) *Failure {
	return &Failure{Kind: ErrPermission, Message: msg}
}

// AsFailure extracts the Failure from an error chain
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
