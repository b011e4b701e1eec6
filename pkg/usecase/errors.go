package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// State errors
	ErrSubmitInProgress  = errors.New("a submission is already in progress")
	ErrInvalidTransition = errors.New("invalid view transition")
	ErrNothingToRetry    = errors.New("no failed submission to retry")
	ErrViewClosed        = errors.New("view is closed")

	// Access errors
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotConfirmed     = errors.New("action was not confirmed")
)

// Context keys for error values
const (
	ViewKey      = "view"
	FromViewKey  = "from"
	StateKey     = "state"
	FileNameKey  = "file_name"
	MIMETypeKey  = "mime_type"
	AuthModeKey  = "auth_mode"
	TopKKey      = "top_k"
	ImageTypeKey = "image_type"
)
