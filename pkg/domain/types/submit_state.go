package types

// SubmitState is the request lifecycle of a view controller
type SubmitState string

const (
	SubmitIdle       SubmitState = "idle"
	SubmitSubmitting SubmitState = "submitting"
	SubmitSuccess    SubmitState = "success"
	SubmitFailed     SubmitState = "failed"
)

// String returns the string representation of the submit state
func (s SubmitState) String() string {
	return string(s)
}

// CaptureState is the lifecycle of a microphone recording
type CaptureState string

const (
	CaptureIdle       CaptureState = "idle"
	CaptureRecording  CaptureState = "recording"
	CaptureStopped    CaptureState = "stopped"
	CaptureProcessing CaptureState = "processing"
)

// String returns the string representation of the capture state
func (s CaptureState) String() string {
	return string(s)
}
