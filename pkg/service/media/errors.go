package media

import "github.com/m-mizutani/goerr/v2"

var (
	ErrAlreadyRecording = goerr.New("recording already in progress")
	ErrRecordingPresent = goerr.New("a finished recording must be cleared before recording again")
	ErrNotStopped       = goerr.New("no finished recording to process")
)

// PermissionMessage is shown when the microphone cannot be opened
const PermissionMessage = "Failed to start recording. Please check microphone permissions."
