package usecase

import (
	"context"
	"sync"

	"github.com/smarthealth-ai/healthdesk/pkg/domain/interfaces"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
)

// NoRecordingMessage is shown when processing is requested without audio or a patient
const NoRecordingMessage = "No audio recorded or patient ID missing"

// CaptureController records one audio clip at a time
type CaptureController interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) (*model.AudioBlob, error)
	Clear(ctx context.Context)
	Close(ctx context.Context)
	BeginProcessing() (*model.AudioBlob, error)
	EndProcessing()
	Snapshot() model.AudioCapture
}

// SpeechView records a spoken symptom description and sends it for transcription
// and diagnosis. Capture errors are kept apart from request errors.
type SpeechView struct {
	api     interfaces.HealthAPI
	session *SessionStore
	capture CaptureController

	mu         sync.Mutex
	captureErr error

	sub Submission[*model.SpeechResult]
}

// NewSpeechView creates a speech view that owns the capture controller
func NewSpeechView(api interfaces.HealthAPI, session *SessionStore, capture CaptureController) *SpeechView {
	return &SpeechView{api: api, session: session, capture: capture}
}

// StartRecording opens the microphone
func (v *SpeechView) StartRecording(ctx context.Context) error {
	err := v.capture.Start(ctx)

	v.mu.Lock()
	v.captureErr = err
	v.mu.Unlock()

	if err == nil {
		v.sub.ClearError()
	}
	return err
}

// StopRecording finishes the recording and returns the clip
func (v *SpeechView) StopRecording(ctx context.Context) (*model.AudioBlob, error) {
	blob, err := v.capture.Stop(ctx)

	v.mu.Lock()
	v.captureErr = err
	v.mu.Unlock()

	return blob, err
}

// ClearRecording discards the clip together with any result and error
func (v *SpeechView) ClearRecording(ctx context.Context) {
	v.capture.Clear(ctx)

	v.mu.Lock()
	v.captureErr = nil
	v.mu.Unlock()

	v.sub.Reset()
}

// Process sends the finished recording for transcription and diagnosis
func (v *SpeechView) Process(ctx context.Context) (*model.SpeechResult, error) {
	patientID, _ := v.session.PatientID()

	blob, err := v.capture.BeginProcessing()
	if err != nil || patientID == "" {
		if err == nil {
			v.capture.EndProcessing()
		}
		return nil, v.sub.Reject(model.NewValidationFailure(NoRecordingMessage))
	}
	defer v.capture.EndProcessing()

	return v.sub.Run(ctx, func(ctx context.Context) (*model.SpeechResult, error) {
		return v.api.TranscribeAndDiagnose(ctx, patientID, blob)
	})
}

// Capture returns the recording state
func (v *SpeechView) Capture() model.AudioCapture {
	return v.capture.Snapshot()
}

// CaptureError returns the last microphone error, if any
func (v *SpeechView) CaptureError() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.captureErr
}

// State returns the submission state
func (v *SpeechView) State() SubmissionSnapshot[*model.SpeechResult] {
	return v.sub.Snapshot()
}

// Close releases the microphone and playback URL and detaches the view
func (v *SpeechView) Close(ctx context.Context) {
	v.sub.Detach()
	v.capture.Close(ctx)
}
