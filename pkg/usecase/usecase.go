package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/interfaces"
)

// UseCases wires the view controllers to the API client and the session store
type UseCases struct {
	api        interfaces.HealthAPI
	confirmer  interfaces.Confirmer
	newCapture func() CaptureController

	Session *SessionStore
	Shell   *Shell
}

type Option func(*UseCases)

// WithConfirmer sets how destructive actions are confirmed. Without it every
// confirmation is declined.
func WithConfirmer(confirmer interfaces.Confirmer) Option {
	return func(uc *UseCases) {
		uc.confirmer = confirmer
	}
}

// WithCapture sets the factory of capture controllers for speech views
func WithCapture(factory func() CaptureController) Option {
	return func(uc *UseCases) {
		uc.newCapture = factory
	}
}

func New(api interfaces.HealthAPI, slot interfaces.SessionSlot, opts ...Option) *UseCases {
	uc := &UseCases{
		api:       api,
		confirmer: declineConfirmer{},
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Session = NewSessionStore(slot)
	uc.Shell = NewShell(uc.Session)

	return uc
}

type declineConfirmer struct{}

func (declineConfirmer) Confirm(context.Context, string) (bool, error) {
	return false, nil
}

func (uc *UseCases) NewAuthView() *AuthView {
	return NewAuthView(uc.api, uc.Session, uc.Shell)
}

func (uc *UseCases) NewDashboardView() *DashboardView {
	return NewDashboardView(uc.api, uc.Session, uc.confirmer)
}

func (uc *UseCases) NewSymptomCheckerView() *SymptomCheckerView {
	return NewSymptomCheckerView(uc.api, uc.Session)
}

func (uc *UseCases) NewUploadView() *UploadView {
	return NewUploadView(uc.api, uc.Session)
}

func (uc *UseCases) NewImageAnalysisView() *ImageAnalysisView {
	return NewImageAnalysisView(uc.api, uc.Session)
}

func (uc *UseCases) NewSimilarCasesView() *SimilarCasesView {
	return NewSimilarCasesView(uc.api)
}

func (uc *UseCases) NewHistoryView() *HistoryView {
	return NewHistoryView(uc.api, uc.Session)
}

// NewSpeechView creates a speech view with a fresh capture controller
func (uc *UseCases) NewSpeechView() (*SpeechView, error) {
	if uc.newCapture == nil {
		return nil, goerr.New("no microphone configured")
	}
	return NewSpeechView(uc.api, uc.Session, uc.newCapture()), nil
}

// SymptomCategories lists the symptom categories known to the backend
func (uc *UseCases) SymptomCategories(ctx context.Context) ([]string, error) {
	categories, err := uc.api.SymptomCategories(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch symptom categories")
	}
	return categories, nil
}
