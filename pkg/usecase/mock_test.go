package usecase_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/types"
	"github.com/smarthealth-ai/healthdesk/pkg/repository/memory"
	"github.com/smarthealth-ai/healthdesk/pkg/usecase"
)

// mockHealthAPI is a hand-written implementation of interfaces.HealthAPI.
// Unset functions return a minimal successful response.
type mockHealthAPI struct {
	loginFn          func(ctx context.Context, creds *model.Credentials) (*model.UserSession, error)
	registerFn       func(ctx context.Context, req *model.RegisterRequest) (*model.UserSession, error)
	fetchDashboardFn func(ctx context.Context, patientID string) (*model.Dashboard, error)
	deleteDocumentFn func(ctx context.Context, patientID, documentID string) error
	uploadFn         func(ctx context.Context, patientID string, file *model.SelectedFile) (*model.UploadResult, error)
	analyzeImageFn   func(ctx context.Context, patientID string, file *model.SelectedFile, imageType types.ImageType) (*model.ImageAnalysis, error)
	analyzeFn        func(ctx context.Context, req *model.SymptomRequest) (*model.Diagnosis, error)
	searchFn         func(ctx context.Context, query string, topK int) ([]model.CaseRecord, error)
	speechFn         func(ctx context.Context, patientID string, audio *model.AudioBlob) (*model.SpeechResult, error)
	historyFn        func(ctx context.Context, patientID string) (*model.PatientHistory, error)
	categoriesFn     func(ctx context.Context) ([]string, error)

	calls atomic.Int32
}

func (m *mockHealthAPI) Login(ctx context.Context, creds *model.Credentials) (*model.UserSession, error) {
	m.calls.Add(1)
	if m.loginFn != nil {
		return m.loginFn(ctx, creds)
	}
	return testSession(), nil
}

func (m *mockHealthAPI) Register(ctx context.Context, req *model.RegisterRequest) (*model.UserSession, error) {
	m.calls.Add(1)
	if m.registerFn != nil {
		return m.registerFn(ctx, req)
	}
	return testSession(), nil
}

func (m *mockHealthAPI) FetchDashboard(ctx context.Context, patientID string) (*model.Dashboard, error) {
	m.calls.Add(1)
	if m.fetchDashboardFn != nil {
		return m.fetchDashboardFn(ctx, patientID)
	}
	return &model.Dashboard{PatientID: patientID}, nil
}

func (m *mockHealthAPI) DeleteDocument(ctx context.Context, patientID, documentID string) error {
	m.calls.Add(1)
	if m.deleteDocumentFn != nil {
		return m.deleteDocumentFn(ctx, patientID, documentID)
	}
	return nil
}

func (m *mockHealthAPI) UploadDocument(ctx context.Context, patientID string, file *model.SelectedFile) (*model.UploadResult, error) {
	m.calls.Add(1)
	if m.uploadFn != nil {
		return m.uploadFn(ctx, patientID, file)
	}
	return &model.UploadResult{DocumentID: "doc-1"}, nil
}

func (m *mockHealthAPI) AnalyzeImage(ctx context.Context, patientID string, file *model.SelectedFile, imageType types.ImageType) (*model.ImageAnalysis, error) {
	m.calls.Add(1)
	if m.analyzeImageFn != nil {
		return m.analyzeImageFn(ctx, patientID, file, imageType)
	}
	return &model.ImageAnalysis{ImageType: imageType.String()}, nil
}

func (m *mockHealthAPI) AnalyzeSymptoms(ctx context.Context, req *model.SymptomRequest) (*model.Diagnosis, error) {
	m.calls.Add(1)
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, req)
	}
	return &model.Diagnosis{}, nil
}

func (m *mockHealthAPI) SearchCases(ctx context.Context, query string, topK int) ([]model.CaseRecord, error) {
	m.calls.Add(1)
	if m.searchFn != nil {
		return m.searchFn(ctx, query, topK)
	}
	return []model.CaseRecord{}, nil
}

func (m *mockHealthAPI) TranscribeAndDiagnose(ctx context.Context, patientID string, audio *model.AudioBlob) (*model.SpeechResult, error) {
	m.calls.Add(1)
	if m.speechFn != nil {
		return m.speechFn(ctx, patientID, audio)
	}
	return &model.SpeechResult{Success: true}, nil
}

func (m *mockHealthAPI) FetchHistory(ctx context.Context, patientID string) (*model.PatientHistory, error) {
	m.calls.Add(1)
	if m.historyFn != nil {
		return m.historyFn(ctx, patientID)
	}
	return &model.PatientHistory{PatientID: patientID}, nil
}

func (m *mockHealthAPI) SymptomCategories(ctx context.Context) ([]string, error) {
	m.calls.Add(1)
	if m.categoriesFn != nil {
		return m.categoriesFn(ctx)
	}
	return []string{"pain"}, nil
}

// mockConfirmer answers every prompt with a fixed value and records the prompts
type mockConfirmer struct {
	answer  bool
	prompts []string
}

func (m *mockConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	m.prompts = append(m.prompts, prompt)
	return m.answer, nil
}

// mockCapture is an in-memory capture controller
type mockCapture struct {
	mu       sync.Mutex
	startErr error
	state    types.CaptureState
	blob     *model.AudioBlob
	closed   bool
}

func (m *mockCapture) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.startErr != nil {
		return m.startErr
	}
	m.state = types.CaptureRecording
	return nil
}

func (m *mockCapture) Stop(ctx context.Context) (*model.AudioBlob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = types.CaptureStopped
	m.blob = &model.AudioBlob{Data: []byte("RIFF"), MIMEType: "audio/wav"}
	return m.blob, nil
}

func (m *mockCapture) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = types.CaptureIdle
	m.blob = nil
}

func (m *mockCapture) Close(ctx context.Context) {
	m.Clear(ctx)
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

func (m *mockCapture) BeginProcessing() (*model.AudioBlob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != types.CaptureStopped || m.blob == nil {
		return nil, usecase.ErrNothingToRetry
	}
	m.state = types.CaptureProcessing
	return m.blob, nil
}

func (m *mockCapture) EndProcessing() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == types.CaptureProcessing {
		m.state = types.CaptureStopped
	}
}

func (m *mockCapture) Snapshot() model.AudioCapture {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.AudioCapture{State: m.state, Blob: m.blob}
}

func testSession() *model.UserSession {
	return &model.UserSession{
		PatientID:         "P0001",
		FirstName:         "Ada",
		LastName:          "Lovelace",
		Email:             "ada@example.com",
		ChronicConditions: []string{"asthma"},
	}
}

// signedIn returns use cases whose store already holds testSession
func signedIn(t *testing.T, api *mockHealthAPI, opts ...usecase.Option) *usecase.UseCases {
	t.Helper()
	uc := usecase.New(api, memory.New(), opts...)
	gt.NoError(t, uc.Session.Commit(context.Background(), testSession())).Required()
	_, err := uc.Shell.Start(context.Background())
	gt.NoError(t, err).Required()
	return uc
}
