package interfaces

import (
	"context"

	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/types"
)

// HealthAPI defines the remote Smart Health backend. Every method issues exactly one
// request and reports failures as *model.Failure.
type HealthAPI interface {
	Login(ctx context.Context, creds *model.Credentials) (*model.UserSession, error)
	Register(ctx context.Context, req *model.RegisterRequest) (*model.UserSession, error)

	FetchDashboard(ctx context.Context, patientID string) (*model.Dashboard, error)
	DeleteDocument(ctx context.Context, patientID, documentID string) error

	UploadDocument(ctx context.Context, patientID string, file *model.SelectedFile) (*model.UploadResult, error)
	AnalyzeImage(ctx context.Context, patientID string, file *model.SelectedFile, imageType types.ImageType) (*model.ImageAnalysis, error)

	AnalyzeSymptoms(ctx context.Context, req *model.SymptomRequest) (*model.Diagnosis, error)

	// SearchCases returns matching prior cases. An empty slice is a valid result.
	SearchCases(ctx context.Context, query string, topK int) ([]model.CaseRecord, error)

	TranscribeAndDiagnose(ctx context.Context, patientID string, audio *model.AudioBlob) (*model.SpeechResult, error)

	FetchHistory(ctx context.Context, patientID string) (*model.PatientHistory, error)
	SymptomCategories(ctx context.Context) ([]string, error)
}
