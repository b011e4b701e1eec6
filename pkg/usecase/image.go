package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/interfaces"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/types"
)

// ImageAnalysisView sends an image for condition detection
type ImageAnalysisView struct {
	api     interfaces.HealthAPI
	session *SessionStore

	selection fileSelection

	mu        sync.Mutex
	imageType types.ImageType

	sub Submission[*model.ImageAnalysis]
}

// NewImageAnalysisView creates the view with the default image type
func NewImageAnalysisView(api interfaces.HealthAPI, session *SessionStore) *ImageAnalysisView {
	return &ImageAnalysisView{
		api:       api,
		session:   session,
		selection: fileSelection{rule: ImageRule},
		imageType: types.DefaultImageType,
	}
}

// Select picks an image
func (v *ImageAnalysisView) Select(path string) (*model.SelectedFile, error) {
	file, err := v.selection.selectPath(path)
	if err != nil {
		return nil, v.sub.Reject(err)
	}
	v.sub.ClearError()
	return file, nil
}

// File returns the selected image
func (v *ImageAnalysisView) File() *model.SelectedFile {
	return v.selection.current()
}

// SetImageType changes the analysis type
func (v *ImageAnalysisView) SetImageType(t types.ImageType) error {
	if !t.IsValid() {
		return goerr.Wrap(model.NewValidationFailure("Unsupported image type: "+t.String()),
			"invalid image type", goerr.V(ImageTypeKey, t.String()))
	}
	v.mu.Lock()
	v.imageType = t
	v.mu.Unlock()
	v.sub.Edit()
	return nil
}

// ImageType returns the selected analysis type
func (v *ImageAnalysisView) ImageType() types.ImageType {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.imageType
}

// Submit analyzes the selected image
func (v *ImageAnalysisView) Submit(ctx context.Context) (*model.ImageAnalysis, error) {
	file := v.selection.current()
	if file == nil {
		return nil, v.sub.Reject(model.NewValidationFailure("Please select an image to analyze"))
	}
	// analysis works without a session; the patient id is sent when known
	patientID, _ := v.session.PatientID()
	imageType := v.ImageType()

	return v.sub.Run(ctx, func(ctx context.Context) (*model.ImageAnalysis, error) {
		return v.api.AnalyzeImage(ctx, patientID, file, imageType)
	})
}

// Retry repeats a failed analysis
func (v *ImageAnalysisView) Retry(ctx context.Context) (*model.ImageAnalysis, error) {
	return v.sub.Retry(ctx)
}

// State returns the submission state
func (v *ImageAnalysisView) State() SubmissionSnapshot[*model.ImageAnalysis] {
	return v.sub.Snapshot()
}

// Close detaches the view
func (v *ImageAnalysisView) Close() {
	v.sub.Detach()
}
