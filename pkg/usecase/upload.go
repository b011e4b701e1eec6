package usecase

import (
	"context"
	"sync"

	"github.com/smarthealth-ai/healthdesk/pkg/domain/interfaces"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
)

// fileSelection keeps the file picked for a view. A new selection replaces the previous one.
type fileSelection struct {
	rule FileRule

	mu   sync.Mutex
	file *model.SelectedFile
}

func (s *fileSelection) selectPath(path string) (*model.SelectedFile, error) {
	file, err := SelectFile(s.rule, path)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.file = file
	return file, err
}

func (s *fileSelection) current() *model.SelectedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	f := *s.file
	return &f
}

// UploadView uploads a medical document for extraction
type UploadView struct {
	api     interfaces.HealthAPI
	session *SessionStore

	selection fileSelection
	sub       Submission[*model.UploadResult]
}

// NewUploadView creates an upload view
func NewUploadView(api interfaces.HealthAPI, session *SessionStore) *UploadView {
	return &UploadView{
		api:       api,
		session:   session,
		selection: fileSelection{rule: DocumentRule},
	}
}

// Select picks a file. A rejected file clears the selection and sets the error;
// an accepted one clears the error.
func (v *UploadView) Select(path string) (*model.SelectedFile, error) {
	file, err := v.selection.selectPath(path)
	if err != nil {
		return nil, v.sub.Reject(err)
	}
	v.sub.ClearError()
	return file, nil
}

// File returns the selected file
func (v *UploadView) File() *model.SelectedFile {
	return v.selection.current()
}

// Submit uploads the selected file
func (v *UploadView) Submit(ctx context.Context) (*model.UploadResult, error) {
	file := v.selection.current()
	if file == nil {
		return nil, v.sub.Reject(model.NewValidationFailure("Please select a file to upload"))
	}
	patientID, err := v.session.PatientID()
	if err != nil {
		return nil, err
	}
	return v.sub.Run(ctx, func(ctx context.Context) (*model.UploadResult, error) {
		return v.api.UploadDocument(ctx, patientID, file)
	})
}

// Retry repeats a failed upload
func (v *UploadView) Retry(ctx context.Context) (*model.UploadResult, error) {
	return v.sub.Retry(ctx)
}

// State returns the submission state
func (v *UploadView) State() SubmissionSnapshot[*model.UploadResult] {
	return v.sub.Snapshot()
}

// Close detaches the view
func (v *UploadView) Close() {
	v.sub.Detach()
}
