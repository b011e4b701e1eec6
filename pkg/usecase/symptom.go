package usecase

import (
	"context"
	"sync"

	"github.com/smarthealth-ai/healthdesk/pkg/domain/interfaces"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/types"
)

// SymptomCheckerView sends a symptom description for analysis
type SymptomCheckerView struct {
	api interfaces.HealthAPI

	mu   sync.Mutex
	form model.SymptomForm

	sub Submission[*model.Diagnosis]
}

// NewSymptomCheckerView creates the view with the patient id taken from the session
func NewSymptomCheckerView(api interfaces.HealthAPI, session *SessionStore) *SymptomCheckerView {
	form := model.SymptomForm{SeverityLevel: types.DefaultSeverityLevel}
	if current := session.Current(); current != nil {
		form.PatientID = current.PatientID
	}
	return &SymptomCheckerView{api: api, form: form}
}

// Form returns the current form
func (v *SymptomCheckerView) Form() model.SymptomForm {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form
}

// SetForm replaces the form
func (v *SymptomCheckerView) SetForm(form model.SymptomForm) {
	v.mu.Lock()
	v.form = form
	v.mu.Unlock()
	v.sub.Edit()
}

// Submit validates the form and requests an analysis
func (v *SymptomCheckerView) Submit(ctx context.Context) (*model.Diagnosis, error) {
	req, err := v.Form().ToRequest()
	if err != nil {
		return nil, v.sub.Reject(err)
	}
	return v.sub.Run(ctx, func(ctx context.Context) (*model.Diagnosis, error) {
		return v.api.AnalyzeSymptoms(ctx, req)
	})
}

// Retry repeats a failed analysis
func (v *SymptomCheckerView) Retry(ctx context.Context) (*model.Diagnosis, error) {
	return v.sub.Retry(ctx)
}

// State returns the submission state
func (v *SymptomCheckerView) State() SubmissionSnapshot[*model.Diagnosis] {
	return v.sub.Snapshot()
}

// Close detaches the view
func (v *SymptomCheckerView) Close() {
	v.sub.Detach()
}
