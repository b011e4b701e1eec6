package usecase

import (
	"context"

	"github.com/smarthealth-ai/healthdesk/pkg/domain/interfaces"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
)

// HistoryView loads the aggregated medical history of the signed-in patient
type HistoryView struct {
	api     interfaces.HealthAPI
	session *SessionStore

	sub Submission[*model.PatientHistory]
}

// NewHistoryView creates a history view
func NewHistoryView(api interfaces.HealthAPI, session *SessionStore) *HistoryView {
	return &HistoryView{api: api, session: session}
}

// Load fetches the history
func (v *HistoryView) Load(ctx context.Context) (*model.PatientHistory, error) {
	patientID, err := v.session.PatientID()
	if err != nil {
		return nil, err
	}
	return v.sub.Run(ctx, func(ctx context.Context) (*model.PatientHistory, error) {
		return v.api.FetchHistory(ctx, patientID)
	})
}

// Retry repeats a failed load
func (v *HistoryView) Retry(ctx context.Context) (*model.PatientHistory, error) {
	return v.sub.Retry(ctx)
}

// State returns the load state
func (v *HistoryView) State() SubmissionSnapshot[*model.PatientHistory] {
	return v.sub.Snapshot()
}

// Close detaches the view
func (v *HistoryView) Close() {
	v.sub.Detach()
}
