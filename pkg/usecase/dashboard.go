package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/interfaces"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/logging"
)

const (
	// DeleteConfirmPrompt is asked before a document is deleted
	DeleteConfirmPrompt = "Are you sure you want to delete this document?"

	// DeleteFailedMessage is the alert shown for any failed delete
	DeleteFailedMessage = "Failed to delete document."
)

// DashboardView loads the dashboard snapshot and deletes documents from it
type DashboardView struct {
	api       interfaces.HealthAPI
	session   *SessionStore
	confirmer interfaces.Confirmer

	load Submission[*model.Dashboard]

	mu       sync.Mutex
	deleting string
	alert    string
}

// NewDashboardView creates a dashboard view
func NewDashboardView(api interfaces.HealthAPI, session *SessionStore, confirmer interfaces.Confirmer) *DashboardView {
	return &DashboardView{api: api, session: session, confirmer: confirmer}
}

// Load fetches the dashboard of the signed-in patient
func (v *DashboardView) Load(ctx context.Context) (*model.Dashboard, error) {
	patientID, err := v.session.PatientID()
	if err != nil {
		return nil, err
	}
	return v.load.Run(ctx, func(ctx context.Context) (*model.Dashboard, error) {
		return v.api.FetchDashboard(ctx, patientID)
	})
}

// Retry repeats a failed load
func (v *DashboardView) Retry(ctx context.Context) (*model.Dashboard, error) {
	return v.load.Retry(ctx)
}

// Delete removes a document after explicit confirmation. On success the loaded snapshot
// drops the entry without reloading.
func (v *DashboardView) Delete(ctx context.Context, documentID string) error {
	patientID, err := v.session.PatientID()
	if err != nil {
		return err
	}

	ok, err := v.confirmer.Confirm(ctx, DeleteConfirmPrompt)
	if err != nil {
		return goerr.Wrap(err, "failed to ask for confirmation")
	}
	if !ok {
		return ErrNotConfirmed
	}

	v.mu.Lock()
	if v.deleting != "" {
		v.mu.Unlock()
		return ErrSubmitInProgress
	}
	v.deleting = documentID
	v.alert = ""
	v.mu.Unlock()

	err = v.api.DeleteDocument(ctx, patientID, documentID)

	v.mu.Lock()
	v.deleting = ""
	if err != nil {
		v.alert = DeleteFailedMessage
	}
	v.mu.Unlock()

	if err != nil {
		failure := model.NewTransportFailure(0, DeleteFailedMessage)
		if f, ok := model.AsFailure(err); ok {
			failure = &model.Failure{Kind: f.Kind, Status: f.Status, Message: DeleteFailedMessage}
		}
		return goerr.Wrap(failure, "failed to delete document",
			goerr.V(model.DocumentIDKey, documentID), goerr.V("cause", err.Error()))
	}

	if !v.load.Update(func(d *model.Dashboard) *model.Dashboard {
		next := d.Clone()
		next.RemoveDocument(documentID)
		return next
	}) {
		logging.From(ctx).Debug("document deleted before dashboard was loaded", "document_id", documentID)
	}
	return nil
}

// Deleting returns the id of the document being deleted, if any
func (v *DashboardView) Deleting() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.deleting
}

// Alert returns the message of the last failed delete
func (v *DashboardView) Alert() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.alert
}

// State returns the load state
func (v *DashboardView) State() SubmissionSnapshot[*model.Dashboard] {
	return v.load.Snapshot()
}

// Close detaches the view
func (v *DashboardView) Close() {
	v.load.Detach()
}
