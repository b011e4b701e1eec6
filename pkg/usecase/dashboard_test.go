package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/types"
	"github.com/smarthealth-ai/healthdesk/pkg/repository/memory"
	"github.com/smarthealth-ai/healthdesk/pkg/usecase"
)

func dashboardWith(ids ...string) *model.Dashboard {
	d := &model.Dashboard{PatientID: "P0001", TotalDocuments: len(ids)}
	for _, id := range ids {
		d.RecentDocuments = append(d.RecentDocuments, model.DocumentSummary{DocumentID: id, Filename: id + ".pdf"})
	}
	return d
}

func TestDashboardView(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a session", func(t *testing.T) {
		uc := usecase.New(&mockHealthAPI{}, memory.New())
		_, err := uc.NewDashboardView().Load(ctx)
		gt.Error(t, err).Is(usecase.ErrNotAuthenticated)
	})

	t.Run("load failure can be retried", func(t *testing.T) {
		attempts := 0
		api := &mockHealthAPI{
			fetchDashboardFn: func(ctx context.Context, patientID string) (*model.Dashboard, error) {
				attempts++
				if attempts == 1 {
					return nil, model.NewTransportFailure(500, "Failed to fetch dashboard data")
				}
				return dashboardWith("d1"), nil
			},
		}
		view := signedIn(t, api).NewDashboardView()

		_, err := view.Load(ctx)
		gt.Error(t, err).Is(model.ErrTransport)
		gt.Value(t, view.State().Message()).Equal("Failed to fetch dashboard data")

		d, err := view.Retry(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, d.TotalDocuments).Equal(1)
		gt.Value(t, view.State().State).Equal(types.SubmitSuccess)
	})

	t.Run("confirmed delete removes the document", func(t *testing.T) {
		var deleted string
		api := &mockHealthAPI{
			fetchDashboardFn: func(ctx context.Context, patientID string) (*model.Dashboard, error) {
				return dashboardWith("d1", "d2"), nil
			},
			deleteDocumentFn: func(ctx context.Context, patientID, documentID string) error {
				deleted = patientID + "/" + documentID
				return nil
			},
		}
		confirmer := &mockConfirmer{answer: true}
		view := signedIn(t, api, usecase.WithConfirmer(confirmer)).NewDashboardView()
		_, err := view.Load(ctx)
		gt.NoError(t, err).Required()

		gt.NoError(t, view.Delete(ctx, "d1")).Required()
		gt.Value(t, deleted).Equal("P0001/d1")
		gt.Value(t, confirmer.prompts).Equal([]string{usecase.DeleteConfirmPrompt})

		d := view.State().Result
		gt.Value(t, d.TotalDocuments).Equal(1)
		gt.Array(t, d.RecentDocuments).Length(1)
		gt.Value(t, d.RecentDocuments[0].DocumentID).Equal("d2")
	})

	t.Run("declined delete issues no request", func(t *testing.T) {
		api := &mockHealthAPI{}
		view := signedIn(t, api, usecase.WithConfirmer(&mockConfirmer{answer: false})).NewDashboardView()

		gt.Error(t, view.Delete(ctx, "d1")).Is(usecase.ErrNotConfirmed)
		gt.Value(t, api.calls.Load()).Equal(int32(0))
	})

	t.Run("without a confirmer delete is declined", func(t *testing.T) {
		api := &mockHealthAPI{}
		view := signedIn(t, api).NewDashboardView()
		gt.Error(t, view.Delete(ctx, "d1")).Is(usecase.ErrNotConfirmed)
		gt.Value(t, api.calls.Load()).Equal(int32(0))
	})

	t.Run("failed delete alerts and keeps the snapshot", func(t *testing.T) {
		api := &mockHealthAPI{
			fetchDashboardFn: func(ctx context.Context, patientID string) (*model.Dashboard, error) {
				return dashboardWith("d1"), nil
			},
			deleteDocumentFn: func(ctx context.Context, patientID, documentID string) error {
				return model.NewBackendFailure(404, "Document not found")
			},
		}
		view := signedIn(t, api, usecase.WithConfirmer(&mockConfirmer{answer: true})).NewDashboardView()
		_, err := view.Load(ctx)
		gt.NoError(t, err).Required()

		err = view.Delete(ctx, "d1")
		gt.Error(t, err).Is(model.ErrBackend)
		f, ok := model.AsFailure(err)
		gt.Bool(t, ok).True()
		gt.Value(t, f.Message).Equal(usecase.DeleteFailedMessage)
		gt.Value(t, view.Alert()).Equal(usecase.DeleteFailedMessage)
		gt.Value(t, view.Deleting()).Equal("")
		gt.Value(t, view.State().Result.TotalDocuments).Equal(1)
	})
}
