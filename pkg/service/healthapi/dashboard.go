package healthapi

import (
	"context"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
)

// FetchDashboard retrieves the patient's dashboard snapshot
func (c *Client) FetchDashboard(ctx context.Context, patientID string) (*model.Dashboard, error) {
	raw, err := c.do(ctx, request{
		method:  http.MethodGet,
		url:     c.endpoint("api", "dashboard", patientID),
		generic: MsgDashboardFailed,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch dashboard", goerr.V(model.PatientIDKey, patientID))
	}

	var dashboard model.Dashboard
	if err := decodeJSON(raw, &dashboard, MsgDashboardFailed); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

// DeleteDocument removes one of the patient's documents
func (c *Client) DeleteDocument(ctx context.Context, patientID, documentID string) error {
	_, err := c.do(ctx, request{
		method:  http.MethodDelete,
		url:     c.endpoint("api", "documents", patientID, documentID),
		generic: MsgDeleteFailed,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to delete document",
			goerr.V(model.PatientIDKey, patientID), goerr.V(model.DocumentIDKey, documentID))
	}
	return nil
}

// FetchHistory retrieves the patient's stored medical history
func (c *Client) FetchHistory(ctx context.Context, patientID string) (*model.PatientHistory, error) {
	raw, err := c.do(ctx, request{
		method:  http.MethodGet,
		url:     c.endpoint("patient-history", patientID),
		generic: MsgHistoryFailed,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch history", goerr.V(model.PatientIDKey, patientID))
	}

	var history model.PatientHistory
	if err := decodeJSON(raw, &history, MsgHistoryFailed); err != nil {
		return nil, err
	}
	return &history, nil
}
