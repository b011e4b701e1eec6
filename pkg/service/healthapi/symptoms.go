package healthapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
)

// AnalyzeSymptoms runs the symptom checker
func (c *Client) AnalyzeSymptoms(ctx context.Context, req *model.SymptomRequest) (*model.Diagnosis, error) {
	body, err := jsonBody(req, MsgBackendContact)
	if err != nil {
		return nil, err
	}

	raw, err := c.do(ctx, request{
		method:      http.MethodPost,
		url:         c.endpoint("analyze-symptoms"),
		body:        body,
		contentType: "application/json",
		generic:     MsgBackendContact,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to analyze symptoms", goerr.V(model.PatientIDKey, req.PatientID))
	}

	var diagnosis model.Diagnosis
	if err := decodeJSON(raw, &diagnosis, MsgBackendContact); err != nil {
		return nil, err
	}
	return &diagnosis, nil
}

// SearchCases finds prior cases similar to query. The parameters travel in the query
// string and the body is empty.
func (c *Client) SearchCases(ctx context.Context, query string, topK int) ([]model.CaseRecord, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("top_k", strconv.Itoa(topK))

	raw, err := c.do(ctx, request{
		method:  http.MethodPost,
		url:     c.endpoint("search-cases") + "?" + params.Encode(),
		generic: MsgBackendContact,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search cases", goerr.V("top_k", topK))
	}

	// the backend reports some failures as a 2xx {"error": "..."} body
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err == nil && envelope.Error != "" {
			return nil, goerr.Wrap(model.NewBackendFailure(http.StatusOK, envelope.Error), "search returned error")
		}
		return nil, goerr.Wrap(model.NewTransportFailure(http.StatusOK, MsgBackendContact), "unexpected search response")
	}

	cases := []model.CaseRecord{}
	if err := decodeJSON(raw, &cases, MsgBackendContact); err != nil {
		return nil, err
	}
	if cases == nil {
		cases = []model.CaseRecord{}
	}
	return cases, nil
}

// SymptomCategories lists the symptom categories the backend recognises
func (c *Client) SymptomCategories(ctx context.Context) ([]string, error) {
	raw, err := c.do(ctx, request{
		method:  http.MethodGet,
		url:     c.endpoint("symptom-categories"),
		generic: MsgCategoriesFailed,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch symptom categories")
	}

	var resp model.SymptomCategories
	if err := decodeJSON(raw, &resp, MsgCategoriesFailed); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}
