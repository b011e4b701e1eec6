package healthapi

import (
	"context"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/types"
)

// UploadDocument sends a medical document for extraction
func (c *Client) UploadDocument(ctx context.Context, patientID string, file *model.SelectedFile) (*model.UploadResult, error) {
	var f form
	f.addFile("file", file.Name, file.ContentType, file.Open)
	f.addField("patient_id_form", patientID)

	body, contentType, err := f.encode(ctx, MsgUploadFailed)
	if err != nil {
		return nil, err
	}

	raw, err := c.do(ctx, request{
		method:      http.MethodPost,
		url:         c.endpoint("api", "upload", patientID),
		body:        body,
		contentType: contentType,
		generic:     MsgUploadFailed,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upload document",
			goerr.V(model.PatientIDKey, patientID), goerr.V("filename", file.Name))
	}

	var result model.UploadResult
	if err := decodeJSON(raw, &result, MsgUploadFailed); err != nil {
		return nil, err
	}
	return &result, nil
}

// AnalyzeImage sends a medical image for classification and returns the inner analysis
func (c *Client) AnalyzeImage(ctx context.Context, patientID string, file *model.SelectedFile, imageType types.ImageType) (*model.ImageAnalysis, error) {
	if imageType == "" {
		imageType = types.DefaultImageType
	}

	var f form
	f.addFile("image", file.Name, file.ContentType, file.Open)
	f.addField("image_type", imageType.String())
	if patientID != "" {
		f.addField("patient_id", patientID)
	}

	body, contentType, err := f.encode(ctx, MsgAnalysisFailed)
	if err != nil {
		return nil, err
	}

	raw, err := c.do(ctx, request{
		method:      http.MethodPost,
		url:         c.endpoint("api", "analyze-image"),
		body:        body,
		contentType: contentType,
		generic:     MsgAnalysisFailed,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to analyze image",
			goerr.V(model.PatientIDKey, patientID), goerr.V("image_type", imageType))
	}

	var resp model.ImageAnalysisResponse
	if err := decodeJSON(raw, &resp, MsgAnalysisFailed); err != nil {
		return nil, err
	}
	if resp.Analysis == nil {
		return nil, goerr.Wrap(model.NewTransportFailure(http.StatusOK, MsgAnalysisFailed), "response has no analysis")
	}
	return resp.Analysis, nil
}
