package healthapi

import (
	"context"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
)

// TranscribeAndDiagnose sends a recording for transcription and symptom extraction
func (c *Client) TranscribeAndDiagnose(ctx context.Context, patientID string, audio *model.AudioBlob) (*model.SpeechResult, error) {
	var f form
	f.addFile("audio", audio.Filename(), audio.MIMEType, bytesOpener(audio.Data))
	f.addField("patient_id", patientID)

	body, contentType, err := f.encode(ctx, MsgSpeechFailed)
	if err != nil {
		return nil, err
	}

	raw, err := c.do(ctx, request{
		method:      http.MethodPost,
		url:         c.endpoint("api", "speech-to-symptoms"),
		body:        body,
		contentType: contentType,
		generic:     MsgSpeechFailed,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to process speech",
			goerr.V(model.PatientIDKey, patientID), goerr.V("size", audio.Size()))
	}

	var result model.SpeechResult
	if err := decodeJSON(raw, &result, MsgSpeechFailed); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, goerr.Wrap(model.NewBackendFailure(http.StatusOK, MsgSpeechFailed), "backend reported unsuccessful speech processing")
	}
	return &result, nil
}
