package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/smarthealth-ai/healthdesk/pkg/controller/http"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
)

func do(t *testing.T, srv http.Handler, method, path, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func registerPatient(t *testing.T, srv http.Handler) model.UserSession {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/auth/register", "application/json",
		strings.NewReader(`{"email":"grace@example.com","password":"hopper1","first_name":"Grace","last_name":"Hopper"}`))
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var session model.UserSession
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session)).Required()
	return session
}

func multipartBody(t *testing.T, field, filename, contentType string, content []byte, fields map[string]string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", multipart.FileContentDisposition(field, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	gt.NoError(t, err).Required()
	_, err = part.Write(content)
	gt.NoError(t, err).Required()

	for k, v := range fields {
		gt.NoError(t, mw.WriteField(k, v)).Required()
	}
	gt.NoError(t, mw.Close()).Required()
	return &buf, mw.FormDataContentType()
}

func TestRegister(t *testing.T) {
	fixed := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	srv := httpctrl.New(httpctrl.WithClock(func() time.Time { return fixed }))

	session := registerPatient(t, srv)
	gt.Value(t, session.CreatedAt).Equal("2024-05-06T07:08:09.000000")
	gt.Value(t, session.Email).Equal("grace@example.com")
	gt.Value(t, session.ChronicConditions).Equal([]string{})

	t.Run("validation failures use the 422 list envelope", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/api/auth/register", "application/json",
			strings.NewReader(`{"email":"x@example.com","password":"123","first_name":"A","last_name":"B"}`))
		gt.Value(t, rec.Code).Equal(http.StatusUnprocessableEntity)

		var body struct {
			Detail []struct {
				Loc []string `json:"loc"`
				Msg string   `json:"msg"`
			} `json:"detail"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body)).Required()
		gt.Array(t, body.Detail).Length(1)
		gt.Value(t, body.Detail[0].Loc).Equal([]string{"body", "password"})
		gt.String(t, body.Detail[0].Msg).Contains("at least 6")
	})
}

func TestUploadRejectsUnsupportedFiles(t *testing.T) {
	srv := httpctrl.New()
	session := registerPatient(t, srv)

	body, ct := multipartBody(t, "file", "notes.txt", "text/plain", []byte("hello"), map[string]string{"patient_id_form": session.PatientID})
	rec := do(t, srv, http.MethodPost, "/api/upload/"+session.PatientID, ct, body)
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	gt.String(t, rec.Body.String()).Contains("Only PDF and image files are supported")
}

func TestUploadRequiresFileField(t *testing.T) {
	srv := httpctrl.New()
	session := registerPatient(t, srv)

	body, ct := multipartBody(t, "document", "a.pdf", "application/pdf", []byte("%PDF"), nil)
	rec := do(t, srv, http.MethodPost, "/api/upload/"+session.PatientID, ct, body)
	gt.Value(t, rec.Code).Equal(http.StatusUnprocessableEntity)
}

func TestDashboardAggregates(t *testing.T) {
	srv := httpctrl.New()
	session := registerPatient(t, srv)

	rec := do(t, srv, http.MethodGet, "/api/dashboard/"+session.PatientID, "", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.String(t, rec.Body.String()).Contains(`"total_documents":0`)

	var empty model.Dashboard
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &empty)).Required()
	gt.Value(t, empty.HealthSummary.ExtractionConfidenceAvg).Nil()

	for _, name := range []string{"a.pdf", "b.png"} {
		body, ct := multipartBody(t, "file", name, "", []byte("asthma treated with albuterol"), map[string]string{"patient_id_form": session.PatientID})
		rec := do(t, srv, http.MethodPost, "/api/upload/"+session.PatientID, ct, body)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
	}

	rec = do(t, srv, http.MethodGet, "/api/dashboard/"+session.PatientID, "", nil)
	var d model.Dashboard
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d)).Required()
	gt.Value(t, d.TotalDocuments).Equal(2)
	gt.Value(t, d.RecentDocuments[0].Filename).Equal("b.png")
	gt.Value(t, d.RecentDocuments[1].FileType).Equal("pdf")
	gt.Value(t, d.HealthSummary.ExtractionConfidenceAvg).NotNil()
}

func TestSearchCases(t *testing.T) {
	srv := httpctrl.New(httpctrl.WithCases([]httpctrl.CaseSeed{
		{Symptoms: "sore throat and fever", Diagnosis: "Strep throat"},
		{Symptoms: "knee pain after running", Diagnosis: "Patellar tendinitis"},
	}))

	t.Run("returns best matches first", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/search-cases?query=fever+and+sore+throat&top_k=1", "", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var cases []model.CaseRecord
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cases)).Required()
		gt.Array(t, cases).Length(1)
		gt.Value(t, cases[0].Diagnosis).Equal("Strep throat")
		gt.Value(t, cases[0].CaseID).Equal("CASE-001")
	})

	t.Run("no match is an empty array", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/search-cases?query=hiccups", "", nil)
		gt.Value(t, strings.TrimSpace(rec.Body.String())).Equal("[]")
	})

	t.Run("missing query is a 422", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/search-cases", "", nil)
		gt.Value(t, rec.Code).Equal(http.StatusUnprocessableEntity)
	})

	t.Run("non positive top_k is reported in a 2xx error body", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/search-cases?query=fever&top_k=0", "", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.String(t, rec.Body.String()).Contains(`"error"`)
	})
}

func TestSpeechRejectsNonAudio(t *testing.T) {
	srv := httpctrl.New()
	body, ct := multipartBody(t, "audio", "recording.webm", "video/webm", []byte("x"), nil)
	rec := do(t, srv, http.MethodPost, "/api/speech-to-symptoms", ct, body)
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	gt.String(t, rec.Body.String()).Contains("Only audio files are supported")
}

func TestSpeechEmptyAudioIsUnsuccessful(t *testing.T) {
	srv := httpctrl.New()
	body, ct := multipartBody(t, "audio", "recording.webm", "audio/webm", nil, nil)
	rec := do(t, srv, http.MethodPost, "/api/speech-to-symptoms", ct, body)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.String(t, rec.Body.String()).Contains(`"success":false`)
}
