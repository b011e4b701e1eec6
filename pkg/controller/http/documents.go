package http

import (
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/errutil"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/safe"
)

const (
	maxUploadSize   = 32 << 20
	maxFullTextSize = 4000
)

func dashboardHandler(b *backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID := chi.URLParam(r, "patient_id")
		if !b.patientExists(patientID) {
			errutil.WriteDetail(w, http.StatusNotFound, "Patient not found")
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, b.dashboard(patientID))
	}
}

func deleteDocumentHandler(b *backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID := chi.URLParam(r, "patient_id")
		documentID := chi.URLParam(r, "document_id")
		if !b.removeDocument(patientID, documentID) {
			errutil.WriteDetail(w, http.StatusNotFound, "Document not found")
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, map[string]string{
			"message":     "Document deleted successfully",
			"document_id": documentID,
		})
	}
}

func historyHandler(b *backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID := chi.URLParam(r, "patient_id")
		if !b.patientExists(patientID) {
			errutil.WriteDetail(w, http.StatusNotFound, "Patient not found")
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, b.history(patientID))
	}
}

var documentExtensions = []string{".pdf", ".jpg", ".jpeg", ".png", ".bmp", ".tiff"}

func uploadHandler(b *backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID := chi.URLParam(r, "patient_id")

		data, header, ok := readFormFile(w, r, "file")
		if !ok {
			return
		}
		if form := r.FormValue("patient_id_form"); form != "" && form != patientID {
			errutil.WriteDetail(w, http.StatusBadRequest, "Patient ID mismatch")
			return
		}
		if !b.patientExists(patientID) {
			errutil.WriteDetail(w, http.StatusNotFound, "Patient not found")
			return
		}

		contentType := header.Header.Get("Content-Type")
		ext := strings.ToLower(filepath.Ext(header.Filename))
		isPDF := contentType == "application/pdf" || ext == ".pdf"
		isImage := strings.HasPrefix(contentType, "image/")
		if !isPDF && !isImage && !containsString(documentExtensions, ext) {
			errutil.WriteDetail(w, http.StatusBadRequest, "Only PDF and image files are supported")
			return
		}

		fileType := "image"
		if isPDF {
			fileType = "pdf"
		}

		text := printableText(data)
		confidence := 0.5
		switch {
		case text != "" && isPDF:
			confidence = 0.92
		case text != "":
			confidence = 0.75
		}
		if len(text) > maxFullTextSize {
			text = text[:maxFullTextSize]
		}

		doc := &document{
			summary: model.DocumentSummary{
				DocumentID:      uuid.NewString(),
				Filename:        header.Filename,
				FileType:        fileType,
				FileSize:        int64(len(data)),
				UploadDate:      b.timestamp(),
				ConfidenceScore: &confidence,
			},
			extracted: extractMedicalData(text),
			fullText:  text,
		}
		b.addDocument(patientID, doc)

		extracted := doc.extracted
		writeJSON(r.Context(), w, http.StatusOK, model.UploadResult{
			DocumentID:    doc.summary.DocumentID,
			FileType:      fileType,
			FileSize:      doc.summary.FileSize,
			ExtractedData: &extracted,
			FullText:      text,
		})
	}
}

// readFormFile parses the multipart body and reads one file part completely
func readFormFile(w http.ResponseWriter, r *http.Request, field string) ([]byte, *multipart.FileHeader, bool) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeValidation(r.Context(), w, validationIssue{Loc: []string{"body"}, Msg: "Invalid multipart body", Type: "value_error"})
		return nil, nil, false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		writeValidation(r.Context(), w, validationIssue{Loc: []string{"body", field}, Msg: "Field required", Type: "missing"})
		return nil, nil, false
	}
	defer safe.Close(r.Context(), file)

	data, err := io.ReadAll(file)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to read upload", goerr.V("field", field)), http.StatusInternalServerError)
		return nil, nil, false
	}
	return data, header, true
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
