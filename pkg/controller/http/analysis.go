package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/types"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/errutil"
)

const defaultTranscript = "I have had a headache and a mild fever for two days"

const disclaimer = "This is an AI-generated assessment and not a substitute for professional medical advice."

func analyzeImageHandler(b *backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, header, ok := readFormFile(w, r, "image")
		if !ok {
			return
		}
		if ct := header.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
			errutil.WriteDetail(w, http.StatusBadRequest, "Only image files are supported")
			return
		}

		imageType := types.DefaultImageType
		if raw := r.FormValue("image_type"); raw != "" {
			parsed, err := types.ParseImageType(raw)
			if err != nil {
				errutil.WriteDetail(w, http.StatusBadRequest, "Unsupported image type: "+raw)
				return
			}
			imageType = parsed
		}

		analysis := analyzeImage(data, imageType, b.timestamp())
		if patientID := r.FormValue("patient_id"); patientID != "" && b.patientExists(patientID) {
			b.addAnalysis(patientID, analysis)
		}

		writeJSON(r.Context(), w, http.StatusOK, model.ImageAnalysisResponse{Analysis: &analysis})
	}
}

func analyzeSymptomsHandler(b *backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.SymptomRequest
		if !decodeBody(w, r, &req) {
			return
		}

		a := assess(req.Symptoms)
		diagnoses := make([]map[string]any, 0, len(a.conditions))
		for i, c := range a.conditions {
			diagnoses = append(diagnoses, map[string]any{
				"condition":   c,
				"probability": 0.7 / float64(i+1),
			})
		}
		confidence := 0.65
		if len(a.conditions) > 1 {
			confidence = 0.55
		}

		writeJSON(r.Context(), w, http.StatusOK, map[string]any{
			"probable_diagnoses":  diagnoses,
			"severity_assessment": "Reported severity: " + req.SeverityLevel.Label(),
			"recommended_actions": a.recommendations,
			"suggested_tests":     []string{"Complete blood count", "Basic metabolic panel"},
			"urgency_level":       urgencyFor(req.SeverityLevel, a.urgent),
			"confidence_score":    confidence,
			"disclaimer":          disclaimer,
			"timestamp":           b.timestamp(),
		})
	}
}

func searchCasesHandler(b *backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		if strings.TrimSpace(query) == "" {
			writeValidation(r.Context(), w, validationIssue{Loc: []string{"query", "query"}, Msg: "Field required", Type: "missing"})
			return
		}

		topK := 3
		if raw := r.URL.Query().Get("top_k"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				writeValidation(r.Context(), w, validationIssue{Loc: []string{"query", "top_k"}, Msg: "Input should be a valid integer", Type: "int_parsing"})
				return
			}
			topK = n
		}
		if topK < 1 {
			writeJSON(r.Context(), w, http.StatusOK, map[string]string{"error": "top_k must be at least 1"})
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, b.searchCases(query, topK))
	}
}

func speechHandler(b *backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, header, ok := readFormFile(w, r, "audio")
		if !ok {
			return
		}
		if ct := header.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "audio/") {
			errutil.WriteDetail(w, http.StatusBadRequest, "Only audio files are supported")
			return
		}
		if len(data) == 0 {
			writeJSON(r.Context(), w, http.StatusOK, map[string]any{"success": false, "error": "Empty audio"})
			return
		}

		transcript := printableText(data)
		if transcript == "" {
			transcript = defaultTranscript
		}

		symptoms := extractSymptoms(transcript)
		a := assess(transcript)
		severity := types.SeverityMedium
		if a.urgent || containsString(symptoms.SeverityIndicators, "severe") {
			severity = types.SeverityHigh
		}

		writeJSON(r.Context(), w, http.StatusOK, model.SpeechResult{
			Success:           true,
			Transcription:     model.Transcription{TranscribedText: transcript},
			ExtractedSymptoms: symptoms,
			Diagnosis: &model.SpeechDiagnosis{
				PossibleConditions: a.conditions,
				Recommendations:    a.recommendations,
				SeverityLevel:      severity.String(),
			},
		})
	}
}

func categoriesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, model.SymptomCategories{Categories: categoryNames})
}
