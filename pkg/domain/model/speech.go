package model

import (
	"maps"
	"slices"
)

// SpeechResult is the response of POST /api/speech-to-symptoms
type SpeechResult struct {
	Success           bool               `json:"success"`
	Transcription     Transcription      `json:"transcription"`
	ExtractedSymptoms *ExtractedSymptoms `json:"extracted_symptoms,omitempty"`
	Diagnosis         *SpeechDiagnosis   `json:"diagnosis,omitempty"`
}

// Transcription is the recognised text of a recording
type Transcription struct {
	TranscribedText string `json:"transcribed_text"`
}

// ExtractedSymptoms groups symptom phrases by category
type ExtractedSymptoms struct {
	Categories         map[string][]string `json:"extracted_symptoms"`
	SymptomCount       int                 `json:"symptom_count"`
	Duration           string              `json:"duration,omitempty"`
	SeverityIndicators []string            `json:"severity_indicators,omitempty"`
}

// CategoryNames returns the category keys in stable order
func (e *ExtractedSymptoms) CategoryNames() []string {
	return slices.Sorted(maps.Keys(e.Categories))
}

// SpeechDiagnosis is the backend's assessment of the transcribed symptoms
type SpeechDiagnosis struct {
	PossibleConditions []string `json:"possible_conditions"`
	Recommendations    []string `json:"recommendations,omitempty"`
	SeverityLevel      string   `json:"severity_level,omitempty"`
}
