package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/smarthealth-ai/healthdesk/pkg/domain/types"
)

// SymptomForm holds the raw symptom checker inputs
type SymptomForm struct {
	Symptoms          string
	PatientID         string
	SeverityLevel     types.SeverityLevel
	AdditionalContext string
	Age               string
	Gender            string
}

// SymptomRequest is the JSON body of POST /analyze-symptoms
type SymptomRequest struct {
	Symptoms          string              `json:"symptoms" validate:"required"`
	PatientID         string              `json:"patient_id"`
	SeverityLevel     types.SeverityLevel `json:"severity_level" validate:"oneof=low medium high critical"`
	AdditionalContext string              `json:"additional_context"`
	Age               *int                `json:"age,omitempty" validate:"omitempty,gte=0"`
	Gender            string              `json:"gender"`
}

// ToRequest coerces the age field and validates the form. An empty age is omitted.
func (f SymptomForm) ToRequest() (*SymptomRequest, error) {
	age, err := ParseOptionalInt("age", f.Age)
	if err != nil {
		return nil, err
	}

	severity := f.SeverityLevel
	if severity == "" {
		severity = types.DefaultSeverityLevel
	}

	req := &SymptomRequest{
		Symptoms:          strings.TrimSpace(f.Symptoms),
		PatientID:         strings.TrimSpace(f.PatientID),
		SeverityLevel:     severity,
		AdditionalContext: f.AdditionalContext,
		Age:               age,
		Gender:            f.Gender,
	}
	if err := ValidateForm(req); err != nil {
		return nil, err
	}
	return req, nil
}

// Diagnosis is the symptom checker response. The backend owns its shape, so the known
// fields are decoded on a best-effort basis and Raw always keeps the body verbatim.
type Diagnosis struct {
	ProbableDiagnoses  []map[string]any `json:"probable_diagnoses,omitempty"`
	SeverityAssessment string           `json:"severity_assessment,omitempty"`
	RecommendedActions []string         `json:"recommended_actions,omitempty"`
	SuggestedTests     []string         `json:"suggested_tests,omitempty"`
	UrgencyLevel       string           `json:"urgency_level,omitempty"`
	ConfidenceScore    *float64         `json:"confidence_score,omitempty"`
	Disclaimer         string           `json:"disclaimer,omitempty"`
	Timestamp          string           `json:"timestamp,omitempty"`

	Raw json.RawMessage `json:"-"`
}

func (d *Diagnosis) UnmarshalJSON(data []byte) error {
	type known Diagnosis
	var k known
	// A shape we do not understand is still a valid response; only Raw is kept then.
	if err := json.Unmarshal(data, &k); err != nil {
		k = known{}
	}
	*d = Diagnosis(k)
	d.Raw = bytes.Clone(data)
	return nil
}

// Pretty returns the raw response indented for display
func (d *Diagnosis) Pretty() string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, d.Raw, "", "  "); err != nil {
		return string(d.Raw)
	}
	return buf.String()
}
