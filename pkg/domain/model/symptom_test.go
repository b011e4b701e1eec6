package model_test

import (
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/types"
)

func TestSymptomFormToRequest(t *testing.T) {
	t.Run("empty age is omitted from the body", func(t *testing.T) {
		req, err := model.SymptomForm{Symptoms: "headache", PatientID: "P1"}.ToRequest()
		gt.NoError(t, err).Required()
		gt.Value(t, req.Age).Nil()
		gt.Value(t, req.SeverityLevel).Equal(types.SeverityMedium)

		body, err := json.Marshal(req)
		gt.NoError(t, err).Required()
		var m map[string]any
		gt.NoError(t, json.Unmarshal(body, &m)).Required()
		_, hasAge := m["age"]
		gt.Bool(t, hasAge).False()
	})

	t.Run("age is coerced to a number", func(t *testing.T) {
		req, err := model.SymptomForm{Symptoms: "cough", Age: " 42 ", SeverityLevel: types.SeverityHigh}.ToRequest()
		gt.NoError(t, err).Required()
		gt.Value(t, *req.Age).Equal(42)

		body, err := json.Marshal(req)
		gt.NoError(t, err).Required()
		gt.String(t, string(body)).Contains(`"age":42`)
		gt.String(t, string(body)).Contains(`"severity_level":"high"`)
	})

	t.Run("non numeric age is a validation failure", func(t *testing.T) {
		_, err := model.SymptomForm{Symptoms: "cough", Age: "forty"}.ToRequest()
		gt.Error(t, err).Is(model.ErrValidation)
	})

	t.Run("empty symptoms are rejected", func(t *testing.T) {
		_, err := model.SymptomForm{Symptoms: "   "}.ToRequest()
		gt.Error(t, err).Is(model.ErrValidation)
	})
}

func TestDiagnosisUnmarshal(t *testing.T) {
	t.Run("known fields are decoded and raw is kept", func(t *testing.T) {
		var d model.Diagnosis
		gt.NoError(t, json.Unmarshal([]byte(`{"urgency_level":"low","recommended_actions":["rest"],"extra":1}`), &d)).Required()
		gt.Value(t, d.UrgencyLevel).Equal("low")
		gt.Array(t, d.RecommendedActions).Length(1)
		gt.String(t, string(d.Raw)).Contains(`"extra":1`)
	})

	t.Run("unexpected shape keeps only raw", func(t *testing.T) {
		var d model.Diagnosis
		gt.NoError(t, json.Unmarshal([]byte(`{"urgency_level":{"nested":true}}`), &d)).Required()
		gt.Value(t, d.UrgencyLevel).Equal("")
		gt.String(t, d.Pretty()).Contains(`"nested": true`)
	})
}
