package model

import (
	"strings"

	"github.com/smarthealth-ai/healthdesk/pkg/domain/types"
)

// ImageAnalysisResponse is the envelope of POST /api/analyze-image
type ImageAnalysisResponse struct {
	Analysis *ImageAnalysis `json:"analysis"`
}

// ImageAnalysis is the backend's classification of a medical image
type ImageAnalysis struct {
	ImageType          string              `json:"image_type,omitempty"`
	SeverityLevel      string              `json:"severity_level"`
	DetectedConditions []DetectedCondition `json:"detected_conditions"`
	Recommendations    []string            `json:"recommendations"`
	ConfidenceScores   []float64           `json:"confidence_scores"`
	Timestamp          string              `json:"timestamp"`
}

// DetectedCondition is one finding. The image metrics are only present for some classifiers.
type DetectedCondition struct {
	Condition       string   `json:"condition"`
	Confidence      float64  `json:"confidence"`
	AreaPercentage  *float64 `json:"area_percentage,omitempty"`
	TextureVariance *float64 `json:"texture_variance,omitempty"`
	EdgeDensity     *float64 `json:"edge_density,omitempty"`
}

// Severity returns the normalized severity; it may be invalid if the backend sent something new
func (a *ImageAnalysis) Severity() types.SeverityLevel {
	return types.SeverityLevel(strings.ToLower(strings.TrimSpace(a.SeverityLevel)))
}
