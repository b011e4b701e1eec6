package types

import "fmt"

// View identifies which view controller the navigation shell has mounted
type View string

const (
	ViewAuth           View = "auth"
	ViewDashboard      View = "dashboard"
	ViewSymptomChecker View = "symptom-checker"
	ViewUpload         View = "upload"
	ViewImageAnalysis  View = "image-analysis"
	ViewSimilarCases   View = "similar-cases"
	ViewSpeech         View = "speech"
	ViewHistory        View = "history"
)

// FeatureViews returns the views reachable from the dashboard
func FeatureViews() []View {
	return []View{
		ViewSymptomChecker,
		ViewUpload,
		ViewImageAnalysis,
		ViewSimilarCases,
		ViewSpeech,
		ViewHistory,
	}
}

// IsFeature reports whether v is a feature view
func (v View) IsFeature() bool {
	switch v {
	case ViewSymptomChecker,
		ViewUpload,
		ViewImageAnalysis,
		ViewSimilarCases,
		ViewSpeech,
		ViewHistory:
		return true
	default:
		return false
	}
}

// IsValid checks if the view is known
func (v View) IsValid() bool {
	return v == ViewAuth || v == ViewDashboard || v.IsFeature()
}

// String returns the string representation of the view
func (v View) String() string {
	return string(v)
}

// ParseView parses a string into a View
func ParseView(s string) (View, error) {
	v := View(s)
	if !v.IsValid() {
		return "", fmt.Errorf("invalid view: %s", s)
	}
	return v, nil
}
