package console

import (
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/types"
)

// Renderer writes view results as plain text. Sections the backend did not
// return are omitted.
type Renderer struct {
	w       io.Writer
	noColor bool
}

type RendererOption func(*Renderer)

// WithoutColor disables ANSI colors, e.g. when stdout is not a terminal
func WithoutColor() RendererOption {
	return func(r *Renderer) {
		r.noColor = true
	}
}

func NewRenderer(w io.Writer, opts ...RendererOption) *Renderer {
	r := &Renderer{w: w}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) paint(s string, attrs ...color.Attribute) string {
	if r.noColor {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

func (r *Renderer) heading(title string) {
	r.printf("\n%s\n", r.paint(title, color.Bold, color.FgHiWhite))
}

func (r *Renderer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.w, format, args...)
}

func (r *Renderer) list(items []string) {
	for _, item := range items {
		r.printf("  - %s\n", item)
	}
}

var severityColors = map[types.SeverityLevel][]color.Attribute{
	types.SeverityLow:      {color.FgGreen},
	types.SeverityMedium:   {color.FgYellow},
	types.SeverityHigh:     {color.FgRed},
	types.SeverityCritical: {color.FgHiRed, color.Bold},
}

// Severity renders a severity badge
func (r *Renderer) Severity(level string) string {
	normalized := types.SeverityLevel(strings.ToLower(strings.TrimSpace(level)))
	label := strings.ToUpper(level)
	attrs, ok := severityColors[normalized]
	if !ok {
		return label
	}
	return r.paint(label, attrs...)
}

// Error renders a failure message
func (r *Renderer) Error(msg string) {
	if msg == "" {
		return
	}
	r.printf("%s %s\n", r.paint("Error:", color.FgRed, color.Bold), msg)
}

// Notice renders an informational line
func (r *Renderer) Notice(msg string) {
	r.printf("%s\n", r.paint(msg, color.FgCyan))
}

// Session renders the signed-in user's profile
func (r *Renderer) Session(s *model.UserSession) {
	if s == nil {
		r.Notice("Not signed in")
		return
	}
	r.heading("Profile Information")
	r.printf("  Name:       %s\n", s.FullName())
	r.printf("  Email:      %s\n", s.Email)
	r.printf("  Patient ID: %s\n", s.PatientID)
	if s.Phone != nil && *s.Phone != "" {
		r.printf("  Phone:      %s\n", *s.Phone)
	}
	if s.Age != nil {
		r.printf("  Age:        %d\n", *s.Age)
	}
	if s.Gender != nil && *s.Gender != "" {
		r.printf("  Gender:     %s\n", *s.Gender)
	}
	if len(s.ChronicConditions) > 0 {
		r.printf("  Conditions: %s\n", strings.Join(s.ChronicConditions, ", "))
	}
	if s.LastLogin != "" {
		r.printf("  Last login: %s\n", model.FormatTimestamp(s.LastLogin))
	}
}

// Dashboard renders the health summary and the recent documents. deleting marks the
// document whose delete is in flight.
func (r *Renderer) Dashboard(user *model.UserSession, d *model.Dashboard, deleting string) {
	if user != nil {
		r.printf("Welcome back, %s!\n", user.DisplayName())
		r.printf("Your Patient ID: %s\n", user.PatientID)
	}

	r.heading("Health Summary")
	quality := "0%"
	if avg := d.HealthSummary.ExtractionConfidenceAvg; avg != nil && *avg > 0 {
		quality = model.FormatQuality(*avg)
	}
	r.printf("  Documents Uploaded: %d\n", d.TotalDocuments)
	r.printf("  Data Quality:       %s\n", quality)
	r.printf("  Recent Checks:      %d\n", len(d.RecentDiagnoses))

	r.heading("Recent Documents")
	if len(d.RecentDocuments) == 0 {
		r.printf("  No documents yet. Upload your medical records to get started.\n")
		return
	}
	for _, doc := range d.RecentDocuments {
		r.printf("  [%s] %s\n", doc.DocumentID, doc.Filename)
		r.printf("      %s, %s, uploaded %s\n", doc.FileType, model.FormatFileSize(doc.FileSize), model.FormatDate(doc.UploadDate))
		if doc.HasQuality() {
			r.printf("      Quality: %s\n", model.FormatQuality(*doc.ConfidenceScore))
		}
		if doc.DocumentID == deleting {
			r.printf("      %s\n", r.paint("deleting...", color.FgYellow))
		}
	}
}

// UploadResult renders the extraction of an uploaded document
func (r *Renderer) UploadResult(res *model.UploadResult) {
	r.heading("Processing Results")
	r.printf("  Document ID: %s\n", res.DocumentID)
	r.printf("  File Type:   %s\n", res.FileType)
	r.printf("  File Size:   %s\n", model.FormatFileSize(res.FileSize))

	if data := res.ExtractedData; data != nil {
		r.heading("Extracted Medical Information")
		r.entries("Medical Conditions", data.MedicalConditions)
		r.entries("Medications", data.Medications)
		r.entries("Allergies", data.Allergies)
		r.entries("Surgeries", data.Surgeries)
		if data.LabResults != nil {
			r.printf("  Lab Results:\n")
			for _, lab := range data.LabResults {
				r.printf("    - %s\n", lab.String())
			}
		}
	}

	if res.FullText != "" {
		r.heading("Full Extracted Text")
		r.printf("%s\n", res.FullText)
	}
}

func (r *Renderer) entries(title string, entries []model.Entry) {
	if entries == nil {
		return
	}
	r.printf("  %s:\n", title)
	for _, e := range entries {
		r.printf("    - %s\n", e.String())
	}
}

// ImageAnalysis renders detected conditions and recommendations
func (r *Renderer) ImageAnalysis(a *model.ImageAnalysis) {
	r.heading("Analysis Results")
	if a.SeverityLevel != "" {
		r.printf("  Severity: %s\n", r.Severity(a.SeverityLevel))
	}

	if len(a.DetectedConditions) > 0 {
		r.heading("Detected Conditions")
		for _, c := range a.DetectedConditions {
			r.printf("  - %s (%s)\n", c.Condition, model.FormatConfidence(c.Confidence))
			if c.AreaPercentage != nil {
				r.printf("      Area: %s\n", model.FormatPercent(*c.AreaPercentage))
			}
			if c.TextureVariance != nil {
				r.printf("      Texture variance: %.0f\n", *c.TextureVariance)
			}
			if c.EdgeDensity != nil {
				r.printf("      Edge density: %s\n", model.FormatConfidence(*c.EdgeDensity))
			}
		}
	}

	if len(a.Recommendations) > 0 {
		r.heading("Recommendations")
		r.list(a.Recommendations)
	}

	if len(a.ConfidenceScores) > 0 {
		scores := make([]string, len(a.ConfidenceScores))
		for i, s := range a.ConfidenceScores {
			scores[i] = model.FormatConfidence(s)
		}
		r.printf("\nAnalysis Confidence: %s\n", strings.Join(scores, ", "))
	}
	if a.Timestamp != "" {
		r.printf("Analyzed at %s\n", model.FormatTimestamp(a.Timestamp))
	}
}

// Diagnosis renders a symptom checker result. Unknown shapes fall back to indented JSON.
func (r *Renderer) Diagnosis(d *model.Diagnosis) {
	r.heading("Result")

	known := len(d.ProbableDiagnoses) > 0 || d.SeverityAssessment != "" || d.UrgencyLevel != "" ||
		len(d.RecommendedActions) > 0 || len(d.SuggestedTests) > 0
	if !known {
		r.printf("%s\n", d.Pretty())
		return
	}

	for _, p := range d.ProbableDiagnoses {
		name, _ := p["condition"].(string)
		if name == "" {
			name, _ = p["name"].(string)
		}
		if prob, ok := p["probability"].(float64); ok {
			r.printf("  - %s (%s)\n", name, model.FormatConfidence(prob))
		} else {
			r.printf("  - %s\n", name)
		}
	}
	if d.SeverityAssessment != "" {
		r.printf("  Severity: %s\n", r.Severity(d.SeverityAssessment))
	}
	if d.UrgencyLevel != "" {
		r.printf("  Urgency:  %s\n", d.UrgencyLevel)
	}
	if d.ConfidenceScore != nil {
		r.printf("  Confidence: %s\n", model.FormatConfidence(*d.ConfidenceScore))
	}
	if len(d.RecommendedActions) > 0 {
		r.heading("Recommended Actions")
		r.list(d.RecommendedActions)
	}
	if len(d.SuggestedTests) > 0 {
		r.heading("Suggested Tests")
		r.list(d.SuggestedTests)
	}
	if d.Disclaimer != "" {
		r.printf("\n%s\n", r.paint(d.Disclaimer, color.Faint))
	}
}

// Cases renders similar case search results. An empty result is not an error.
func (r *Renderer) Cases(res *model.SearchResults) {
	r.heading("Results:")
	if res.Empty() {
		r.printf("  No similar cases found.\n")
		return
	}
	for _, c := range res.Cases {
		r.printf("  [%s] %s\n", c.CaseID, c.Symptoms)
		if c.Diagnosis != "" {
			r.printf("      Diagnosis: %s\n", c.Diagnosis)
		}
		if c.Treatment != "" {
			r.printf("      Treatment: %s\n", c.Treatment)
		}
		if c.Outcome != "" {
			r.printf("      Outcome:   %s\n", c.Outcome)
		}
		if c.Category != "" {
			r.printf("      Category:  %s\n", c.Category)
		}
	}
}

// Capture renders the recorder state
func (r *Renderer) Capture(c model.AudioCapture) {
	switch c.State {
	case types.CaptureRecording:
		r.printf("%s %s\n", r.paint("Recording", color.FgRed, color.Bold), model.FormatRecordingTime(c.Elapsed))
	case types.CaptureStopped, types.CaptureProcessing:
		var size int64
		if c.Blob != nil {
			size = int64(c.Blob.Size())
		}
		r.printf("Recording Preview: %s (%s, %s)\n", c.PlaybackURL, model.FormatRecordingTime(c.Elapsed),
			model.FormatFileSize(size))
	default:
		r.printf("Ready to record\n")
	}
}

// Speech renders transcription, extracted symptoms and diagnosis
func (r *Renderer) Speech(res *model.SpeechResult) {
	if res.Transcription.TranscribedText != "" {
		r.heading("Transcribed Text")
		r.printf("  %s\n", res.Transcription.TranscribedText)
	}

	if s := res.ExtractedSymptoms; s != nil {
		r.heading("Extracted Symptoms")
		for _, category := range s.CategoryNames() {
			r.printf("  %s: %s\n", capitalize(category), strings.Join(s.Categories[category], ", "))
		}
		r.printf("  Symptom count: %d\n", s.SymptomCount)
		if s.Duration != "" {
			r.printf("  Duration: %s\n", s.Duration)
		}
		if len(s.SeverityIndicators) > 0 {
			r.printf("  Severity indicators: %s\n", strings.Join(s.SeverityIndicators, ", "))
		}
	}

	if d := res.Diagnosis; d != nil {
		r.heading("AI Analysis")
		if d.SeverityLevel != "" {
			r.printf("  Severity: %s\n", r.Severity(d.SeverityLevel))
		}
		if len(d.PossibleConditions) > 0 {
			r.printf("  Possible conditions:\n")
			for _, c := range d.PossibleConditions {
				r.printf("    - %s\n", c)
			}
		}
		if len(d.Recommendations) > 0 {
			r.printf("  Recommendations:\n")
			for _, c := range d.Recommendations {
				r.printf("    - %s\n", c)
			}
		}
	}
}

// History renders the aggregated medical history
func (r *Renderer) History(h *model.PatientHistory) {
	r.heading("Medical History")
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		r.printf("  %s: %s\n", title, strings.Join(items, ", "))
	}
	section("Medical Conditions", h.MedicalConditions)
	section("Medications", h.Medications)
	section("Allergies", h.Allergies)
	section("Surgeries", h.Surgeries)
	for relation, conditions := range sortedFamily(h.FamilyHistory) {
		section("Family ("+relation+")", conditions)
	}
	if len(h.LabResults) > 0 {
		r.printf("  Lab Results:\n")
		for _, lab := range h.LabResults {
			r.printf("    - %s\n", lab.String())
		}
	}
	if h.Notes != "" {
		r.printf("  Notes: %s\n", h.Notes)
	}
	if h.LastUpdated != "" {
		r.printf("  Last updated: %s\n", model.FormatTimestamp(h.LastUpdated))
	}
}

// Categories renders the symptom category names
func (r *Renderer) Categories(categories []string) {
	r.heading("Symptom Categories")
	for _, c := range categories {
		r.printf("  - %s\n", capitalize(c))
	}
}

func sortedFamily(family map[string][]string) iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, relation := range slices.Sorted(maps.Keys(family)) {
			if !yield(relation, family[relation]) {
				return
			}
		}
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
