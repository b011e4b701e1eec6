package http

import (
	"crypto/sha256"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/types"
)

var (
	conditionTerms  = []string{"diabetes", "hypertension", "asthma", "arthritis", "migraine", "eczema", "depression", "hypothyroidism", "copd"}
	medicationTerms = []string{"metformin", "lisinopril", "albuterol", "ibuprofen", "aspirin", "atorvastatin", "levothyroxine", "insulin"}
	allergyTerms    = []string{"penicillin", "peanuts", "latex", "sulfa", "shellfish"}
	surgeryTerms    = []string{"appendectomy", "cholecystectomy", "tonsillectomy", "knee replacement", "bypass"}

	labPattern = regexp.MustCompile(`(?i)\b(glucose|hba1c|cholesterol|hemoglobin|tsh)\s*[:=]?\s*([0-9]+(?:\.[0-9]+)?)\s*(mg/dl|g/dl|miu/l|%)?`)

	durationPattern = regexp.MustCompile(`(?i)\b(?:for|since)\s+((?:a|an|one|two|three|four|five|six|seven|[0-9]+)\s+(?:hour|day|week|month)s?)`)
)

// symptomCategories drives speech extraction; keys are reported as categories
var symptomCategories = map[string][]string{
	"pain":         {"pain", "ache", "headache", "sore", "cramps"},
	"respiratory":  {"cough", "shortness of breath", "wheezing", "congestion"},
	"digestive":    {"nausea", "vomiting", "diarrhea", "stomach"},
	"general":      {"fever", "fatigue", "chills", "dizziness"},
	"dermatologic": {"rash", "itching", "itchy", "swelling"},
}

var severityWords = []string{"severe", "mild", "moderate", "sharp", "constant", "worse", "unbearable"}

// categoryNames is the list served by GET /symptom-categories
var categoryNames = []string{
	"Respiratory",
	"Cardiovascular",
	"Gastrointestinal",
	"Neurological",
	"Dermatological",
	"Musculoskeletal",
	"Endocrine",
	"Mental Health",
	"General",
}

// printableText keeps the readable part of an upload. Binary content yields "".
func printableText(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var sb strings.Builder
	printable := 0
	for _, r := range string(data) {
		if r == unicode.ReplacementChar {
			continue
		}
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			printable++
			sb.WriteRune(r)
		}
	}
	if printable*10 < len(data)*8 {
		return ""
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func findTerms(text string, vocabulary []string) []model.Entry {
	lower := strings.ToLower(text)
	var found []string
	for _, term := range vocabulary {
		if strings.Contains(lower, term) {
			found = append(found, term)
		}
	}
	return model.TextEntries(found...)
}

func extractMedicalData(text string) model.ExtractedData {
	data := model.ExtractedData{
		MedicalConditions: findTerms(text, conditionTerms),
		Medications:       findTerms(text, medicationTerms),
		Allergies:         findTerms(text, allergyTerms),
		Surgeries:         findTerms(text, surgeryTerms),
		LabResults:        []model.LabResult{},
	}
	for _, m := range labPattern.FindAllStringSubmatch(text, -1) {
		data.LabResults = append(data.LabResults, model.LabResult{Test: m[1], Value: m[2], Unit: m[3]})
	}
	return data
}

func extractSymptoms(text string) *model.ExtractedSymptoms {
	lower := strings.ToLower(text)
	result := &model.ExtractedSymptoms{
		Categories:         map[string][]string{},
		SeverityIndicators: []string{},
	}
	for category, words := range symptomCategories {
		for _, w := range words {
			if strings.Contains(lower, w) {
				result.Categories[category] = append(result.Categories[category], w)
				result.SymptomCount++
			}
		}
	}
	for _, w := range severityWords {
		if strings.Contains(lower, w) {
			result.SeverityIndicators = append(result.SeverityIndicators, w)
		}
	}
	if m := durationPattern.FindStringSubmatch(text); m != nil {
		result.Duration = m[1]
	}
	return result
}

type conditionRule struct {
	keywords        []string
	condition       string
	recommendations []string
	urgent          bool
}

var conditionRules = []conditionRule{
	{keywords: []string{"chest pain", "chest tightness", "palpitations"}, condition: "Possible cardiac event", recommendations: []string{"Seek emergency care immediately"}, urgent: true},
	{keywords: []string{"headache", "migraine"}, condition: "Tension headache", recommendations: []string{"Rest in a quiet, dark room", "Stay hydrated"}},
	{keywords: []string{"cough", "congestion", "sore throat"}, condition: "Viral upper respiratory infection", recommendations: []string{"Rest and fluids", "Monitor temperature"}},
	{keywords: []string{"fever", "chills"}, condition: "Influenza", recommendations: []string{"Antipyretics as needed", "Consult a doctor if fever exceeds three days"}},
	{keywords: []string{"nausea", "vomiting", "diarrhea"}, condition: "Acute gastroenteritis", recommendations: []string{"Oral rehydration", "Bland diet"}},
	{keywords: []string{"rash", "itch", "hives"}, condition: "Contact dermatitis", recommendations: []string{"Avoid suspected irritants", "Topical hydrocortisone"}},
}

type assessment struct {
	conditions      []string
	recommendations []string
	urgent          bool
}

func assess(text string) assessment {
	lower := strings.ToLower(text)
	var a assessment
	for _, rule := range conditionRules {
		if slices.ContainsFunc(rule.keywords, func(k string) bool { return strings.Contains(lower, k) }) {
			a.conditions = append(a.conditions, rule.condition)
			a.recommendations = append(a.recommendations, rule.recommendations...)
			a.urgent = a.urgent || rule.urgent
		}
	}
	if len(a.conditions) == 0 {
		a.conditions = []string{"Non-specific symptoms"}
		a.recommendations = []string{"Monitor symptoms", "Consult a healthcare provider if symptoms persist"}
	}
	return a
}

func urgencyFor(severity types.SeverityLevel, urgent bool) string {
	switch {
	case urgent || severity == types.SeverityCritical:
		return "emergency"
	case severity == types.SeverityHigh:
		return "high"
	case severity == types.SeverityLow:
		return "low"
	default:
		return "medium"
	}
}

var imageConditions = map[types.ImageType][]string{
	types.ImageTypeSkin:           {"Benign nevus", "Seborrheic keratosis"},
	types.ImageTypeRash:           {"Contact dermatitis", "Urticaria"},
	types.ImageTypeWound:          {"Superficial abrasion", "Laceration"},
	types.ImageTypeDermatological: {"Eczema", "Psoriasis"},
}

// analyzeImage derives a stable pseudo analysis from the image bytes
func analyzeImage(data []byte, imageType types.ImageType, timestamp string) model.ImageAnalysis {
	sum := sha256.Sum256(data)
	frac := func(i int) float64 { return float64(sum[i]) / 255 }

	analysis := model.ImageAnalysis{
		ImageType:          imageType.String(),
		DetectedConditions: []model.DetectedCondition{},
		Recommendations:    []string{"Monitor the area for changes", "Consult a dermatologist for a definitive diagnosis"},
		ConfidenceScores:   []float64{},
		Timestamp:          timestamp,
	}

	for i, name := range imageConditions[imageType] {
		confidence := 0.45 + frac(i)*0.5
		area := 2 + frac(i+4)*30
		texture := 100 + frac(i+8)*900
		edges := frac(i+12) * 0.3
		analysis.DetectedConditions = append(analysis.DetectedConditions, model.DetectedCondition{
			Condition:       name,
			Confidence:      confidence,
			AreaPercentage:  &area,
			TextureVariance: &texture,
			EdgeDensity:     &edges,
		})
		analysis.ConfidenceScores = append(analysis.ConfidenceScores, confidence)
	}

	analysis.SeverityLevel = types.AllSeverityLevels()[int(sum[31])%len(types.AllSeverityLevels())].String()
	if analysis.SeverityLevel == types.SeverityHigh.String() || analysis.SeverityLevel == types.SeverityCritical.String() {
		analysis.Recommendations = append([]string{"Seek medical attention promptly"}, analysis.Recommendations...)
	}
	return analysis
}
