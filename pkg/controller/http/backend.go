package http

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
)

// naiveISO matches the backend's timezone-less timestamps
const naiveISO = "2006-01-02T15:04:05.000000"

const recentLimit = 10

type account struct {
	session      model.UserSession
	passwordHash []byte
}

type document struct {
	summary   model.DocumentSummary
	extracted model.ExtractedData
	fullText  string
}

// backend holds the stub's state. Every handler goes through its mutex.
type backend struct {
	mu  sync.RWMutex
	now func() time.Time

	accounts  map[string]*account // by lower-cased email
	patients  map[string]*account // by patient id
	documents map[string][]*document
	analyses  map[string][]model.ImageAnalysis
	cases     []model.CaseRecord
}

func newBackend() *backend {
	return &backend{
		now:       time.Now,
		accounts:  make(map[string]*account),
		patients:  make(map[string]*account),
		documents: make(map[string][]*document),
		analyses:  make(map[string][]model.ImageAnalysis),
		cases:     seedCases(defaultCases),
	}
}

func (b *backend) timestamp() string {
	return b.now().UTC().Format(naiveISO)
}

// newPatientID returns "P" followed by eight upper-case hex digits
func newPatientID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "P" + strings.ToUpper(id[:8])
}

func (b *backend) patientExists(patientID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.patients[patientID]
	return ok
}

func (b *backend) addDocument(patientID string, doc *document) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.documents[patientID] = append(b.documents[patientID], doc)
}

func (b *backend) removeDocument(patientID, documentID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	docs := b.documents[patientID]
	idx := slices.IndexFunc(docs, func(d *document) bool { return d.summary.DocumentID == documentID })
	if idx < 0 {
		return false
	}
	b.documents[patientID] = slices.Delete(docs, idx, idx+1)
	return true
}

func (b *backend) addAnalysis(patientID string, analysis model.ImageAnalysis) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.analyses[patientID] = append(b.analyses[patientID], analysis)
}

func (b *backend) dashboard(patientID string) *model.Dashboard {
	b.mu.RLock()
	defer b.mu.RUnlock()

	docs := b.documents[patientID]
	d := &model.Dashboard{
		PatientID:       patientID,
		TotalDocuments:  len(docs),
		RecentDocuments: []model.DocumentSummary{},
		RecentDiagnoses: []json.RawMessage{},
	}

	var sum float64
	var scored int
	for i := len(docs) - 1; i >= 0; i-- {
		doc := docs[i]
		if len(d.RecentDocuments) < recentLimit {
			d.RecentDocuments = append(d.RecentDocuments, doc.summary)
		}
		if doc.summary.ConfidenceScore != nil {
			sum += *doc.summary.ConfidenceScore
			scored++
		}
	}
	if scored > 0 {
		avg := sum / float64(scored)
		d.HealthSummary.ExtractionConfidenceAvg = &avg
	}

	analyses := b.analyses[patientID]
	for i := len(analyses) - 1; i >= 0 && len(d.RecentDiagnoses) < recentLimit; i-- {
		if raw, err := marshalRaw(analyses[i]); err == nil {
			d.RecentDiagnoses = append(d.RecentDiagnoses, raw)
		}
	}
	return d
}

func marshalRaw(v any) (json.RawMessage, error) {
	return json.Marshal(v)
}

func (b *backend) history(patientID string) *model.PatientHistory {
	b.mu.RLock()
	defer b.mu.RUnlock()

	h := &model.PatientHistory{
		PatientID:         patientID,
		MedicalConditions: []string{},
		Medications:       []string{},
		Allergies:         []string{},
		Surgeries:         []string{},
		FamilyHistory:     map[string][]string{},
		LabResults:        []model.LabResult{},
	}
	if acc, ok := b.patients[patientID]; ok {
		h.MedicalConditions = append(h.MedicalConditions, acc.session.ChronicConditions...)
	}

	for _, doc := range b.documents[patientID] {
		h.MedicalConditions = appendUnique(h.MedicalConditions, entryTexts(doc.extracted.MedicalConditions)...)
		h.Medications = appendUnique(h.Medications, entryTexts(doc.extracted.Medications)...)
		h.Allergies = appendUnique(h.Allergies, entryTexts(doc.extracted.Allergies)...)
		h.Surgeries = appendUnique(h.Surgeries, entryTexts(doc.extracted.Surgeries)...)
		h.LabResults = append(h.LabResults, doc.extracted.LabResults...)
		h.LastUpdated = doc.summary.UploadDate
	}
	return h
}

func entryTexts(entries []model.Entry) []string {
	texts := make([]string, 0, len(entries))
	for _, e := range entries {
		texts = append(texts, e.String())
	}
	return texts
}

func appendUnique(list []string, items ...string) []string {
	for _, item := range items {
		if !slices.ContainsFunc(list, func(s string) bool { return strings.EqualFold(s, item) }) {
			list = append(list, item)
		}
	}
	return list
}

// CaseSeed describes a prior case loaded into the stub's case library
type CaseSeed struct {
	Symptoms  string
	Diagnosis string
	Treatment string
	Outcome   string
	Category  string
}

var defaultCases = []CaseSeed{
	{Symptoms: "persistent dry cough, mild fever and fatigue for five days", Diagnosis: "Viral upper respiratory infection", Treatment: "Rest, fluids, antipyretics", Outcome: "Resolved in 10 days", Category: "Respiratory"},
	{Symptoms: "throbbing headache with nausea and sensitivity to light", Diagnosis: "Migraine without aura", Treatment: "Triptans, dark room rest", Outcome: "Symptom free after 24 hours", Category: "Neurological"},
	{Symptoms: "chest tightness and shortness of breath during exercise", Diagnosis: "Exercise induced asthma", Treatment: "Inhaled albuterol before exercise", Outcome: "Controlled", Category: "Respiratory"},
	{Symptoms: "itchy red rash on forearms after gardening", Diagnosis: "Contact dermatitis", Treatment: "Topical corticosteroid", Outcome: "Cleared in one week", Category: "Dermatological"},
	{Symptoms: "abdominal cramps, diarrhea and vomiting after a meal", Diagnosis: "Acute gastroenteritis", Treatment: "Oral rehydration", Outcome: "Recovered in 3 days", Category: "Gastrointestinal"},
	{Symptoms: "lower back pain radiating to the leg when sitting", Diagnosis: "Lumbar radiculopathy", Treatment: "Physiotherapy, NSAIDs", Outcome: "Improved over six weeks", Category: "Musculoskeletal"},
	{Symptoms: "frequent urination, excessive thirst and fatigue", Diagnosis: "Type 2 diabetes mellitus", Treatment: "Metformin, diet changes", Outcome: "HbA1c normalised", Category: "Endocrine"},
	{Symptoms: "palpitations and chest discomfort with dizziness", Diagnosis: "Paroxysmal atrial fibrillation", Treatment: "Rate control, anticoagulation", Outcome: "Stable", Category: "Cardiovascular"},
}

func seedCases(seeds []CaseSeed) []model.CaseRecord {
	created := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	cases := make([]model.CaseRecord, len(seeds))
	for i, seed := range seeds {
		cases[i] = model.CaseRecord{
			CaseID:    fmt.Sprintf("CASE-%03d", i+1),
			Symptoms:  seed.Symptoms,
			Diagnosis: seed.Diagnosis,
			Treatment: seed.Treatment,
			Outcome:   seed.Outcome,
			Category:  seed.Category,
			CreatedAt: created.AddDate(0, 0, i).Format(naiveISO),
		}
	}
	return cases
}

func (b *backend) searchCases(query string, topK int) []model.CaseRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()

	queryTerms := terms(query)
	type scored struct {
		record model.CaseRecord
		score  int
	}
	var hits []scored
	for _, c := range b.cases {
		caseTerms := terms(c.Symptoms + " " + c.Diagnosis)
		score := 0
		for term := range queryTerms {
			if _, ok := caseTerms[term]; ok {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{record: c, score: score})
		}
	}

	slices.SortStableFunc(hits, func(a, b scored) int { return b.score - a.score })

	results := []model.CaseRecord{}
	for i := 0; i < len(hits) && i < topK; i++ {
		results = append(results, hits[i].record)
	}
	return results
}

func terms(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		if len(word) > 2 {
			set[word] = struct{}{}
		}
	}
	return set
}
