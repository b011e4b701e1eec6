package model

import (
	"encoding/json"
	"slices"
	"strings"
)

// Dashboard is the per-patient summary returned by GET /api/dashboard/{patient_id}
type Dashboard struct {
	PatientID       string            `json:"patient_id,omitempty"`
	TotalDocuments  int               `json:"total_documents"`
	RecentDocuments []DocumentSummary `json:"recent_documents"`
	RecentDiagnoses []json.RawMessage `json:"recent_diagnoses"`
	HealthSummary   HealthSummary     `json:"health_summary"`
}

// HealthSummary holds aggregate quality figures. Absent figures are nil.
type HealthSummary struct {
	ExtractionConfidenceAvg *float64 `json:"extraction_confidence_avg,omitempty"`
}

// DocumentSummary describes one uploaded document
type DocumentSummary struct {
	DocumentID      string   `json:"document_id"`
	Filename        string   `json:"filename"`
	FileType        string   `json:"file_type"`
	FileSize        int64    `json:"file_size"`
	UploadDate      string   `json:"upload_date"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`
}

// IsPDF reports whether the backend classified the document as a PDF
func (d DocumentSummary) IsPDF() bool {
	return strings.EqualFold(d.FileType, "pdf")
}

// HasQuality reports whether a positive extraction confidence is available
func (d DocumentSummary) HasQuality() bool {
	return d.ConfidenceScore != nil && *d.ConfidenceScore > 0
}

// RemoveDocument applies a confirmed backend delete to the snapshot without refetching.
// The entry is dropped and TotalDocuments decremented by exactly one; nothing is
// reconciled against the server afterwards. It reports whether an entry was removed.
func (d *Dashboard) RemoveDocument(documentID string) bool {
	idx := slices.IndexFunc(d.RecentDocuments, func(doc DocumentSummary) bool {
		return doc.DocumentID == documentID
	})
	if idx < 0 {
		return false
	}

	d.RecentDocuments = slices.Delete(slices.Clone(d.RecentDocuments), idx, idx+1)
	if d.TotalDocuments > 0 {
		d.TotalDocuments--
	}
	return true
}

// FindDocument looks up a document in the snapshot
func (d *Dashboard) FindDocument(documentID string) (DocumentSummary, bool) {
	for _, doc := range d.RecentDocuments {
		if doc.DocumentID == documentID {
			return doc, true
		}
	}
	return DocumentSummary{}, false
}

// Clone returns a deep copy
func (d *Dashboard) Clone() *Dashboard {
	if d == nil {
		return nil
	}
	c := *d
	c.RecentDocuments = slices.Clone(d.RecentDocuments)
	c.RecentDiagnoses = slices.Clone(d.RecentDiagnoses)
	if d.HealthSummary.ExtractionConfidenceAvg != nil {
		avg := *d.HealthSummary.ExtractionConfidenceAvg
		c.HealthSummary.ExtractionConfidenceAvg = &avg
	}
	return &c
}
