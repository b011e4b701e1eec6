package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// UploadResult is the response of POST /api/upload/{patient_id}
type UploadResult struct {
	DocumentID    string         `json:"document_id"`
	FileType      string         `json:"file_type"`
	FileSize      int64          `json:"file_size"`
	ExtractedData *ExtractedData `json:"extracted_data,omitempty"`
	FullText      string         `json:"full_text,omitempty"`
}

// ExtractedData holds the categories the backend recognised in a document.
// A nil category was not returned and its section is omitted; an empty one was returned empty.
type ExtractedData struct {
	MedicalConditions []Entry     `json:"medical_conditions,omitempty"`
	Medications       []Entry     `json:"medications,omitempty"`
	Allergies         []Entry     `json:"allergies,omitempty"`
	Surgeries         []Entry     `json:"surgeries,omitempty"`
	LabResults        []LabResult `json:"lab_results,omitempty"`
}

// Entry is one loosely typed extracted item: usually a string, kept as raw JSON otherwise
type Entry struct {
	Text string
	Raw  json.RawMessage
}

// TextEntries builds entries from plain strings
func TextEntries(items ...string) []Entry {
	entries := make([]Entry, len(items))
	for i, item := range items {
		entries[i] = Entry{Text: item}
	}
	return entries
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = Entry{Text: s}
		return nil
	}
	*e = Entry{Raw: bytes.Clone(data)}
	return nil
}

func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Raw != nil {
		return e.Raw, nil
	}
	return json.Marshal(e.Text)
}

// String renders the entry for display
func (e Entry) String() string {
	if e.Raw != nil {
		return compactJSON(e.Raw)
	}
	return e.Text
}

// LabResult is either a {test, value, unit} record, a plain string, or anything else kept raw
type LabResult struct {
	Test  string
	Value string
	Unit  string
	Text  string
	Raw   json.RawMessage
}

func (l *LabResult) UnmarshalJSON(data []byte) error {
	*l = LabResult{}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		l.Text = s
		return nil
	}

	var rec struct {
		Test  string          `json:"test"`
		Value json.RawMessage `json:"value"`
		Unit  string          `json:"unit"`
	}
	if err := json.Unmarshal(data, &rec); err == nil {
		value := scalarText(rec.Value)
		if rec.Test != "" && value != "" {
			l.Test, l.Value, l.Unit = rec.Test, value, rec.Unit
			return nil
		}
	}

	l.Raw = bytes.Clone(data)
	return nil
}

func (l LabResult) MarshalJSON() ([]byte, error) {
	switch {
	case l.Raw != nil:
		return l.Raw, nil
	case l.Test != "":
		return json.Marshal(map[string]string{"test": l.Test, "value": l.Value, "unit": l.Unit})
	default:
		return json.Marshal(l.Text)
	}
}

// String renders "test: value unit", the plain string, or compact JSON
func (l LabResult) String() string {
	switch {
	case l.Test != "":
		s := l.Test + ": " + l.Value
		if l.Unit != "" {
			s += " " + l.Unit
		}
		return s
	case l.Raw != nil:
		return compactJSON(l.Raw)
	default:
		return l.Text
	}
}

// scalarText renders a JSON string or number as text; other values yield ""
func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return strings.TrimSpace(string(raw))
	}
	return buf.String()
}
