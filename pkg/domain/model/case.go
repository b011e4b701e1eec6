package model

// CaseRecord is a prior medical case returned by similarity search
type CaseRecord struct {
	CaseID    string `json:"case_id"`
	Symptoms  string `json:"symptoms"`
	Diagnosis string `json:"diagnosis,omitempty"`
	Treatment string `json:"treatment,omitempty"`
	Outcome   string `json:"outcome,omitempty"`
	Category  string `json:"category,omitempty"`
	CreatedAt string `json:"created_at"`
}

// SearchResults is a successful search. An empty result is valid and distinct from a failure.
type SearchResults struct {
	Query string
	TopK  int
	Cases []CaseRecord
}

// Empty reports whether no case matched
func (r *SearchResults) Empty() bool {
	return len(r.Cases) == 0
}
