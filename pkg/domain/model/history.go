package model

// PatientHistory is the stored medical history of GET /patient-history/{patient_id}
type PatientHistory struct {
	PatientID         string              `json:"patient_id"`
	MedicalConditions []string            `json:"medical_conditions"`
	Medications       []string            `json:"medications"`
	Allergies         []string            `json:"allergies"`
	Surgeries         []string            `json:"surgeries"`
	FamilyHistory     map[string][]string `json:"family_history,omitempty"`
	LabResults        []LabResult         `json:"lab_results,omitempty"`
	Notes             string              `json:"notes,omitempty"`
	LastUpdated       string              `json:"last_updated,omitempty"`
}

// SymptomCategories is the response of GET /symptom-categories
type SymptomCategories struct {
	Categories []string `json:"categories"`
}
