package services

import (
	"encoding/json"
	"regexp"
	"strings"

	"MediCheck/models"
)

var medicationListPattern = regexp.MustCompile(`(?s)\[\s*\{.*\}\s*\]`)

// ExtractionResult is the best-effort structure found in generative model
// output. Raw always holds the original text.
type ExtractionResult struct {
	Structured  bool                     `json:"structured"`
	Medications []models.MedicationInput `json:"medications"`
	Raw         string                   `json:"raw"`
}

// ParseMedicationList looks for a JSON list of medication objects inside
// free text. It never fails: when no well-formed list is found the result
// is unstructured and carries only the raw text.
func ParseMedicationList(text string) ExtractionResult {
	result := ExtractionResult{Raw: text, Medications: []models.MedicationInput{}}

	candidate := medicationListPattern.FindString(text)
	if candidate == "" {
		return result
	}

	var meds models.MedicationList
	if err := json.Unmarshal([]byte(candidate), &meds); err != nil {
		return result
	}

	for _, m := range meds {
		m.Medicine = models.Text(strings.TrimSpace(string(m.Medicine)))
		if m.Medicine == "" {
			continue
		}
		m.Dosage = models.Text(strings.TrimSpace(string(m.Dosage)))
		m.Timing = m.Timing.Clean()
		result.Medications = append(result.Medications, m)
	}
	result.Structured = len(result.Medications) > 0
	return result
}
