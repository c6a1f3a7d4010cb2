// Package report defines the structured medical report extracted from a PDF
// by the upstream model.
//
// The upstream output is untrusted: decoding is lenient and never fails on
// shape problems. Missing or mistyped collections decode as empty, mistyped
// scalar fields decode as empty values, and array elements that are not
// objects decode as empty items so that item counts are preserved.
//
// Decoded items remember their source JSON and marshal back to it unchanged,
// so a report routed through the summarizer returns the model's items as
// they were received. Items built in code marshal from their fields.
package report

import "encoding/json"

// Finding is a single observation extracted from the document, such as an
// imaging result.
type Finding struct {
	BodyPart   string `json:"bodyPart,omitempty"`
	Modality   string `json:"modality,omitempty"`
	Summary    string `json:"summary"`
	Impression string `json:"impression,omitempty"`
	Laterality string `json:"laterality,omitempty"`
	Region     string `json:"region,omitempty"`
	Severity   string `json:"severity,omitempty"`
	Pages      []int  `json:"pages,omitempty"`

	raw json.RawMessage
}

// LabResult is a single laboratory value.
type LabResult struct {
	Name            string `json:"name"`
	Value           string `json:"value"`
	Unit            string `json:"unit,omitempty"`
	RefRange        string `json:"refRange,omitempty"`
	RelatedBodyPart string `json:"relatedBodyPart,omitempty"`
	SourcePage      *int   `json:"sourcePage,omitempty"`

	raw json.RawMessage
}

// Medication is a medication mentioned in the document.
type Medication struct {
	Name            string `json:"name"`
	Dose            string `json:"dose,omitempty"`
	Freq            string `json:"freq,omitempty"`
	RelatedBodyPart string `json:"relatedBodyPart,omitempty"`
	SourcePage      *int   `json:"sourcePage,omitempty"`

	raw json.RawMessage
}

// ExtractedReport is the structured output of JSON-mode extraction.
type ExtractedReport struct {
	PatientName string       `json:"patientName,omitempty"`
	ExamDate    string       `json:"examDate,omitempty"`
	Findings    []Finding    `json:"findings"`
	Labs        []LabResult  `json:"labs"`
	Meds        []Medication `json:"meds"`
}

// IsEmpty reports whether the report carries no findings, labs or meds.
func (r *ExtractedReport) IsEmpty() bool {
	return len(r.Findings) == 0 && len(r.Labs) == 0 && len(r.Meds) == 0
}
