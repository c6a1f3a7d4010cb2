// Package summary groups an extracted report by body region and composes a
// short readable summary. It is pure and deterministic: no I/O, no errors.
package summary

import (
	"fmt"
	"sort"
	"strings"

	"github.com/medtwin/medtwin/internal/regions"
	"github.com/medtwin/medtwin/internal/report"
)

// NoAbnormalities is the summary used when the report has no findings, labs
// or medications.
const NoAbnormalities = "No significant abnormalities described in this record."

// RegionBucket holds the items routed to one region.
type RegionBucket struct {
	Findings []report.Finding    `json:"findings"`
	Labs     []report.LabResult  `json:"labs"`
	Meds     []report.Medication `json:"meds"`
}

// BodyIndex maps every region of the table to its bucket. It always has an
// entry for every region, with empty (non-nil) slices where nothing matched.
type BodyIndex map[regions.Region]*RegionBucket

// Result is the output of Summarize.
type Result struct {
	Summary     string    `json:"summary"`
	BodyIndex   BodyIndex `json:"bodyIndex"`
	PatientName *string   `json:"patientName"`
	ExamDate    *string   `json:"examDate"`
}

// FindingKey returns the text used to classify a finding: its body part,
// else its region, else the general key.
func FindingKey(f report.Finding) string {
	switch {
	case f.BodyPart != "":
		return f.BodyPart
	case f.Region != "":
		return f.Region
	default:
		return regions.GeneralKey
	}
}

// relatedKey returns the text used to classify a lab or medication.
func relatedKey(relatedBodyPart string) string {
	if relatedBodyPart != "" {
		return relatedBodyPart
	}
	return regions.GeneralKey
}

// Index routes every finding, lab and medication to exactly one region
// bucket. Input order is preserved inside each bucket.
func Index(table *regions.Table, r report.ExtractedReport) BodyIndex {
	idx := make(BodyIndex)
	for _, region := range table.Regions() {
		idx[region] = &RegionBucket{
			Findings: []report.Finding{},
			Labs:     []report.LabResult{},
			Meds:     []report.Medication{},
		}
	}

	for _, f := range r.Findings {
		b := idx[table.ToRegion(FindingKey(f))]
		b.Findings = append(b.Findings, f)
	}
	for _, l := range r.Labs {
		b := idx[table.ToRegion(relatedKey(l.RelatedBodyPart))]
		b.Labs = append(b.Labs, l)
	}
	for _, m := range r.Meds {
		b := idx[table.ToRegion(relatedKey(m.RelatedBodyPart))]
		b.Meds = append(b.Meds, m)
	}
	return idx
}

// Compose builds the summary text. Sentences appear in a fixed order:
// findings, the first finding's impression, labs, medications.
func Compose(table *regions.Table, r report.ExtractedReport) string {
	var bits []string

	if len(r.Findings) > 0 {
		seen := make(map[regions.Region]struct{})
		var involved []string
		for _, f := range r.Findings {
			region := table.ToRegion(FindingKey(f))
			if _, ok := seen[region]; ok {
				continue
			}
			seen[region] = struct{}{}
			involved = append(involved, string(region))
		}
		sort.Strings(involved)

		bits = append(bits, fmt.Sprintf("%d finding(s) noted, involving: %s.", len(r.Findings), strings.Join(involved, ", ")))
		if impression := r.Findings[0].Impression; impression != "" {
			bits = append(bits, "Impression: "+impression)
		}
	}

	if len(r.Labs) > 0 {
		bits = append(bits, fmt.Sprintf("%d lab result(s) summarized.", len(r.Labs)))
	}

	if len(r.Meds) > 0 {
		names := make([]string, len(r.Meds))
		for i, m := range r.Meds {
			names[i] = m.Name
			if names[i] == "" {
				names[i] = "?"
			}
		}
		bits = append(bits, "Current meds: "+strings.Join(names, ", ")+".")
	}

	if len(bits) == 0 {
		return NoAbnormalities
	}
	return strings.Join(bits, " ")
}

// Summarize indexes the report by region and composes its summary.
func Summarize(table *regions.Table, r report.ExtractedReport) Result {
	return Result{
		Summary:     Compose(table, r),
		BodyIndex:   Index(table, r),
		PatientName: optional(r.PatientName),
		ExamDate:    optional(r.ExamDate),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Counts returns the number of findings, labs and meds in the bucket.
func (b *RegionBucket) Counts() (findings, labs, meds int) {
	return len(b.Findings), len(b.Labs), len(b.Meds)
}
