package report

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestExtractedReport_UnmarshalWellFormed(t *testing.T) {
	raw := `{
		"patientName": "Jane Doe",
		"examDate": "2024-03-01",
		"findings": [
			{"bodyPart": "kidney_left", "modality": "CT", "summary": "Small cyst.", "impression": "Benign", "pages": [1, 2]}
		],
		"labs": [
			{"name": "eGFR", "value": "92", "unit": "mL/min", "relatedBodyPart": "kidney", "sourcePage": 3}
		],
		"meds": [
			{"name": "Atorvastatin", "dose": "20 mg", "freq": "daily", "relatedBodyPart": "heart"}
		]
	}`

	var r ExtractedReport
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if r.PatientName != "Jane Doe" {
		t.Errorf("PatientName = %q, want %q", r.PatientName, "Jane Doe")
	}
	if len(r.Findings) != 1 || r.Findings[0].BodyPart != "kidney_left" {
		t.Fatalf("unexpected findings: %+v", r.Findings)
	}
	if got := r.Findings[0].Pages; len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("Pages = %v, want [1 2]", got)
	}
	if len(r.Labs) != 1 || r.Labs[0].SourcePage == nil || *r.Labs[0].SourcePage != 3 {
		t.Errorf("unexpected labs: %+v", r.Labs)
	}
	if len(r.Meds) != 1 || r.Meds[0].Freq != "daily" {
		t.Errorf("unexpected meds: %+v", r.Meds)
	}
}

func TestExtractedReport_UnmarshalLenient(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantFind  int
		wantLabs  int
		wantMeds  int
		wantEmpty bool
	}{
		{name: "empty object", input: `{}`, wantEmpty: true},
		{name: "null", input: `null`, wantEmpty: true},
		{name: "array instead of object", input: `[1,2,3]`, wantEmpty: true},
		{name: "collections are null", input: `{"findings":null,"labs":null,"meds":null}`, wantEmpty: true},
		{name: "collections are objects", input: `{"findings":{"a":1},"labs":"x","meds":7}`, wantEmpty: true},
		{name: "non-object elements keep their slot", input: `{"findings":["brain", 3, null],"meds":[true]}`, wantFind: 3, wantMeds: 1},
		{name: "mixed elements", input: `{"labs":[{"name":"Hb"}, "junk"]}`, wantLabs: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r ExtractedReport
			if err := json.Unmarshal([]byte(tt.input), &r); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if len(r.Findings) != tt.wantFind {
				t.Errorf("len(Findings) = %d, want %d", len(r.Findings), tt.wantFind)
			}
			if len(r.Labs) != tt.wantLabs {
				t.Errorf("len(Labs) = %d, want %d", len(r.Labs), tt.wantLabs)
			}
			if len(r.Meds) != tt.wantMeds {
				t.Errorf("len(Meds) = %d, want %d", len(r.Meds), tt.wantMeds)
			}
			if r.IsEmpty() != tt.wantEmpty {
				t.Errorf("IsEmpty() = %v, want %v", r.IsEmpty(), tt.wantEmpty)
			}
		})
	}
}

func TestFinding_UnmarshalMistypedFields(t *testing.T) {
	raw := `{"bodyPart": 12, "summary": {"nested": true}, "impression": false, "pages": ["4", 5, "x", 6.0, 7.5]}`

	var f Finding
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if f.BodyPart != "12" {
		t.Errorf("BodyPart = %q, want %q", f.BodyPart, "12")
	}
	if f.Summary != "" {
		t.Errorf("Summary = %q, want empty", f.Summary)
	}
	if f.Impression != "false" {
		t.Errorf("Impression = %q, want %q", f.Impression, "false")
	}
	want := []int{4, 5, 6}
	if len(f.Pages) != len(want) {
		t.Fatalf("Pages = %v, want %v", f.Pages, want)
	}
	for i := range want {
		if f.Pages[i] != want[i] {
			t.Errorf("Pages[%d] = %d, want %d", i, f.Pages[i], want[i])
		}
	}
}

func TestMedication_SourcePage(t *testing.T) {
	tests := []struct {
		input string
		want  *int
	}{
		{`{"sourcePage": 2}`, intPtr(2)},
		{`{"sourcePage": " 9 "}`, intPtr(9)},
		{`{"sourcePage": "two"}`, nil},
		{`{"sourcePage": null}`, nil},
		{`{}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var m Medication
			if err := json.Unmarshal([]byte(tt.input), &m); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			switch {
			case tt.want == nil && m.SourcePage != nil:
				t.Errorf("SourcePage = %d, want nil", *m.SourcePage)
			case tt.want != nil && (m.SourcePage == nil || *m.SourcePage != *tt.want):
				t.Errorf("SourcePage = %v, want %d", m.SourcePage, *tt.want)
			}
		})
	}
}

func TestItems_MarshalKeepsSourceJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		dec  func([]byte) ([]byte, error)
	}{
		{
			name: "finding with unknown keys and mixed pages",
			in:   `{"bodyPart":"kidney","confidence":0.9,"pages":["1","x"]}`,
			dec:  roundTrip[Finding],
		},
		{
			name: "lab with numeric value",
			in:   `{"name":"eGFR","value":58,"flag":"low","relatedBodyPart":"kidney"}`,
			dec:  roundTrip[LabResult],
		},
		{
			name: "medication with nested field",
			in:   `{"name":"Aspirin","schedule":{"morning":1}}`,
			dec:  roundTrip[Medication],
		},
		{name: "non-object finding", in: `"brain"`, dec: roundTrip[Finding]},
		{name: "null medication", in: `null`, dec: roundTrip[Medication]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.dec([]byte(tt.in))
			if err != nil {
				t.Fatalf("round trip error = %v", err)
			}
			if !bytes.Equal(out, []byte(tt.in)) {
				t.Errorf("Marshal() = %s, want %s", out, tt.in)
			}
		})
	}
}

func TestItems_MarshalBuiltInCode(t *testing.T) {
	out, err := json.Marshal(LabResult{Name: "LDL", Value: "130"})
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"name":"LDL","value":"130"}`; string(out) != want {
		t.Errorf("Marshal() = %s, want %s", out, want)
	}
}

func TestFinding_PagesOutOfIntRange(t *testing.T) {
	var f Finding
	if err := json.Unmarshal([]byte(`{"pages": [1e300, -1e300, 2]}`), &f); err != nil {
		t.Fatal(err)
	}
	if len(f.Pages) != 1 || f.Pages[0] != 2 {
		t.Errorf("Pages = %v, want [2]", f.Pages)
	}
}

func roundTrip[T any](in []byte) ([]byte, error) {
	var v T
	if err := json.Unmarshal(in, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func intPtr(n int) *int { return &n }
