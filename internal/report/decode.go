package report

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// fields is a decoded JSON object whose values are inspected lazily.
type fields map[string]json.RawMessage

// objectFields decodes data as a JSON object. Anything else yields nil.
func objectFields(data []byte) fields {
	var f fields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil
	}
	return f
}

// str returns the field as text. Strings are returned as-is, numbers and
// booleans are rendered, everything else is empty.
func (f fields) str(key string) string {
	raw, ok := f[key]
	if !ok {
		return ""
	}
	v, ok := decodeScalar(raw)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// intPtr returns the field as an integer, accepting numbers and numeric
// strings. Absent or unparseable values return nil.
func (f fields) intPtr(key string) *int {
	raw, ok := f[key]
	if !ok {
		return nil
	}
	v, ok := decodeScalar(raw)
	if !ok {
		return nil
	}
	n, ok := toInt(v)
	if !ok {
		return nil
	}
	return &n
}

// ints returns the field as a list of integers. Entries that are not
// integers are dropped; a non-array value yields nil.
func (f fields) ints(key string) []int {
	raw, ok := f[key]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var out []int
	for _, item := range items {
		v, ok := decodeScalar(item)
		if !ok {
			continue
		}
		if n, ok := toInt(v); ok {
			out = append(out, n)
		}
	}
	return out
}

func decodeScalar(raw json.RawMessage) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), true
		}
		if f, err := t.Float64(); err == nil && f == math.Trunc(f) && f >= math.MinInt && f < math.MaxInt {
			return int(f), true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n, true
		}
	}
	return 0, false
}

// decodeList decodes raw as an array of T. A missing, null or non-array
// value yields an empty list. Each element goes through T's own lenient
// decoding, so the element count is always preserved.
func decodeList[T any](raw json.RawMessage) []T {
	if len(raw) == 0 {
		return []T{}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []T{}
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		_ = json.Unmarshal(item, &v)
		out = append(out, v)
	}
	return out
}

// UnmarshalJSON implements lenient decoding. It never returns an error for
// syntactically valid JSON.
func (r *ExtractedReport) UnmarshalJSON(data []byte) error {
	f := objectFields(data)
	*r = ExtractedReport{
		PatientName: f.str("patientName"),
		ExamDate:    f.str("examDate"),
		Findings:    decodeList[Finding](f["findings"]),
		Labs:        decodeList[LabResult](f["labs"]),
		Meds:        decodeList[Medication](f["meds"]),
	}
	return nil
}

// UnmarshalJSON implements lenient decoding.
func (fd *Finding) UnmarshalJSON(data []byte) error {
	f := objectFields(data)
	*fd = Finding{
		BodyPart:   f.str("bodyPart"),
		Modality:   f.str("modality"),
		Summary:    f.str("summary"),
		Impression: f.str("impression"),
		Laterality: f.str("laterality"),
		Region:     f.str("region"),
		Severity:   f.str("severity"),
		Pages:      f.ints("pages"),
		raw:        cloneRaw(data),
	}
	return nil
}

// MarshalJSON returns the source JSON of a decoded finding.
func (fd Finding) MarshalJSON() ([]byte, error) {
	if fd.raw != nil {
		return fd.raw, nil
	}
	type plain Finding
	return json.Marshal(plain(fd))
}

// UnmarshalJSON implements lenient decoding.
func (l *LabResult) UnmarshalJSON(data []byte) error {
	f := objectFields(data)
	*l = LabResult{
		Name:            f.str("name"),
		Value:           f.str("value"),
		Unit:            f.str("unit"),
		RefRange:        f.str("refRange"),
		RelatedBodyPart: f.str("relatedBodyPart"),
		SourcePage:      f.intPtr("sourcePage"),
		raw:             cloneRaw(data),
	}
	return nil
}

// MarshalJSON returns the source JSON of a decoded lab result.
func (l LabResult) MarshalJSON() ([]byte, error) {
	if l.raw != nil {
		return l.raw, nil
	}
	type plain LabResult
	return json.Marshal(plain(l))
}

// UnmarshalJSON implements lenient decoding.
func (m *Medication) UnmarshalJSON(data []byte) error {
	f := objectFields(data)
	*m = Medication{
		Name:            f.str("name"),
		Dose:            f.str("dose"),
		Freq:            f.str("freq"),
		RelatedBodyPart: f.str("relatedBodyPart"),
		SourcePage:      f.intPtr("sourcePage"),
		raw:             cloneRaw(data),
	}
	return nil
}

// MarshalJSON returns the source JSON of a decoded medication.
func (m Medication) MarshalJSON() ([]byte, error) {
	if m.raw != nil {
		return m.raw, nil
	}
	type plain Medication
	return json.Marshal(plain(m))
}

func cloneRaw(data []byte) json.RawMessage {
	return append(json.RawMessage(nil), bytes.TrimSpace(data)...)
}
