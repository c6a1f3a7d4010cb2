package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const fence = "```"

// StripFences removes a surrounding markdown code fence (``` or ```json)
// from model output. Text that does not start with a fence is returned
// trimmed and otherwise unchanged.
func StripFences(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, fence) {
		return s
	}
	s = s[len(fence):]
	if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
		s = s[4:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), fence)
	return strings.TrimSpace(s)
}

// ParseJSONObject parses model output into a JSON object. Fences are
// stripped first. Numbers keep their exact text as json.Number.
func ParseJSONObject(content string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(StripFences(content)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode model output: trailing data after JSON value")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("decode model output: expected object, got %T", v)
	}
	return obj, nil
}

// RawFallback is the payload returned when model output is not a JSON object.
func RawFallback(content string) map[string]any {
	return map[string]any{"raw": content}
}

func compileSchema(raw []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("report.schema.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to load report schema: %w", err)
	}
	schema, err := compiler.Compile("report.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile report schema: %w", err)
	}
	return schema, nil
}
