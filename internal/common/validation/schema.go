// Package validation checks JSON documents against schemas reflected from Go
// types. Agent replies are only diagnosed with it; nothing is rejected.
package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// GetErrorMessages flattens the result into "field: message" strings.
func (vr *ValidationResult) GetErrorMessages() []string {
	msgs := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return msgs
}

func (vr *ValidationResult) HasErrors(field string) bool {
	for _, e := range vr.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Schema is a compiled JSON schema with a name for logs.
type Schema struct {
	name     string
	raw      []byte
	compiled *gojsonschema.Schema
}

// Reflector returns the reflector used for every schema in the module: inline
// definitions, no $id, extra keys allowed.
func Reflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		Anonymous:                 true,
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}
}

// Inline reflects v for embedding inside another schema.
func Inline(v interface{}) *jsonschema.Schema {
	s := Reflector().Reflect(v)
	s.Version = ""
	s.ID = ""
	return s
}

// ReflectSchema builds and compiles a schema from the Go type of v.
func ReflectSchema(name string, v interface{}) (*Schema, error) {
	s := Inline(v)
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal %s schema: %w", name, err)
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", name, err)
	}
	return &Schema{name: name, raw: raw, compiled: compiled}, nil
}

// MustReflectSchema is ReflectSchema for package-level schemas.
func MustReflectSchema(name string, v interface{}) *Schema {
	s, err := ReflectSchema(name, v)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Name() string { return s.name }

// JSON returns the schema document.
func (s *Schema) JSON() []byte { return s.raw }

// Check validates doc. An error means doc is not JSON at all.
func (s *Schema) Check(doc []byte) (*ValidationResult, error) {
	result, err := s.compiled.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate against %s schema: %w", s.name, err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}
	return out, nil
}

// CheckValue marshals v and validates it.
func (s *Schema) CheckValue(v interface{}) (*ValidationResult, error) {
	doc, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal value for %s schema: %w", s.name, err)
	}
	return s.Check(doc)
}
