package models

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
)

// Scalar is a value the model was asked to give as text or a number. It
// keeps the JSON exactly as received so round trips do not change types.
type Scalar struct {
	raw json.RawMessage
}

// Text builds a string Scalar.
func Text(s string) Scalar {
	b, _ := json.Marshal(s)
	return Scalar{raw: b}
}

// Number builds a numeric Scalar.
func Number(f float64) Scalar {
	return Scalar{raw: json.RawMessage(strconv.FormatFloat(f, 'f', -1, 64))}
}

func (s *Scalar) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if bytes.Equal(trimmed, []byte("null")) {
		s.raw = nil
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return err
	}
	s.raw = buf.Bytes()
	return nil
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return []byte("null"), nil
	}
	return s.raw, nil
}

// IsZero reports a missing or null value.
func (s Scalar) IsZero() bool {
	return len(s.raw) == 0
}

// String returns strings unquoted and anything else as its JSON text.
func (s Scalar) String() string {
	if len(s.raw) == 0 {
		return ""
	}
	if s.raw[0] == '"' {
		var str string
		if err := json.Unmarshal(s.raw, &str); err == nil {
			return strings.TrimSpace(str)
		}
	}
	return string(s.raw)
}

// Upper is String in upper case.
func (s Scalar) Upper() string {
	return strings.ToUpper(s.String())
}

var leadingNumberRe = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)`)

// Float parses a JSON number or a string starting with one ("7", "7/10").
func (s Scalar) Float() (float64, bool) {
	if len(s.raw) == 0 {
		return 0, false
	}
	text := string(s.raw)
	if s.raw[0] == '"' {
		text = s.String()
	}
	m := leadingNumberRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (Scalar) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		AnyOf: []*jsonschema.Schema{{Type: "string"}, {Type: "number"}},
	}
}

// Tier is a low/medium/high grade. String values are stored lowercased.
type Tier struct {
	Scalar
}

func TierOf(s string) Tier { return Tier{Text(strings.ToLower(strings.TrimSpace(s)))} }

func (t *Tier) UnmarshalJSON(b []byte) error {
	if err := t.Scalar.UnmarshalJSON(b); err != nil {
		return err
	}
	if len(t.raw) > 0 && t.raw[0] == '"' {
		t.Scalar = Text(strings.ToLower(t.String()))
	}
	return nil
}

func (Tier) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "string",
		Enum: []interface{}{"low", "medium", "high"},
	}
}

// Rating is a 1-10 sustainability score.
type Rating struct {
	Scalar
}

func RatingOf(f float64) Rating { return Rating{Number(f)} }

func (Rating) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "number"}
}

// Stars returns the rating rounded and clamped to 0..10.
func (r Rating) Stars() int {
	f, ok := r.Float()
	if !ok {
		return 0
	}
	n := int(f + 0.5)
	switch {
	case n < 0:
		return 0
	case n > 10:
		return 10
	}
	return n
}
