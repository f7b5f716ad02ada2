package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// Location is the place a report is produced for.
type Location struct {
	City    string `json:"city" jsonschema:"minLength=1"`
	Country string `json:"country" jsonschema:"minLength=1"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s, %s", l.City, l.Country)
}

// Validate requires both parts to be non-blank.
func (l Location) Validate() error {
	var missing []string
	if strings.TrimSpace(l.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(l.Country) == "" {
		missing = append(missing, "country")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s must not be empty", strings.Join(missing, " and "))
	}
	return nil
}

// MaterialNames is an ordered list of material names. Elements may arrive as
// plain strings or as objects with a "name" (or "material") field. Anything
// else is skipped.
type MaterialNames []string

func (n *MaterialNames) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*n = nil
		return nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		var single string
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*n = nil
		if s := strings.TrimSpace(single); s != "" {
			*n = MaterialNames{s}
		}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return fmt.Errorf("material list: %w", err)
	}

	out := make(MaterialNames, 0, len(items))
	for _, item := range items {
		name, err := materialName(item)
		if err != nil {
			continue
		}
		if name != "" {
			out = append(out, name)
		}
	}
	*n = out
	return nil
}

func materialName(item json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var obj struct {
		Name     string `json:"name"`
		Material string `json:"material"`
	}
	if err := json.Unmarshal(item, &obj); err != nil {
		return "", fmt.Errorf("material list element %s: %w", string(item), err)
	}
	if obj.Name != "" {
		return strings.TrimSpace(obj.Name), nil
	}
	return strings.TrimSpace(obj.Material), nil
}

func (n MaterialNames) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(n))
}

func (MaterialNames) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "array",
		Items: &jsonschema.Schema{
			AnyOf: []*jsonschema.Schema{{Type: "string"}, {Type: "object"}},
		},
	}
}

// MaterialAvailability is the Availability agent's result.
type MaterialAvailability struct {
	EasyToGet  MaterialNames `json:"easy_to_get"`
	Limited    MaterialNames `json:"limited"`
	ImportOnly MaterialNames `json:"import_only"`
}

// Materials returns the list the other agents evaluate: the locally easy
// materials when there are any, otherwise limited followed by import-only.
func (a MaterialAvailability) Materials() []string {
	if len(a.EasyToGet) > 0 {
		return append([]string(nil), a.EasyToGet...)
	}
	out := make([]string, 0, len(a.Limited)+len(a.ImportOnly))
	out = append(out, a.Limited...)
	return append(out, a.ImportOnly...)
}

// Empty reports whether no category lists anything.
func (a MaterialAvailability) Empty() bool {
	return len(a.EasyToGet) == 0 && len(a.Limited) == 0 && len(a.ImportOnly) == 0
}
