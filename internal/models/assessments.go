package models

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"material-selector/internal/common/validation"
)

// CarbonAssessment is one material's entry from the Carbon agent.
type CarbonAssessment struct {
	CarbonFootprint Scalar `json:"carbon_footprint"`
	Rating          Rating `json:"rating"`
	Notes           Scalar `json:"notes"`
}

// CostAssessment is one material's entry from the Cost agent.
type CostAssessment struct {
	RelativeCost          Tier   `json:"relative_cost"`
	EstimatedPricePerUnit Scalar `json:"estimated_price_per_unit,omitempty,omitzero"`
	Notes                 Scalar `json:"notes"`
}

// DurabilityAssessment is one material's entry from the Durability agent.
type DurabilityAssessment struct {
	LifespanYears Scalar `json:"lifespan_years"`
	Maintenance   Tier   `json:"maintenance"`
	Notes         Scalar `json:"notes"`
}

// Assessments maps material name to a per-material record, keeping the order
// the model listed them in.
type Assessments[T any] struct {
	entries *orderedmap.OrderedMap[string, T]
	skipped []string
}

type (
	CarbonAnalysis     = Assessments[CarbonAssessment]
	CostAnalysis       = Assessments[CostAssessment]
	DurabilityAnalysis = Assessments[DurabilityAssessment]
)

func NewAssessments[T any]() Assessments[T] {
	return Assessments[T]{entries: orderedmap.New[string, T]()}
}

// Set adds or replaces a material, keeping its original position.
func (a *Assessments[T]) Set(material string, v T) {
	if a.entries == nil {
		a.entries = orderedmap.New[string, T]()
	}
	a.entries.Set(material, v)
}

func (a Assessments[T]) Get(material string) (T, bool) {
	if a.entries == nil {
		var zero T
		return zero, false
	}
	return a.entries.Get(material)
}

func (a Assessments[T]) Len() int {
	if a.entries == nil {
		return 0
	}
	return a.entries.Len()
}

// Keys returns material names in reply order.
func (a Assessments[T]) Keys() []string {
	keys := make([]string, 0, a.Len())
	a.Each(func(material string, _ T) {
		keys = append(keys, material)
	})
	return keys
}

// Each visits materials in reply order.
func (a Assessments[T]) Each(fn func(material string, v T)) {
	if a.entries == nil {
		return
	}
	for pair := a.entries.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// UnmarshalJSON requires a JSON object but decodes each entry on its own.
// Entries that are not a record of the expected shape, such as a stray
// "summary" string, are left out and listed by Skipped.
func (a *Assessments[T]) UnmarshalJSON(b []byte) error {
	raw := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(b, raw); err != nil {
		return fmt.Errorf("material assessments: %w", err)
	}

	entries := orderedmap.New[string, T]()
	var skipped []string
	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		var v T
		if err := json.Unmarshal(pair.Value, &v); err != nil {
			skipped = append(skipped, pair.Key)
			continue
		}
		entries.Set(pair.Key, v)
	}
	a.entries = entries
	a.skipped = skipped
	return nil
}

// Skipped lists reply keys that were dropped while decoding.
func (a Assessments[T]) Skipped() []string {
	return a.skipped
}

func (a Assessments[T]) MarshalJSON() ([]byte, error) {
	if a.entries == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a.entries)
}

func (Assessments[T]) JSONSchema() *jsonschema.Schema {
	var item T
	return &jsonschema.Schema{
		Type:                 "object",
		AdditionalProperties: validation.Inline(&item),
	}
}
