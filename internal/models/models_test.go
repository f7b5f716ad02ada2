package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"material-selector/internal/common/validation"
)

// ==========================
// Availability
// ==========================

func TestMaterialAvailability_Materials(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []string
	}{
		{
			name:  "easy to get wins",
			reply: `{"easy_to_get": ["brick", "concrete"], "limited": ["glass"], "import_only": ["steel"]}`,
			want:  []string{"brick", "concrete"},
		},
		{
			name:  "only easy to get present",
			reply: `{"easy_to_get": ["brick", "concrete"]}`,
			want:  []string{"brick", "concrete"},
		},
		{
			name:  "limited then import only",
			reply: `{"easy_to_get": [], "limited": ["bamboo"], "import_only": ["steel"]}`,
			want:  []string{"bamboo", "steel"},
		},
		{
			name:  "nothing listed",
			reply: `{"easy_to_get": null}`,
			want:  []string{},
		},
		{
			name:  "object elements",
			reply: `{"easy_to_get": [{"name": "adobe", "reason": "local clay"}, {"material": "stone"}]}`,
			want:  []string{"adobe", "stone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a MaterialAvailability
			require.NoError(t, json.Unmarshal([]byte(tt.reply), &a))
			assert.Equal(t, tt.want, a.Materials())
		})
	}
}

func TestMaterialAvailability_MaterialsIsACopy(t *testing.T) {
	a := MaterialAvailability{EasyToGet: MaterialNames{"brick"}}
	list := a.Materials()
	list[0] = "changed"
	assert.Equal(t, "brick", a.EasyToGet[0])
}

func TestMaterialNames_Edge(t *testing.T) {
	var n MaterialNames
	require.NoError(t, json.Unmarshal([]byte(`"timber"`), &n))
	assert.Equal(t, MaterialNames{"timber"}, n)

	assert.Error(t, json.Unmarshal([]byte(`{"brick": true}`), &n))

	require.NoError(t, json.Unmarshal([]byte(`["brick", 5, null, {"name": "stone"}, true]`), &n))
	assert.Equal(t, MaterialNames{"brick", "stone"}, n)

	out, err := json.Marshal(MaterialAvailability{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"easy_to_get": [], "limited": [], "import_only": []}`, string(out))
}

func TestLocation_Validate(t *testing.T) {
	assert.NoError(t, Location{City: "Lahore", Country: "Pakistan"}.Validate())
	assert.EqualError(t, Location{City: " ", Country: ""}.Validate(), "city and country must not be empty")
	assert.Equal(t, "Lahore, Pakistan", Location{City: "Lahore", Country: "Pakistan"}.String())
}

// ==========================
// Assessments
// ==========================

func TestAssessments_PreservesReplyOrder(t *testing.T) {
	reply := `{
		"steel":    {"carbon_footprint": "high", "rating": 3, "notes": "energy intensive"},
		"bamboo":   {"carbon_footprint": "very low", "rating": 9, "notes": "fast growing"},
		"concrete": {"carbon_footprint": "high", "rating": "4/10", "notes": "cement"}
	}`

	var carbon CarbonAnalysis
	require.NoError(t, json.Unmarshal([]byte(reply), &carbon))

	assert.Equal(t, []string{"steel", "bamboo", "concrete"}, carbon.Keys())
	assert.Equal(t, 3, carbon.Len())

	bamboo, ok := carbon.Get("bamboo")
	require.True(t, ok)
	assert.Equal(t, "very low", bamboo.CarbonFootprint.String())
	assert.Equal(t, 9, bamboo.Rating.Stars())

	concrete, _ := carbon.Get("concrete")
	assert.Equal(t, 4, concrete.Rating.Stars())

	out, err := json.Marshal(carbon)
	require.NoError(t, err)
	assert.JSONEq(t, reply, string(out))
}

func TestAssessments_OptionalPrice(t *testing.T) {
	reply := `{"brick": {"relative_cost": "low", "notes": "local kilns"}}`

	var cost CostAnalysis
	require.NoError(t, json.Unmarshal([]byte(reply), &cost))

	brick, _ := cost.Get("brick")
	assert.True(t, brick.EstimatedPricePerUnit.IsZero())
	assert.Equal(t, "LOW", brick.RelativeCost.Upper())

	out, err := json.Marshal(cost)
	require.NoError(t, err)
	assert.JSONEq(t, reply, string(out))
}

func TestAssessments_ZeroValue(t *testing.T) {
	var d DurabilityAnalysis
	assert.Equal(t, 0, d.Len())
	assert.Empty(t, d.Keys())

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))

	d.Set("stone", DurabilityAssessment{LifespanYears: Number(100), Maintenance: TierOf("low")})
	got, ok := d.Get("stone")
	require.True(t, ok)
	assert.Equal(t, "100", got.LifespanYears.String())
}

func TestAssessments_SkipsEntriesOfTheWrongShape(t *testing.T) {
	reply := `{"steel": {"relative_cost": "High", "notes": "imported"}, "summary": "steel is pricey", "glass": 3}`

	var cost CostAnalysis
	require.NoError(t, json.Unmarshal([]byte(reply), &cost))

	assert.Equal(t, []string{"steel"}, cost.Keys())
	assert.Equal(t, []string{"summary", "glass"}, cost.Skipped())

	steel, _ := cost.Get("steel")
	assert.Equal(t, "high", steel.RelativeCost.String())
}

func TestTier_Lowercased(t *testing.T) {
	var d DurabilityAssessment
	require.NoError(t, json.Unmarshal([]byte(`{"maintenance": " Medium ", "lifespan_years": "50 Years"}`), &d))

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"maintenance": "medium", "lifespan_years": "50 Years", "notes": null}`, string(out))
	assert.Equal(t, "MEDIUM", d.Maintenance.Upper())
	assert.Equal(t, TierOf("medium"), TierOf("MEDIUM"))
}

func TestAssessments_RejectsNonObject(t *testing.T) {
	var c CarbonAnalysis
	assert.Error(t, json.Unmarshal([]byte(`["brick"]`), &c))
}

// ==========================
// Scalars
// ==========================

func TestScalar(t *testing.T) {
	var s Scalar
	require.NoError(t, json.Unmarshal([]byte(`"  50-80 years "`), &s))
	assert.Equal(t, "50-80 years", s.String())
	f, ok := s.Float()
	assert.True(t, ok)
	assert.Equal(t, 50.0, f)

	require.NoError(t, json.Unmarshal([]byte(`null`), &s))
	assert.True(t, s.IsZero())
	_, ok = s.Float()
	assert.False(t, ok)

	require.NoError(t, json.Unmarshal([]byte(`true`), &s))
	assert.Equal(t, "true", s.String())
	_, ok = s.Float()
	assert.False(t, ok)
}

func TestRating_Stars(t *testing.T) {
	assert.Equal(t, 10, RatingOf(14).Stars())
	assert.Equal(t, 0, RatingOf(-2).Stars())
	assert.Equal(t, 7, RatingOf(6.6).Stars())
	assert.Equal(t, 0, Rating{}.Stars())
}

// ==========================
// Outcomes and reports
// ==========================

func TestOutcome_JSON(t *testing.T) {
	ok := Ok(MaterialAvailability{EasyToGet: MaterialNames{"brick"}})
	out, err := json.Marshal(ok)
	require.NoError(t, err)
	assert.JSONEq(t, `{"easy_to_get": ["brick"], "limited": [], "import_only": []}`, string(out))

	failed := Failed[CostAnalysis](NewAgentError(AgentCost, errors.New("boom")))
	out, err = json.Marshal(failed)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error": "Error in CostAgent: boom"}`, string(out))

	_, present := failed.Value()
	assert.False(t, present)
	assert.False(t, failed.IsOk())
}

func TestAgentError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewAgentError(AgentCarbon, cause)
	assert.Equal(t, "Error in CarbonAgent: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestEvaluationReport_FailedSections(t *testing.T) {
	r := &EvaluationReport{
		Location:       Location{City: "Lahore", Country: "Pakistan"},
		Availability:   Ok(MaterialAvailability{}),
		CarbonImpact:   Ok(NewAssessments[CarbonAssessment]()),
		CostAnalysis:   Failed[CostAnalysis](NewAgentError(AgentCost, errors.New("boom"))),
		Durability:     Ok(NewAssessments[DurabilityAssessment]()),
		Recommendation: "Error in recommendation: timeout",
	}

	assert.Equal(t, []string{"cost_analysis", "recommendation"}, r.FailedSections())
}

// ==========================
// Schemas
// ==========================

func TestSchemas_Diagnostics(t *testing.T) {
	carbon := validation.MustReflectSchema("carbon", &CarbonAnalysis{})

	res, err := carbon.Check([]byte(`{"brick": {"carbon_footprint": "medium", "rating": 6, "notes": "kiln fired"}}`))
	require.NoError(t, err)
	assert.True(t, res.Valid, "%v", res.GetErrorMessages())

	res, err = carbon.Check([]byte(`{"brick": {"carbon_footprint": "medium"}}`))
	require.NoError(t, err)
	assert.False(t, res.Valid)

	cost := validation.MustReflectSchema("cost", &CostAnalysis{})
	res, err = cost.Check([]byte(`{"brick": {"relative_cost": "cheap", "notes": ""}}`))
	require.NoError(t, err)
	assert.False(t, res.Valid)

	availability := validation.MustReflectSchema("availability", &MaterialAvailability{})
	res, err = availability.Check([]byte(`{"easy_to_get": ["brick", {"name": "adobe"}], "limited": [], "import_only": []}`))
	require.NoError(t, err)
	assert.True(t, res.Valid, "%v", res.GetErrorMessages())
}
