package agents

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"material-selector/internal/common/llm"
	"material-selector/internal/common/logger"
	"material-selector/internal/models"
)

// CostAgent grades the relative cost of each material at a location.
type CostAgent struct {
	runner *runner[models.CostAnalysis]
}

func NewCostAgent(model llm.ChatModel, log logger.Logger) *CostAgent {
	return &CostAgent{runner: newRunner[models.CostAnalysis](models.AgentCost, model, log)}
}

// Run prices materials for location, which is a free-form place name.
func (a *CostAgent) Run(ctx context.Context, materials []string, location string) models.Outcome[models.CostAnalysis] {
	return a.runner.run(ctx, CostPrompt(materials, location),
		attribute.Int("materials", len(materials)),
		attribute.String("location", location),
	)
}

func CostPrompt(materials []string, location string) string {
	parts := []string{
		"You are a construction cost analyst.",
		"Given these materials: " + strings.Join(materials, ", "),
		"In location: " + location,
		"",
		"Provide cost analysis for each material (relative cost: low/medium/high).",
		"Consider availability and transportation costs.",
		"",
		"Return ONLY valid JSON with format:",
		`{"material_name": {"relative_cost": "low|medium|high", "estimated_price_per_unit": "estimate", "notes": "brief note"}}`,
	}
	return strings.Join(parts, "\n")
}
