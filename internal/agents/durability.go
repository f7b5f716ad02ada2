package agents

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"material-selector/internal/common/llm"
	"material-selector/internal/common/logger"
	"material-selector/internal/models"
)

// DurabilityAgent estimates lifespan and upkeep of each material in a climate.
type DurabilityAgent struct {
	runner *runner[models.DurabilityAnalysis]
}

func NewDurabilityAgent(model llm.ChatModel, log logger.Logger) *DurabilityAgent {
	return &DurabilityAgent{runner: newRunner[models.DurabilityAnalysis](models.AgentDurability, model, log)}
}

func (a *DurabilityAgent) Run(ctx context.Context, materials []string, climate string) models.Outcome[models.DurabilityAnalysis] {
	return a.runner.run(ctx, DurabilityPrompt(materials, climate),
		attribute.Int("materials", len(materials)),
		attribute.String("climate", climate),
	)
}

func DurabilityPrompt(materials []string, climate string) string {
	parts := []string{
		"You are a materials durability expert.",
		"Given these materials: " + strings.Join(materials, ", "),
		"In climate: " + climate,
		"",
		"Analyze expected lifespan and durability (in years).",
		"Consider maintenance requirements and resistance to local conditions.",
		"",
		"Return ONLY valid JSON with format:",
		`{"material_name": {"lifespan_years": 0, "maintenance": "low|medium|high", "notes": "brief note"}}`,
	}
	return strings.Join(parts, "\n")
}
