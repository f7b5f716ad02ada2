package agents

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"material-selector/internal/common/llm"
	"material-selector/internal/common/logger"
	"material-selector/internal/models"
)

// CarbonAgent rates the environmental impact of each material.
type CarbonAgent struct {
	runner *runner[models.CarbonAnalysis]
}

func NewCarbonAgent(model llm.ChatModel, log logger.Logger) *CarbonAgent {
	return &CarbonAgent{runner: newRunner[models.CarbonAnalysis](models.AgentCarbon, model, log)}
}

func (a *CarbonAgent) Run(ctx context.Context, materials []string) models.Outcome[models.CarbonAnalysis] {
	return a.runner.run(ctx, CarbonPrompt(materials), attribute.Int("materials", len(materials)))
}

func CarbonPrompt(materials []string) string {
	parts := []string{
		"You are an environmental impact expert.",
		"Given these construction materials: " + strings.Join(materials, ", "),
		"",
		"Analyze their carbon footprint and environmental impact.",
		"Rate each material from 1-10 (10 = most sustainable).",
		"",
		"Return ONLY valid JSON with format:",
		`{"material_name": {"carbon_footprint": "value", "rating": 1-10, "notes": "brief note"}}`,
	}
	return strings.Join(parts, "\n")
}
