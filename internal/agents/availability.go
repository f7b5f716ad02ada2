package agents

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"material-selector/internal/common/llm"
	"material-selector/internal/common/logger"
	"material-selector/internal/models"
)

// AvailabilityAgent sorts construction materials by how easily they can be
// sourced at a location.
type AvailabilityAgent struct {
	runner *runner[models.MaterialAvailability]
}

func NewAvailabilityAgent(model llm.ChatModel, log logger.Logger) *AvailabilityAgent {
	return &AvailabilityAgent{runner: newRunner[models.MaterialAvailability](models.AgentAvailability, model, log)}
}

func (a *AvailabilityAgent) Run(ctx context.Context, city, country string) models.Outcome[models.MaterialAvailability] {
	return a.runner.run(ctx, AvailabilityPrompt(city, country),
		attribute.String("city", city),
		attribute.String("country", country),
	)
}

func AvailabilityPrompt(city, country string) string {
	parts := []string{
		"You are a construction materials expert.",
		"Given the location:",
		"City: " + city,
		"Country: " + country,
		"",
		"List construction materials in three categories:",
		"1. Easy to source locally",
		"2. Limited availability",
		"3. Mostly imported",
		"",
		"Return ONLY valid JSON with keys: easy_to_get, limited, import_only",
		"Each key maps to a list of material names.",
	}
	return strings.Join(parts, "\n")
}
