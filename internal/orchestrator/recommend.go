package orchestrator

import (
	"context"
	"encoding/json"
	"strings"

	"material-selector/internal/common/llm"
	"material-selector/internal/models"
)

// Recommend asks the model to pick one material given the three assessments.
// The reply is kept verbatim apart from surrounding whitespace.
func (o *Orchestrator) Recommend(
	ctx context.Context,
	location models.Location,
	materials []string,
	carbon models.Outcome[models.CarbonAnalysis],
	cost models.Outcome[models.CostAnalysis],
	durability models.Outcome[models.DurabilityAnalysis],
) string {
	reply, err := o.model.Complete(ctx, llm.Request{
		CallSite: models.RecommendationStep,
		System:   RecommendationSystemPrompt,
		User:     RecommendationPrompt(location, materials, carbon, cost, durability),
	})
	if err != nil {
		o.logger.Error("Recommendation failed", map[string]interface{}{
			"errorCode": string(llm.Classify(err)),
			"error":     err.Error(),
		})
		return models.NewAgentError(models.RecommendationStep, err).Error()
	}
	return strings.TrimSpace(reply)
}

func RecommendationPrompt(
	location models.Location,
	materials []string,
	carbon models.Outcome[models.CarbonAnalysis],
	cost models.Outcome[models.CostAnalysis],
	durability models.Outcome[models.DurabilityAnalysis],
) string {
	available := strings.Join(materials, ", ")
	if available == "" {
		available = "none identified"
	}

	parts := []string{
		"Based on the following analyses for construction materials in " + location.String() + ":",
		"",
		"Available materials: " + available,
		"",
		"Carbon Analysis:",
		indentJSON(carbon),
		"",
		"Cost Analysis:",
		indentJSON(cost),
		"",
		"Durability Analysis:",
		indentJSON(durability),
		"",
		"Select the single best material considering sustainability, cost-effectiveness, and durability.",
		"",
		"Respond in this format:",
		"Selected Material: [material name]",
		"Reasoning: [brief explanation]",
	}
	return strings.Join(parts, "\n")
}

func indentJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
