package models

import (
	"strings"
	"time"
)

const (
	AgentAvailability = "AvailabilityAgent"
	AgentCarbon       = "CarbonAgent"
	AgentCost         = "CostAgent"
	AgentDurability   = "DurabilityAgent"

	// RecommendationStep names the synthesis step in its error text.
	RecommendationStep = "recommendation"
)

// EvaluationReport is everything one run produced. It is not modified after
// the orchestrator returns it.
type EvaluationReport struct {
	Location       Location                      `json:"location"`
	Availability   Outcome[MaterialAvailability] `json:"availability"`
	CarbonImpact   Outcome[CarbonAnalysis]       `json:"carbon_impact"`
	CostAnalysis   Outcome[CostAnalysis]         `json:"cost_analysis"`
	Durability     Outcome[DurabilityAnalysis]   `json:"durability"`
	Recommendation string                        `json:"recommendation"`
	Metadata       ReportMetadata                `json:"metadata"`
}

type ReportMetadata struct {
	RunID       string    `json:"run_id"`
	Climate     string    `json:"climate"`
	Materials   []string  `json:"materials"`
	Model       string    `json:"model,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// FailedSections lists the report keys whose step failed.
func (r *EvaluationReport) FailedSections() []string {
	var failed []string
	if !r.Availability.IsOk() {
		failed = append(failed, "availability")
	}
	if !r.CarbonImpact.IsOk() {
		failed = append(failed, "carbon_impact")
	}
	if !r.CostAnalysis.IsOk() {
		failed = append(failed, "cost_analysis")
	}
	if !r.Durability.IsOk() {
		failed = append(failed, "durability")
	}
	if r.RecommendationFailed() {
		failed = append(failed, "recommendation")
	}
	return failed
}

// RecommendationFailed reports whether the recommendation holds an error text.
func (r *EvaluationReport) RecommendationFailed() bool {
	return strings.HasPrefix(r.Recommendation, "Error in "+RecommendationStep+":")
}
