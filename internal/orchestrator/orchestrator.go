// Package orchestrator sequences one evaluation run: climate, availability,
// the three assessments, the recommendation, and the final report.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"material-selector/internal/agents"
	"material-selector/internal/common/llm"
	"material-selector/internal/common/logger"
	"material-selector/internal/common/metrics"
	"material-selector/internal/common/observability"
	"material-selector/internal/models"
)

const (
	ClimateSystemPrompt        = "You are a geography expert. Provide concise climate classifications."
	RecommendationSystemPrompt = "You are a helpful assistant that selects the best construction material based on provided analyses."

	DefaultClimate = "temperate"
)

var errEmptyClimate = errors.New("model returned an empty climate")

type Config struct {
	ParallelAssessments bool
	MaxConcurrency      int
	FallbackClimate     string
	// ModelName is recorded in report metadata.
	ModelName string
}

// ProgressFunc receives human-readable progress lines. Calls are serialized,
// also while assessments run in parallel.
type ProgressFunc func(message string)

type Orchestrator struct {
	model        llm.ChatModel
	availability *agents.AvailabilityAgent
	carbon       *agents.CarbonAgent
	cost         *agents.CostAgent
	durability   *agents.DurabilityAgent

	cfg      Config
	logger   logger.Logger
	progress ProgressFunc
	progMu   sync.Mutex
	obs      *observability.Observability
	now      func() time.Time
}

type Option func(*Orchestrator)

func WithProgress(fn ProgressFunc) Option {
	return func(o *Orchestrator) { o.progress = fn }
}

func WithObservability(obs *observability.Observability) Option {
	return func(o *Orchestrator) { o.obs = obs }
}

// WithClock overrides the time source used for report metadata.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New wires the four agents to one shared model.
func New(model llm.ChatModel, cfg Config, log logger.Logger, opts ...Option) *Orchestrator {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 3
	}
	cfg.FallbackClimate = strings.ToLower(strings.TrimSpace(cfg.FallbackClimate))
	if cfg.FallbackClimate == "" {
		cfg.FallbackClimate = DefaultClimate
	}

	o := &Orchestrator{
		model:        model,
		availability: agents.NewAvailabilityAgent(model, log),
		carbon:       agents.NewCarbonAgent(model, log),
		cost:         agents.NewCostAgent(model, log),
		durability:   agents.NewDurabilityAgent(model, log),
		cfg:          cfg,
		logger:       log,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Evaluate runs every step for one location. It always returns a complete
// report; failed steps are recorded in it instead of aborting the run.
func (o *Orchestrator) Evaluate(ctx context.Context, city, country string) *models.EvaluationReport {
	start := time.Now()
	runID := uuid.NewString()
	location := models.Location{City: city, Country: country}

	ctx, span := o.obs.Tracer().Start(ctx, "evaluate-materials", trace.WithAttributes(
		attribute.String("runId", runID),
		attribute.String("city", city),
		attribute.String("country", country),
	))
	defer span.End()

	log := o.logger.With(map[string]interface{}{
		"runId":   runID,
		"traceId": observability.TraceID(ctx),
		"city":    city,
		"country": country,
	})
	log.Info("Evaluation started", map[string]interface{}{"mode": o.mode()})

	climate := o.DetermineClimate(ctx, city, country)
	o.report(fmt.Sprintf("Evaluating materials for %s, %s (climate: %s)...", city, country, climate))

	availability := o.availability.Run(ctx, city, country)
	o.report("Availability analysis complete")

	materials := Materials(availability)
	log.Info("Materials selected for assessment", map[string]interface{}{
		"materials": materials,
		"climate":   climate,
	})

	a := o.assess(ctx, materials, city, climate)
	recommendation := o.Recommend(ctx, location, materials, a.carbon, a.cost, a.durability)

	report := &models.EvaluationReport{
		Location:       location,
		Availability:   availability,
		CarbonImpact:   a.carbon,
		CostAnalysis:   a.cost,
		Durability:     a.durability,
		Recommendation: recommendation,
		Metadata: models.ReportMetadata{
			RunID:       runID,
			Climate:     climate,
			Materials:   materials,
			Model:       o.cfg.ModelName,
			GeneratedAt: o.now().UTC(),
		},
	}

	status := "complete"
	failed := report.FailedSections()
	if len(failed) > 0 {
		status = "degraded"
		span.SetAttributes(attribute.StringSlice("failedSections", failed))
	}
	metrics.Evaluations.WithLabelValues(o.mode()).Inc()
	o.obs.RecordEvaluation(ctx, status, time.Since(start))

	log.Info("Evaluation finished", map[string]interface{}{
		"status":         status,
		"failedSections": failed,
		"durationMs":     time.Since(start).Milliseconds(),
	})
	return report
}

// Materials is the list handed to the assessment agents. A failed
// availability step yields an empty list.
func Materials(availability models.Outcome[models.MaterialAvailability]) []string {
	value, ok := availability.Value()
	if !ok {
		return []string{}
	}
	return value.Materials()
}

// DetermineClimate asks the model for a one-word climate class and falls back
// to the configured default when the call fails.
func (o *Orchestrator) DetermineClimate(ctx context.Context, city, country string) string {
	reply, err := o.model.Complete(ctx, llm.Request{
		CallSite: "climate",
		System:   ClimateSystemPrompt,
		User:     ClimatePrompt(city, country),
	})
	if err == nil {
		if climate := normalizeClimate(reply); climate != "" {
			return climate
		}
		err = errEmptyClimate
	}

	o.logger.Warn("Climate lookup failed, using fallback", map[string]interface{}{
		"error":    err.Error(),
		"fallback": o.cfg.FallbackClimate,
	})
	o.report(fmt.Sprintf("Error determining climate: %v, using default.", err))
	return o.cfg.FallbackClimate
}

func ClimatePrompt(city, country string) string {
	return fmt.Sprintf(
		"What is the typical climate type for %s, %s? Respond with a single word like "+
			"'temperate', 'tropical', 'subtropical', 'arid', 'desert', 'continental', etc.",
		city, country,
	)
}

func normalizeClimate(reply string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(reply), " \t\r\n.\"'`"))
}

func (o *Orchestrator) mode() string {
	if o.cfg.ParallelAssessments {
		return "parallel"
	}
	return "sequential"
}

func (o *Orchestrator) report(message string) {
	if o.progress == nil {
		return
	}
	o.progMu.Lock()
	defer o.progMu.Unlock()
	o.progress(message)
}
