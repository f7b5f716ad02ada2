// Package agents holds the four domain agents. Each one builds a prompt, makes
// one model call, and turns the reply into a typed result or an error record.
package agents

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"material-selector/internal/common/llm"
	"material-selector/internal/common/logger"
	"material-selector/internal/common/metrics"
	"material-selector/internal/common/observability"
	"material-selector/internal/common/validation"
	"material-selector/internal/models"
)

// SystemPrompt is sent with every agent request.
const SystemPrompt = "You are a helpful assistant that always returns valid JSON."

const tracerName = "material-selector/agents"

// runner is the part every agent shares: call, extract, decode, diagnose.
type runner[T any] struct {
	name   string
	model  llm.ChatModel
	schema *validation.Schema
	logger logger.Logger
}

func newRunner[T any](name string, model llm.ChatModel, log logger.Logger) *runner[T] {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.With(map[string]interface{}{"agent": name})

	var zero T
	schema, err := validation.ReflectSchema(name, &zero)
	if err != nil {
		log.Warn("Reply schema unavailable, diagnostics disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return &runner[T]{name: name, model: model, schema: schema, logger: log}
}

func (r *runner[T]) run(ctx context.Context, prompt string, attrs ...attribute.KeyValue) (out models.Outcome[T]) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "agent."+r.name, trace.WithAttributes(attrs...))

	defer func() {
		if rec := recover(); rec != nil {
			out = r.fail(span, fmt.Errorf("panic: %v", rec))
		}
	}()

	reply, err := r.model.Complete(ctx, llm.Request{
		CallSite: r.name,
		System:   SystemPrompt,
		User:     prompt,
	})
	if err != nil {
		return r.fail(span, err)
	}

	var value T
	raw, err := llm.ExtractInto(reply, &value)
	if err != nil {
		r.logger.Debug("Unparseable reply", map[string]interface{}{"reply": reply})
		return r.fail(span, err)
	}

	r.diagnose(raw)
	if s, ok := any(value).(interface{ Skipped() []string }); ok && len(s.Skipped()) > 0 {
		r.logger.Warn("Dropped reply entries that are not material records", map[string]interface{}{
			"keys": s.Skipped(),
		})
	}
	observability.EndSpan(span, nil)
	metrics.AgentOutcomes.WithLabelValues(r.name, metrics.StatusSuccess).Inc()
	return models.Ok(value)
}

func (r *runner[T]) fail(span trace.Span, err error) models.Outcome[T] {
	agentErr := models.NewAgentError(r.name, err)
	observability.EndSpan(span, agentErr)
	metrics.AgentOutcomes.WithLabelValues(r.name, metrics.StatusError).Inc()
	r.logger.Error("Agent failed", map[string]interface{}{
		"errorCode": string(llm.Classify(err)),
		"error":     err.Error(),
	})
	return models.Failed[T](agentErr)
}

// diagnose logs schema mismatches. It never changes the outcome.
func (r *runner[T]) diagnose(raw []byte) {
	if r.schema == nil {
		return
	}
	result, err := r.schema.Check(raw)
	if err != nil || result.Valid {
		return
	}
	metrics.AgentSchemaIssues.WithLabelValues(r.name).Add(float64(len(result.Errors)))
	r.logger.Warn("Reply does not match the expected shape", map[string]interface{}{
		"issues": result.GetErrorMessages(),
	})
}
