package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"material-selector/internal/common/logger"
)

func TestObservability_RecordsEvaluations(t *testing.T) {
	reg := promclient.NewRegistry()
	obs := New("material-selector-test", logger.NewTestLogger(t), WithRegisterer(reg), WithSpanLogging(true))
	defer obs.Shutdown()

	ctx, span := obs.Tracer().Start(context.Background(), "evaluate-materials")
	assert.NotEmpty(t, TraceID(ctx))
	obs.RecordEvaluation(ctx, "complete", 1500*time.Millisecond)
	obs.RecordJobProcessed(ctx, "success")
	EndSpan(span, errors.New("one agent failed"))

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "evaluations_processed_total")
	assert.Contains(t, names, "evaluations_duration_milliseconds")
	assert.Contains(t, names, "jobs_processed_total")
}

func TestObservability_SpanLogging(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		want    int
	}{
		{"enabled", true, 1},
		{"disabled", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			obs := New("material-selector-test", logger.NewZapAdapter(zap.New(core)),
				WithRegisterer(promclient.NewRegistry()), WithSpanLogging(tt.enabled))
			defer obs.Shutdown()

			_, span := obs.Tracer().Start(context.Background(), "agent.CarbonAgent")
			EndSpan(span, errors.New("upstream returned 502"))

			finished := logs.FilterMessage("Span finished").All()
			require.Len(t, finished, tt.want)
			if tt.want > 0 {
				fields := finished[0].ContextMap()
				assert.Equal(t, "agent.CarbonAgent", fields["span"])
				assert.Equal(t, "upstream returned 502", fields["status"])
			}
		})
	}
}

func TestObservability_NilSafe(t *testing.T) {
	var obs *Observability

	assert.NotPanics(t, func() {
		obs.RecordEvaluation(context.Background(), "degraded", time.Second)
		obs.RecordJobProcessed(context.Background(), "error")
		_, span := obs.Tracer().Start(context.Background(), "noop")
		EndSpan(span, nil)
		obs.Shutdown()
	})
}

func TestTraceID_EmptyWithoutSpan(t *testing.T) {
	assert.Equal(t, "", TraceID(context.Background()))
}
