package observability

import (
	"context"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"material-selector/internal/common/logger"
)

// Observability owns the OpenTelemetry meter and tracer providers for a process.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer

	evaluations        otelmetric.Int64Counter
	evaluationDuration otelmetric.Float64Histogram
	jobCounter         otelmetric.Int64Counter
}

type options struct {
	registerer promclient.Registerer
	logSpans   bool
}

type Option func(*options)

// WithRegisterer sends exported metrics to reg instead of the default registry.
func WithRegisterer(reg promclient.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithSpanLogging logs every finished span at debug level. Without it the
// tracer provider has no processor and spans are dropped.
func WithSpanLogging(enabled bool) Option {
	return func(o *options) { o.logSpans = enabled }
}

func New(serviceName string, log logger.Logger, opts ...Option) *Observability {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if o.logSpans {
		tpOpts = append(tpOpts, sdktrace.WithSpanProcessor(&logSpanProcessor{log: log}))
	}
	tp := sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(tp)

	obs := &Observability{
		tracerProvider: tp,
		tracer:         tp.Tracer(serviceName),
	}

	var exporterOpts []prometheus.Option
	if o.registerer != nil {
		exporterOpts = append(exporterOpts, prometheus.WithRegisterer(o.registerer))
	}
	exporter, err := prometheus.New(exporterOpts...)
	if err != nil {
		log.Warn("Failed to create Prometheus exporter, metrics disabled", map[string]interface{}{
			"error": err.Error(),
		})
		return obs
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
	otel.SetMeterProvider(provider)
	meter := provider.Meter(serviceName)

	obs.meterProvider = provider
	obs.evaluations, _ = meter.Int64Counter(
		"evaluations_processed",
		otelmetric.WithDescription("Number of evaluation runs"),
	)
	obs.evaluationDuration, _ = meter.Float64Histogram(
		"evaluations_duration",
		otelmetric.WithDescription("Evaluation run duration"),
		otelmetric.WithUnit("ms"),
	)
	obs.jobCounter, _ = meter.Int64Counter(
		"jobs_processed",
		otelmetric.WithDescription("Number of workflow jobs processed"),
	)
	return obs
}

// Tracer returns the process tracer, or the global one when o is nil.
func (o *Observability) Tracer() trace.Tracer {
	if o == nil || o.tracer == nil {
		return otel.Tracer("material-selector")
	}
	return o.tracer
}

// RecordEvaluation counts one run. status is "complete" or "degraded".
func (o *Observability) RecordEvaluation(ctx context.Context, status string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("status", status))
	if o.evaluations != nil {
		o.evaluations.Add(ctx, 1, attrs)
	}
	if o.evaluationDuration != nil {
		o.evaluationDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) RecordJobProcessed(ctx context.Context, status string) {
	if o == nil || o.jobCounter == nil {
		return
	}
	o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("status", status)))
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
}
