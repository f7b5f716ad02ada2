package evaluatematerials

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "material-selector/internal/common/errors"
	"material-selector/internal/common/logger"
	"material-selector/internal/common/metrics"
	"material-selector/internal/common/observability"
	"material-selector/internal/models"
	"material-selector/internal/report"
)

const TaskType = "evaluate-materials"

// Evaluator runs one full evaluation. *orchestrator.Orchestrator satisfies it.
type Evaluator interface {
	Evaluate(ctx context.Context, city, country string) *models.EvaluationReport
}

type Handler struct {
	config       *Config
	evaluator    Evaluator
	errorHandler *apperrors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
}

func NewHandler(config *Config, evaluator Evaluator, obs *observability.Observability, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		evaluator:    evaluator,
		errorHandler: apperrors.NewErrorHandler(log),
		obs:          obs,
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()
	defer func() {
		metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	}()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := DecodeInput(job.Variables)
	if err != nil {
		h.fail(client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.fail(client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

// DecodeInput reads {city, country} from the job variables.
func DecodeInput(variables string) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewInvalidLocationError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

// Execute evaluates the location and, when configured, writes the PDF. A
// degraded report is still a successful job; its failed sections are listed
// in the output.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	location := models.Location{
		City:    strings.TrimSpace(input.City),
		Country: strings.TrimSpace(input.Country),
	}
	if err := location.Validate(); err != nil {
		return nil, apperrors.NewInvalidLocationError(err.Error())
	}

	result := h.evaluator.Evaluate(ctx, location.City, location.Country)

	failed := result.FailedSections()
	if failed == nil {
		failed = []string{}
	}
	output := &Output{Report: result, FailedSections: failed}

	if h.config.RenderPDF {
		path, err := report.Write(result, h.config.OutputDir, report.FormatPDF)
		if err != nil {
			return nil, err
		}
		output.ReportPath = path
	}

	h.logger.Info("evaluation completed", map[string]interface{}{
		"runId":          result.Metadata.RunID,
		"location":       location.String(),
		"failedSections": failed,
		"reportPath":     output.ReportPath,
	})
	return output, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.fail(client, job, apperrors.NewReportRenderFailedError("json", err))
		return
	}

	// the job context may already be spent by a slow evaluation
	ctx := context.Background()
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.obs.RecordJobProcessed(ctx, metrics.StatusSuccess)
}

func (h *Handler) fail(client worker.JobClient, job entities.Job, err error) {
	ctx := context.Background()
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.CodeOf(err))).Inc()
	h.obs.RecordJobProcessed(ctx, metrics.StatusError)
	h.errorHandler.HandleJobError(ctx, client, job, err)
}
