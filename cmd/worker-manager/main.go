// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"material-selector/internal/common/camunda"
	"material-selector/internal/common/config"
	"material-selector/internal/common/llm"
	"material-selector/internal/common/logger"
	"material-selector/internal/common/observability"
	"material-selector/internal/orchestrator"
	em "material-selector/internal/workers/evaluation/evaluate-materials"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal("config load failed", zap.Error(err))
	}

	zapLog, err := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		logger.New("info", "console").Fatal("logger setup failed", zap.Error(err))
	}
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...", zap.String("version", cfg.App.Version))

	if err := config.RequireCredentials(cfg); err != nil {
		zapLog.Fatal("model credentials missing", zap.Error(err))
	}
	if err := config.RequireBroker(cfg); err != nil {
		zapLog.Fatal("broker address missing", zap.Error(err))
	}

	obs := observability.New("worker-manager", log, observability.WithSpanLogging(config.TraceSpansEnabled(cfg)))
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Init Zeebe Client with retry ---
	zeebe, err := camunda.Connect(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	}, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Model & orchestrator ---
	model := llm.NewFromConfig(cfg, log)
	evaluator := orchestrator.New(model, orchestrator.Config{
		ParallelAssessments: cfg.Evaluation.ParallelAssessments,
		MaxConcurrency:      cfg.Evaluation.MaxConcurrency,
		FallbackClimate:     cfg.Evaluation.FallbackClimate,
		ModelName:           cfg.Model.Name,
	}, log, orchestrator.WithObservability(obs))

	// --- Workers ---
	wcfg := config.GetWorkerConfig(cfg, em.TaskType)
	handler := em.NewHandler(&em.Config{
		Timeout:   config.GetDuration(wcfg.Timeout),
		RenderPDF: wcfg.RenderPDF,
		OutputDir: cfg.Report.OutputDir,
	}, evaluator, obs, log)
	evaluateWorker := camunda.StartWorker(zeebe.GetClient(), em.TaskType, wcfg, handler.Handle, log)

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           newHealthMux(zeebe.HealthCheck),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	evaluateWorker.Stop()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
