// cmd/material-selector/main.go
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/browser"
	"github.com/prometheus/client_golang/prometheus"

	"material-selector/internal/common/config"
	"material-selector/internal/common/llm"
	"material-selector/internal/common/logger"
	"material-selector/internal/common/observability"
	"material-selector/internal/orchestrator"
	"material-selector/internal/report"
)

type options struct {
	city       string
	country    string
	configPath string
	format     string
	outDir     string
	noOpen     bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("material-selector", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.city, "city", "", "City to evaluate (prompted when empty)")
	fs.StringVar(&opts.country, "country", "", "Country to evaluate (prompted when empty)")
	fs.StringVar(&opts.configPath, "config", "", "Path to a config file (default: configs/config.yaml)")
	fs.StringVar(&opts.format, "format", "", "Report format: pdf, text, json or yaml")
	fs.StringVar(&opts.outDir, "out", "", "Output directory for the report")
	fs.BoolVar(&opts.noOpen, "no-open", false, "Do not open the report when done")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// openFile is replaced in tests.
var openFile = browser.OpenFile

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintln(stderr, errorStyle.Render("Configuration error: "+err.Error()))
		return 1
	}

	formatName := cfg.Report.Format
	if opts.format != "" {
		formatName = opts.format
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		fmt.Fprintln(stderr, errorStyle.Render(err.Error()))
		return 2
	}

	zapLog, err := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		fmt.Fprintln(stderr, errorStyle.Render("Logger setup failed: "+err.Error()))
		return 1
	}
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	if config.EnvFileLoaded != "" {
		log.Debug("Loaded environment file", map[string]interface{}{"path": config.EnvFileLoaded})
	}
	if err := config.RequireCredentials(cfg); err != nil {
		log.Warn("Model credential is missing, model calls will fail", map[string]interface{}{"error": err.Error()})
	}

	location, err := promptLocation(bufio.NewReader(stdin), stdout, opts.city, opts.country)
	if err != nil {
		fmt.Fprintln(stderr, errorStyle.Render(err.Error()))
		return 1
	}

	printBanner(stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the CLI serves no /metrics, so keep exporter state off the global registry
	obs := observability.New(cfg.App.Name, log,
		observability.WithRegisterer(prometheus.NewRegistry()),
		observability.WithSpanLogging(config.TraceSpansEnabled(cfg)),
	)
	defer obs.Shutdown()

	model := llm.NewFromConfig(cfg, log)
	orch := orchestrator.New(model, orchestrator.Config{
		ParallelAssessments: cfg.Evaluation.ParallelAssessments,
		MaxConcurrency:      cfg.Evaluation.MaxConcurrency,
		FallbackClimate:     cfg.Evaluation.FallbackClimate,
		ModelName:           cfg.Model.Name,
	}, log,
		orchestrator.WithProgress(func(message string) {
			fmt.Fprintln(stdout, progressStyle.Render(message))
		}),
		orchestrator.WithObservability(obs),
	)

	result := orch.Evaluate(ctx, location.City, location.Country)

	dir := cfg.Report.OutputDir
	if opts.outDir != "" {
		dir = opts.outDir
	}
	_, statErr := os.Stat(dir)
	created := os.IsNotExist(statErr)

	path, err := report.Write(result, dir, format)
	if err != nil {
		log.Error("Writing report failed", map[string]interface{}{"error": err.Error(), "dir": dir})
		fmt.Fprintln(stderr, errorStyle.Render("Could not write report: "+err.Error()))
		return 1
	}
	if created {
		fmt.Fprintf(stdout, "Created reports folder: %s\n", dir)
	}

	if failed := result.FailedSections(); len(failed) > 0 {
		fmt.Fprintln(stdout, warnStyle.Render("Some analyses failed: "+strings.Join(failed, ", ")))
	}

	if opts.noOpen || !cfg.Report.AutoOpen {
		fmt.Fprintln(stdout, successStyle.Render("Report generated: "+path))
		return 0
	}
	if err := openFile(path); err != nil {
		fmt.Fprintln(stdout, successStyle.Render("Report generated successfully: "+path))
		fmt.Fprintf(stdout, "Could not auto-open report: %v\n", err)
		return 0
	}
	fmt.Fprintln(stdout, successStyle.Render("Report generated and opened: "+path))
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func init() {
	// xdg-open and friends write to the terminal otherwise
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}
