// internal/common/config/config.go
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig               `mapstructure:"app"`
	Model      ModelConfig             `mapstructure:"model"`
	Evaluation EvaluationConfig        `mapstructure:"evaluation"`
	Report     ReportConfig            `mapstructure:"report"`
	Camunda    CamundaConfig           `mapstructure:"camunda"`
	Workers    map[string]WorkerConfig `mapstructure:"workers"`
	Logging    LoggingConfig           `mapstructure:"logging"`
	Metrics    MetricsConfig           `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ModelConfig describes the OpenAI-compatible chat endpoint shared by every agent.
type ModelConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Name        string  `mapstructure:"name"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
	Temperature float64 `mapstructure:"temperature"`
}

// EvaluationConfig controls how one evaluation run is sequenced.
type EvaluationConfig struct {
	ParallelAssessments bool   `mapstructure:"parallel_assessments"`
	MaxConcurrency      int    `mapstructure:"max_concurrency"`
	FallbackClimate     string `mapstructure:"fallback_climate"`
}

type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	Format    string `mapstructure:"format"` // pdf, text, json, yaml
	AutoOpen  bool   `mapstructure:"auto_open"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
	RenderPDF     bool `mapstructure:"render_pdf"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
	// TraceSpans logs every finished trace span at debug level.
	TraceSpans bool `mapstructure:"trace_spans"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

// DefaultOutputDir mirrors where reports have always been written on
// Windows hosts and uses the home directory everywhere else.
func DefaultOutputDir() string {
	if runtime.GOOS == "windows" {
		return `C:\MaterialReports`
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "MaterialReports"
	}
	return filepath.Join(home, "MaterialReports")
}
