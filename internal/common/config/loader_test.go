package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BYTEZ_API_KEY", "")
	t.Setenv("MODEL_API_KEY", "")
	t.Setenv("MODEL_NAME", "")
}

// ==========================
// Defaults
// ==========================

func TestLoadFromFile_Defaults(t *testing.T) {
	clearCredentialEnv(t)
	path := writeConfig(t, "app:\n  name: material-selector\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultModelBaseURL, cfg.Model.BaseURL)
	assert.Equal(t, DefaultModelName, cfg.Model.Name)
	assert.Equal(t, 60000, cfg.Model.Timeout)
	assert.True(t, cfg.Evaluation.ParallelAssessments)
	assert.Equal(t, 3, cfg.Evaluation.MaxConcurrency)
	assert.Equal(t, "temperate", cfg.Evaluation.FallbackClimate)
	assert.Equal(t, "pdf", cfg.Report.Format)
	assert.True(t, cfg.Report.AutoOpen)
	assert.NotEmpty(t, cfg.Report.OutputDir)
	assert.Equal(t, ":8080", cfg.Metrics.Address)
	assert.Empty(t, cfg.Model.APIKey)
	assert.ErrorIs(t, RequireCredentials(cfg), ErrMissingAPIKey)
	assert.ErrorIs(t, RequireBroker(cfg), ErrMissingBrokerAddress)
}

func TestLoadFromFile_FileValues(t *testing.T) {
	clearCredentialEnv(t)
	path := writeConfig(t, `
model:
  base_url: http://localhost:9999/v1
  name: test-model
  timeout: 1500
evaluation:
  parallel_assessments: false
  fallback_climate: " Arid "
report:
  output_dir: /tmp/reports
  format: YAML
workers:
  evaluate-materials:
    enabled: true
    render_pdf: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/v1/", cfg.Model.BaseURL)
	assert.Equal(t, "test-model", cfg.Model.Name)
	assert.Equal(t, 1500, cfg.Model.Timeout)
	assert.False(t, cfg.Evaluation.ParallelAssessments)
	assert.Equal(t, "arid", cfg.Evaluation.FallbackClimate)
	assert.Equal(t, "/tmp/reports", cfg.Report.OutputDir)
	assert.Equal(t, "yaml", cfg.Report.Format)

	wcfg := GetWorkerConfig(cfg, "evaluate-materials")
	assert.True(t, wcfg.RenderPDF)
	assert.Equal(t, 5, wcfg.MaxJobsActive)
	assert.Equal(t, 7500, wcfg.Timeout)
	assert.Equal(t, 3, wcfg.MaxRetries)
}

// ==========================
// Environment overrides
// ==========================

func TestLoadFromFile_CredentialFallback(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("BYTEZ_API_KEY", "bytez-secret")
	path := writeConfig(t, "app:\n  name: material-selector\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "bytez-secret", cfg.Model.APIKey)
	assert.NoError(t, RequireCredentials(cfg))
}

func TestLoadFromFile_PlaceholderExpansion(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("MATERIAL_TEST_KEY", "from-placeholder")
	path := writeConfig(t, "model:\n  api_key: ${MATERIAL_TEST_KEY}\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-placeholder", cfg.Model.APIKey)
}

func TestLoadFromFile_AutomaticEnv(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("MODEL_NAME", "env-model")
	path := writeConfig(t, "model:\n  name: file-model\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "env-model", cfg.Model.Name)
}

// ==========================
// Validation
// ==========================

func TestLoadFromFile_Invalid(t *testing.T) {
	clearCredentialEnv(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown format", "report:\n  format: docx\n", "report.format"},
		{"temperature out of range", "model:\n  temperature: 3.5\n", "model.temperature"},
		{"empty model name", "model:\n  name: \"\"\n", "model.name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestIsSupportedFormat(t *testing.T) {
	assert.True(t, IsSupportedFormat("PDF"))
	assert.True(t, IsSupportedFormat("text"))
	assert.False(t, IsSupportedFormat("docx"))
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, "1.5s", GetDuration(1500).String())
}

func TestTraceSpansEnabled(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"default", "app:\n  name: material-selector\n", false},
		{"explicit", "logging:\n  trace_spans: true\n", true},
		{"debug level", "logging:\n  level: debug\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCredentialEnv(t)
			cfg, err := LoadFromFile(writeConfig(t, tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, TraceSpansEnabled(cfg))
		})
	}
}
