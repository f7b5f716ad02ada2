// internal/common/config/loader.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultModelBaseURL = "https://api.bytez.com/models/v2/openai/v1/"
	DefaultModelName    = "openai/gpt-4o-mini"
	DefaultClimate      = "temperate"
)

var (
	ErrMissingAPIKey        = errors.New("model api key is not set (BYTEZ_API_KEY)")
	ErrMissingBrokerAddress = errors.New("camunda.broker_address is required")
)

// credentialEnvVars are consulted in order when model.api_key is empty.
var credentialEnvVars = []string{"BYTEZ_API_KEY", "MODEL_API_KEY"}

// EnvFileLoaded holds the .env path picked up by the last Load, if any.
var EnvFileLoaded string

// Load reads configs/config.yaml (optional), merges config.<APP_ENVIRONMENT>.yaml
// and applies environment overrides.
func Load() (*Config, error) {
	EnvFileLoaded = loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	EnvFileLoaded = loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key with viper so AutomaticEnv can resolve
// overrides such as MODEL_NAME or EVALUATION_PARALLEL_ASSESSMENTS.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "material-selector")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("model.base_url", DefaultModelBaseURL)
	v.SetDefault("model.api_key", "")
	v.SetDefault("model.name", DefaultModelName)
	v.SetDefault("model.timeout", 60000)
	v.SetDefault("model.temperature", 0.0)

	v.SetDefault("evaluation.parallel_assessments", true)
	v.SetDefault("evaluation.max_concurrency", 3)
	v.SetDefault("evaluation.fallback_climate", DefaultClimate)

	v.SetDefault("report.output_dir", "")
	v.SetDefault("report.format", "pdf")
	v.SetDefault("report.auto_open", true)

	v.SetDefault("camunda.broker_address", "")
	v.SetDefault("camunda.max_jobs_active", 10)
	v.SetDefault("camunda.timeout", 30000)
	v.SetDefault("camunda.request_timeout", 30000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.trace_spans", false)

	v.SetDefault("metrics.address", ":8080")
}

// loadEnvFile looks for a .env next to the binary's working directory, in its
// parents, and at the module root. It returns the path it loaded.
func loadEnvFile() string {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders left in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok || !strings.Contains(strVal, "$") {
			continue
		}
		if expanded := os.ExpandEnv(strVal); expanded != strVal {
			v.Set(key, expanded)
		}
	}
}

// Direct override if config values are still empty after expansion
func overrideEmptyConfig(cfg *Config) {
	if cfg.Model.APIKey == "" {
		for _, name := range credentialEnvVars {
			if val := os.Getenv(name); val != "" {
				cfg.Model.APIKey = val
				break
			}
		}
	}
	if cfg.Camunda.BrokerAddress == "" {
		if val := os.Getenv("ZEEBE_ADDRESS"); val != "" {
			cfg.Camunda.BrokerAddress = val
		}
	}
}

// applyDefaults fills values that are still unusable after unmarshalling.
func applyDefaults(cfg *Config) {
	if cfg.Model.BaseURL != "" && !strings.HasSuffix(cfg.Model.BaseURL, "/") {
		cfg.Model.BaseURL += "/"
	}
	if cfg.Model.Timeout <= 0 {
		cfg.Model.Timeout = 60000
	}
	if cfg.Evaluation.MaxConcurrency <= 0 {
		cfg.Evaluation.MaxConcurrency = 3
	}
	if strings.TrimSpace(cfg.Evaluation.FallbackClimate) == "" {
		cfg.Evaluation.FallbackClimate = DefaultClimate
	}
	cfg.Evaluation.FallbackClimate = strings.ToLower(strings.TrimSpace(cfg.Evaluation.FallbackClimate))

	if cfg.Report.OutputDir == "" {
		cfg.Report.OutputDir = DefaultOutputDir()
	}
	cfg.Report.Format = strings.ToLower(strings.TrimSpace(cfg.Report.Format))
	if cfg.Report.Format == "" {
		cfg.Report.Format = "pdf"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	if cfg.Workers == nil {
		cfg.Workers = make(map[string]WorkerConfig)
	}
	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			// one run is five sequential model calls at most
			worker.Timeout = 5 * cfg.Model.Timeout
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

var supportedFormats = map[string]bool{"pdf": true, "text": true, "json": true, "yaml": true}

func validateConfig(cfg *Config) error {
	if cfg.Model.BaseURL == "" {
		return fmt.Errorf("model.base_url is required")
	}
	if cfg.Model.Name == "" {
		return fmt.Errorf("model.name is required")
	}
	if cfg.Model.Temperature < 0 || cfg.Model.Temperature > 2 {
		return fmt.Errorf("model.temperature must be between 0 and 2, got %v", cfg.Model.Temperature)
	}
	if !supportedFormats[cfg.Report.Format] {
		return fmt.Errorf("report.format %q is not one of pdf, text, json, yaml", cfg.Report.Format)
	}
	return nil
}

// RequireCredentials is enforced by entry points that cannot do anything
// useful without the model.
func RequireCredentials(cfg *Config) error {
	if strings.TrimSpace(cfg.Model.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// RequireBroker is enforced by the worker manager.
func RequireBroker(cfg *Config) error {
	if strings.TrimSpace(cfg.Camunda.BrokerAddress) == "" {
		return ErrMissingBrokerAddress
	}
	return nil
}

// IsSupportedFormat reports whether a report format can be rendered.
func IsSupportedFormat(format string) bool {
	return supportedFormats[strings.ToLower(format)]
}

// TraceSpansEnabled reports whether finished spans should be logged. Debug
// logging turns it on as well.
func TraceSpansEnabled(cfg *Config) bool {
	return cfg.Logging.TraceSpans || strings.EqualFold(cfg.Logging.Level, "debug")
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       5 * cfg.Model.Timeout,
		MaxRetries:    3,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
