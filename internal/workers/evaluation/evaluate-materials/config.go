// internal/workers/evaluation/evaluate-materials/config.go
package evaluatematerials

import "time"

type Config struct {
	Timeout   time.Duration
	RenderPDF bool
	OutputDir string
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Minute,
	}
}
