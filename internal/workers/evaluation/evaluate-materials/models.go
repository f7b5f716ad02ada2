// internal/workers/evaluation/evaluate-materials/models.go
package evaluatematerials

import "material-selector/internal/models"

type Input struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

type Output struct {
	Report         *models.EvaluationReport `json:"report"`
	ReportPath     string                   `json:"reportPath,omitempty"`
	FailedSections []string                 `json:"failedSections"`
}
