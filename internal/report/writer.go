package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "material-selector/internal/common/errors"
	"material-selector/internal/models"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "txt":
		return FormatText, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported report format %q", s)
	}
}

func (f Format) Extension() string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}

var pathSeparators = strings.NewReplacer("/", "_", `\`, "_")

// FileName is material_evaluation_{city}_{country}.{ext}, lowercased, with
// path separators replaced so the name cannot leave the output directory.
func FileName(loc models.Location, f Format) string {
	name := fmt.Sprintf("material_evaluation_%s_%s.%s",
		strings.ToLower(loc.City), strings.ToLower(loc.Country), f.Extension())
	return pathSeparators.Replace(name)
}

// Render writes the report to w in the given format.
func Render(w io.Writer, r *models.EvaluationReport, f Format) error {
	var err error
	switch f {
	case FormatPDF:
		err = RenderPDF(w, r)
	case FormatText:
		err = WriteText(w, r)
	case FormatJSON:
		err = ExportJSON(w, r)
	case FormatYAML:
		err = ExportYAML(w, r)
	default:
		err = fmt.Errorf("unsupported report format %q", f)
	}
	if err != nil {
		return apperrors.NewReportRenderFailedError(string(f), err)
	}
	return nil
}

// Write renders the report into dir, creating it when missing, and returns
// the path of the written file.
func Write(r *models.EvaluationReport, dir string, f Format) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.NewReportRenderFailedError(string(f), fmt.Errorf("create output directory: %w", err))
	}

	path := filepath.Join(dir, FileName(r.Location, f))
	file, err := os.Create(path)
	if err != nil {
		return "", apperrors.NewReportRenderFailedError(string(f), err)
	}

	if err := Render(file, r, f); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", apperrors.NewReportRenderFailedError(string(f), err)
	}
	return path, nil
}
