package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"material-selector/internal/models"
)

// ExportJSON writes the report as indented JSON.
func ExportJSON(w io.Writer, r *models.EvaluationReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}

// ExportYAML writes the report as YAML with the same key order as the JSON
// form. The JSON document is loaded as a yaml.Node so per-material maps keep
// the order the model listed them in.
func ExportYAML(w io.Writer, r *models.EvaluationReport) error {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, r); err != nil {
		return err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(buf.Bytes(), &node); err != nil {
		return fmt.Errorf("convert report to yaml: %w", err)
	}
	plain(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

// plain drops the flow and quoting styles inherited from JSON.
func plain(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		plain(c)
	}
}
