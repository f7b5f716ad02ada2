package report

import (
	"io"
	"strings"

	"material-selector/internal/models"
)

// RenderText renders the report as plain text.
func RenderText(r *models.EvaluationReport) string {
	return Build(r).Text()
}

func (d Document) Text() string {
	var out []string
	for _, b := range d.Blocks {
		switch b.Kind {
		case KindTitle:
			rule := strings.Repeat("=", 80)
			out = append(out, rule, b.Text, rule)
		case KindSection, KindRecommendationHeading:
			out = append(out, b.Text, strings.Repeat("-", 30))
		case KindItem:
			out = append(out, "   • "+b.Text)
		case KindMaterial:
			out = append(out, "• "+b.Text)
		case KindField, KindWarning:
			out = append(out, "   "+b.Text)
		case KindSpacer:
			out = append(out, "")
		case KindPageBreak:
			// blank line unless one is already there
			if len(out) > 0 && out[len(out)-1] != "" {
				out = append(out, "")
			}
		default:
			out = append(out, b.Text)
		}
	}
	return strings.Join(out, "\n") + "\n"
}

// WriteText writes RenderText output to w.
func WriteText(w io.Writer, r *models.EvaluationReport) error {
	_, err := io.WriteString(w, RenderText(r))
	return err
}
