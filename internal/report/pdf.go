package report

import (
	"io"

	"github.com/go-pdf/fpdf"

	"material-selector/internal/models"
)

type rgb struct{ r, g, b int }

var (
	titleColor          = rgb{0x2E, 0x86, 0xAB}
	sectionColor        = rgb{0xA2, 0x3B, 0x72}
	recommendationColor = rgb{0xF1, 0x8F, 0x01}
	warningColor        = rgb{0xC0, 0x39, 0x2B}
	bodyColor           = rgb{0x00, 0x00, 0x00}
)

const (
	fontFamily = "Helvetica"
	margin     = 72.0 // one inch, in points
	indent     = 20.0
	lineHeight = 14.0
)

// RenderPDF writes the report as a Letter-size PDF to w.
func RenderPDF(w io.Writer, r *models.EvaluationReport) error {
	return newPDF(r).Output(w)
}

type pdfWriter struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	width float64
}

func newPDF(r *models.EvaluationReport) *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(Title+" - "+r.Location.String(), true)
	pdf.SetCreator("material-selector", true)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	w := &pdfWriter{
		pdf: pdf,
		// core fonts are cp1252; the translator maps bullets and accents
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		width: pageWidth - 2*margin,
	}
	for _, b := range Build(r).Blocks {
		w.block(b)
	}
	return pdf
}

func (w *pdfWriter) style(c rgb, fontStyle string, size float64) {
	w.pdf.SetTextColor(c.r, c.g, c.b)
	w.pdf.SetFont(fontFamily, fontStyle, size)
}

func (w *pdfWriter) indented(text string) {
	w.pdf.SetX(margin + indent)
	w.pdf.MultiCell(w.width-indent, lineHeight, w.tr(text), "", "L", false)
}

func (w *pdfWriter) block(b Block) {
	switch b.Kind {
	case KindTitle:
		w.style(titleColor, "B", 24)
		w.pdf.CellFormat(w.width, 30, w.tr(b.Text), "", 1, "C", false, 0, "")
		w.pdf.Ln(12)
	case KindSubtitle:
		w.style(bodyColor, "B", 14)
		w.pdf.CellFormat(w.width, 18, w.tr(b.Text), "", 1, "L", false, 0, "")
	case KindLocation:
		w.style(bodyColor, "B", 12)
		w.pdf.MultiCell(w.width, 16, w.tr(b.Text), "", "L", false)
	case KindSection:
		w.style(sectionColor, "B", 16)
		w.pdf.MultiCell(w.width, 20, w.tr(b.Text), "", "L", false)
		w.pdf.Ln(8)
	case KindRecommendationHeading:
		w.style(recommendationColor, "B", 18)
		w.pdf.CellFormat(w.width, 24, w.tr(b.Text), "", 1, "C", false, 0, "")
		w.pdf.Ln(10)
	case KindLabel:
		w.style(bodyColor, "", 11)
		w.pdf.MultiCell(w.width, lineHeight, w.tr(b.Text), "", "L", false)
	case KindItem:
		w.style(bodyColor, "", 11)
		w.indented("• " + b.Text)
	case KindMaterial:
		w.style(bodyColor, "B", 11)
		w.pdf.MultiCell(w.width, lineHeight, w.tr(b.Text), "", "L", false)
	case KindField:
		w.style(bodyColor, "", 11)
		w.indented(b.Text)
	case KindWarning:
		w.style(warningColor, "I", 11)
		w.pdf.MultiCell(w.width, lineHeight, w.tr(b.Text), "", "L", false)
	case KindParagraph:
		w.style(bodyColor, "", 11)
		w.pdf.MultiCell(w.width, lineHeight, w.tr(b.Text), "", "L", false)
	case KindSpacer:
		w.pdf.Ln(8)
	case KindPageBreak:
		w.pdf.AddPage()
	}
}
