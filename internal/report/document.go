// Package report turns an EvaluationReport into a document and writes it as
// PDF, plain text, JSON or YAML.
package report

import (
	"strings"

	"material-selector/internal/models"
)

const (
	Title    = "AGENTIC MATERIAL SELECTOR"
	Subtitle = "Comprehensive Evaluation Report"

	SectionAvailability   = "MATERIAL AVAILABILITY"
	SectionCarbon         = "CARBON FOOTPRINT ANALYSIS"
	SectionCost           = "COST ANALYSIS"
	SectionDurability     = "DURABILITY ANALYSIS"
	SectionRecommendation = "RECOMMENDATION"

	notAvailable = "n/a"
	unknownTier  = "UNKNOWN"
)

type Kind int

const (
	KindTitle Kind = iota
	KindSubtitle
	KindLocation
	KindSection
	KindRecommendationHeading
	// KindLabel introduces an availability group.
	KindLabel
	// KindItem is one bulleted material in an availability group.
	KindItem
	// KindMaterial opens one material's block in an assessment section.
	KindMaterial
	// KindField is an indented detail line under a material.
	KindField
	KindWarning
	KindParagraph
	KindSpacer
	KindPageBreak
)

type Block struct {
	Kind Kind
	Text string
}

// Document is the renderer-neutral layout shared by the PDF and text output.
type Document struct {
	Blocks []Block
}

// Headings returns the text of every section and recommendation heading.
func (d Document) Headings() []string {
	var out []string
	for _, b := range d.Blocks {
		if b.Kind == KindSection || b.Kind == KindRecommendationHeading {
			out = append(out, b.Text)
		}
	}
	return out
}

func (d Document) PageBreaks() int {
	n := 0
	for _, b := range d.Blocks {
		if b.Kind == KindPageBreak {
			n++
		}
	}
	return n
}

type builder struct {
	blocks []Block
}

func (b *builder) add(kind Kind, text string) {
	b.blocks = append(b.blocks, Block{Kind: kind, Text: text})
}

// unavailable marks a section whose step failed.
func (b *builder) unavailable(err error) {
	b.add(KindWarning, "Analysis unavailable: "+err.Error())
}

// Build lays out the report in its fixed section order. It never fails:
// failed steps become warnings and missing fields become placeholders.
func Build(r *models.EvaluationReport) Document {
	b := &builder{}

	b.add(KindTitle, Title)
	b.add(KindSubtitle, Subtitle)
	b.add(KindSpacer, "")
	b.add(KindLocation, "LOCATION: "+r.Location.String())
	b.add(KindSpacer, "")

	b.availability(r.Availability)
	b.add(KindPageBreak, "")
	b.carbon(r.CarbonImpact)
	b.add(KindPageBreak, "")
	b.cost(r.CostAnalysis)
	b.add(KindPageBreak, "")
	b.durability(r.Durability)
	b.add(KindPageBreak, "")

	b.add(KindRecommendationHeading, SectionRecommendation)
	if r.RecommendationFailed() {
		b.add(KindWarning, r.Recommendation)
	} else {
		b.add(KindParagraph, r.Recommendation)
	}

	return Document{Blocks: b.blocks}
}

func (b *builder) availability(out models.Outcome[models.MaterialAvailability]) {
	b.add(KindSection, SectionAvailability)
	v, ok := out.Value()
	if !ok {
		b.unavailable(out.Err())
		return
	}

	groups := []struct {
		label string
		items []string
	}{
		{"EASY TO SOURCE LOCALLY:", v.EasyToGet},
		{"LIMITED AVAILABILITY:", v.Limited},
		{"IMPORT ONLY:", v.ImportOnly},
	}
	for _, g := range groups {
		if len(g.items) == 0 {
			continue
		}
		b.add(KindLabel, g.label)
		for _, item := range g.items {
			b.add(KindItem, item)
		}
		b.add(KindSpacer, "")
	}
}

func (b *builder) carbon(out models.Outcome[models.CarbonAnalysis]) {
	b.add(KindSection, SectionCarbon)
	v, ok := out.Value()
	if !ok {
		b.unavailable(out.Err())
		return
	}
	v.Each(func(material string, a models.CarbonAssessment) {
		b.add(KindMaterial, material)
		b.add(KindField, "Footprint: "+orNA(a.CarbonFootprint))
		b.add(KindField, ratingLine(a.Rating))
		b.add(KindField, "Notes: "+orNA(a.Notes))
		b.add(KindSpacer, "")
	})
}

func (b *builder) cost(out models.Outcome[models.CostAnalysis]) {
	b.add(KindSection, SectionCost)
	v, ok := out.Value()
	if !ok {
		b.unavailable(out.Err())
		return
	}
	v.Each(func(material string, a models.CostAssessment) {
		b.add(KindMaterial, material)
		b.add(KindField, "Relative Cost: "+tier(a.RelativeCost))
		if !a.EstimatedPricePerUnit.IsZero() {
			b.add(KindField, "Est. Price/Unit: "+price(a.EstimatedPricePerUnit))
		}
		b.add(KindField, "Notes: "+orNA(a.Notes))
		b.add(KindSpacer, "")
	})
}

func (b *builder) durability(out models.Outcome[models.DurabilityAnalysis]) {
	b.add(KindSection, SectionDurability)
	v, ok := out.Value()
	if !ok {
		b.unavailable(out.Err())
		return
	}
	v.Each(func(material string, a models.DurabilityAssessment) {
		b.add(KindMaterial, material)
		lifespan := notAvailable
		if s := a.LifespanYears.String(); s != "" {
			lifespan = s + " years"
		}
		b.add(KindField, "Lifespan: "+lifespan)
		b.add(KindField, "Maintenance: "+tier(a.Maintenance))
		b.add(KindField, "Notes: "+orNA(a.Notes))
		b.add(KindSpacer, "")
	})
}

func orNA(s models.Scalar) string {
	if v := s.String(); v != "" {
		return v
	}
	return notAvailable
}

func tier(t models.Tier) string {
	if v := t.Upper(); v != "" {
		return v
	}
	return unknownTier
}

func ratingLine(r models.Rating) string {
	v := r.String()
	if v == "" {
		return "Rating: " + notAvailable
	}
	return "Rating: " + v + "/10 " + strings.Repeat("*", r.Stars())
}

func price(s models.Scalar) string {
	v := s.String()
	if strings.HasPrefix(v, "$") {
		return v
	}
	return "$" + v
}
