package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"material-selector/internal/models"
	"material-selector/internal/report"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2E86AB"))
	ruleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E86AB"))
	progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	successStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F18F01"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#A23B72"))
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
)

func printBanner(w io.Writer) {
	rule := ruleStyle.Render(strings.Repeat("=", 80))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, titleStyle.Render(report.Title))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Generating comprehensive evaluation report...")
	fmt.Fprintln(w)
}

// promptLocation asks for whichever of city and country was not given on the
// command line. Answers are trimmed but not otherwise validated.
func promptLocation(in *bufio.Reader, out io.Writer, city, country string) (models.Location, error) {
	var err error
	if city == "" {
		if city, err = ask(in, out, "Enter City: "); err != nil {
			return models.Location{}, err
		}
	}
	if country == "" {
		if country, err = ask(in, out, "Enter Country: "); err != nil {
			return models.Location{}, err
		}
	}
	return models.Location{City: strings.TrimSpace(city), Country: strings.TrimSpace(country)}, nil
}

func ask(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading %q: %w", strings.TrimSuffix(label, ": "), err)
	}
	return strings.TrimSpace(line), nil
}
