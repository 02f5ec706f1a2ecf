// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/sustainability-evaluator/internal/pipeline"
	"github.com/jonathan/sustainability-evaluator/internal/scoring"
	"github.com/jonathan/sustainability-evaluator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads line to the box's inner width, counting runes.
func pad(line string) string {
	width := boxWidth - 4
	if utf8.RuneCountInString(line) > width {
		line = string([]rune(line)[:width-3]) + "..."
	}
	return line + strings.Repeat(" ", width-utf8.RuneCountInString(line))
}

// PrintProgress outputs a one-line stage progress event.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintProgress(event pipeline.ProgressEvent) {
	marker := "…"
	switch event.Status {
	case pipeline.StatusCompleted:
		marker = "✓"
	case pipeline.StatusFailed:
		marker = "✗"
	}
	fmt.Fprintf(p.out, "%s [%s] %s", marker, event.Category, event.Step)
	if event.Message != "" {
		fmt.Fprintf(p.out, ": %s", event.Message)
	}
	fmt.Fprintln(p.out)
}

// PrintProduct outputs a human-readable summary of the extracted product.
func (p *Printer) PrintProduct(product *types.ProductInfo) {
	if product == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Product:  %s\n", product.Name))
	if product.Description != "" {
		sb.WriteString(fmt.Sprintf("About:    %s\n", product.Description))
	}

	if len(product.KeyFeatures) > 0 {
		sb.WriteString("\nKey features:\n")
		writeList(&sb, product.KeyFeatures, maxItemsToShow)
	}

	p.printBox("EXTRACTED PRODUCT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAssessment outputs the dimension scores, the overall score and the
// leading criticism for each dimension.
func (p *Printer) PrintAssessment(a *types.Assessment) {
	if a == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall score: %.2f / %.0f\n\n", a.OverallScore, scoring.MaxScore))

	for _, d := range scoring.Dimensions {
		score, ok := a.DimensionScores[d]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("%-30s %4.1f  %s\n", d.Label(), score, bar(score)))
	}

	if len(a.Criticisms) > 0 {
		sb.WriteString("\nConcerns:\n")
		seen := make(map[scoring.Dimension]bool)
		for _, c := range a.Criticisms {
			if seen[c.Dimension] {
				continue
			}
			seen[c.Dimension] = true
			sb.WriteString(fmt.Sprintf("  • %s [%d]\n", c.Text, c.CitationNumber))
		}
	}

	if len(a.Alternatives) > 0 {
		sb.WriteString("\nAlternatives:\n")
		for _, alt := range a.Alternatives {
			sb.WriteString(fmt.Sprintf("  • %s\n", alt.ProductName))
		}
	}

	p.printBox("SUSTAINABILITY ASSESSMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStores outputs the recommended stores with their scores.
func (p *Printer) PrintStores(recs *types.StoreRecommendations) {
	if recs == nil || len(recs.StoreRecommendations) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Product: %s\n\n", recs.ProductName))
	for i, store := range recs.StoreRecommendations {
		sb.WriteString(fmt.Sprintf("#%d  %s (%.0f/10)\n", i+1, store.StoreName, store.SustainabilityScore))
		if store.ProductPrice != "" {
			sb.WriteString(fmt.Sprintf("    Price: %s\n", store.ProductPrice))
		}
		writeList(&sb, store.Reasons, 2)
	}

	if len(recs.SustainabilityTips) > 0 {
		sb.WriteString("\nTips:\n")
		writeList(&sb, recs.SustainabilityTips, 3)
	}

	p.printBox("SUSTAINABLE STORES", strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, items []string, limit int) {
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// bar renders a 1..10 score as a ten-cell gauge.
func bar(score float64) string {
	filled := int(score + 0.5)
	filled = max(0, min(filled, scoring.MaxScore))
	return strings.Repeat("█", filled) + strings.Repeat("░", scoring.MaxScore-filled)
}
