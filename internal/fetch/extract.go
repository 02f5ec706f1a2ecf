package fetch

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// DefaultMaxChars bounds extracted text to fit the model's context budget.
const DefaultMaxChars = 8000

// ExtractOptions configures ExtractText.
type ExtractOptions struct {
	Selectors []string
	MaxChars  int
}

// DefaultProductSelectors returns selectors matching common product and description markup.
func DefaultProductSelectors() []string {
	return []string{
		"main",
		`[class*="product"]`,
		`[class*="description"]`,
		`[id*="product"]`,
		`[id*="description"]`,
	}
}

// DefaultExtractOptions returns the product selectors and the default size bound.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{
		Selectors: DefaultProductSelectors(),
		MaxChars:  DefaultMaxChars,
	}
}

// ExtractText reduces html to plain text. Script and style content is removed,
// text under any of the selectors is preferred, and the whole body is used when
// nothing matches. The result is cut at MaxChars runes; the cut is not
// sentence-aware and may end mid-word.
func ExtractText(html string, opts ExtractOptions) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()

	var text string
	if selector := joinSelectors(opts.Selectors); selector != "" {
		text = cleanWhitespace(doc.Find(selector).Text())
	}
	if text == "" {
		text = cleanWhitespace(doc.Find("body").Text())
	}

	maxChars := opts.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return truncateRunes(text, maxChars), nil
}

func joinSelectors(selectors []string) string {
	parts := make([]string, 0, len(selectors))
	for _, s := range selectors {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// truncateRunes cuts s to at most n runes without splitting a UTF-8 sequence.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// cleanWhitespace trims every line and drops the blank ones.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
