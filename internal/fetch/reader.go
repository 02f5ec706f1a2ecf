package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/sustainability-evaluator/internal/logger"
)

// MinContentLength is the minimum extracted text length before the browser
// strategy re-renders the page in headless Chrome.
const MinContentLength = 500

// Page is the model-ready view of a URL.
type Page struct {
	URL string
	// Text is the extracted page text, or the URL itself when Delegated.
	Text string
	// Delegated is set when the model provider is expected to browse URL itself.
	Delegated bool
}

// Reader turns a URL into model input.
type Reader interface {
	Read(ctx context.Context, rawURL string) (*Page, error)
}

// ExtractingReader fetches markup and extracts its text locally.
type ExtractingReader struct {
	fetcher  Fetcher
	fallback Fetcher // optional, used when extracted text is too short
	opts     ExtractOptions
	log      logger.Logger
}

// NewExtractingReader creates a reader over fetcher. fallback may be nil.
// A zero opts.Selectors picks storefront-aware selectors per URL.
func NewExtractingReader(fetcher, fallback Fetcher, opts ExtractOptions, log logger.Logger) *ExtractingReader {
	if log == nil {
		log = logger.NewNop()
	}
	return &ExtractingReader{fetcher: fetcher, fallback: fallback, opts: opts, log: log}
}

// Read fetches rawURL and extracts its product text.
func (r *ExtractingReader) Read(ctx context.Context, rawURL string) (*Page, error) {
	opts := r.opts
	if len(opts.Selectors) == 0 {
		opts.Selectors = StorefrontSelectors(DetectStorefront(rawURL))
	}

	text, err := r.readWith(ctx, r.fetcher, rawURL, opts)
	if err != nil {
		return nil, err
	}

	if r.fallback != nil && len(strings.TrimSpace(text)) < MinContentLength {
		r.log.Debug("extracted text too short, rendering in browser",
			logger.String("url", rawURL),
			logger.Int("chars", len(text)),
		)
		rendered, err := r.readWith(ctx, r.fallback, rawURL, opts)
		if err != nil {
			r.log.Warn("browser fallback failed, keeping HTTP text",
				logger.String("url", rawURL),
				logger.Error(err),
			)
		} else if len(rendered) > len(text) {
			text = rendered
		}
	}

	return &Page{URL: rawURL, Text: text}, nil
}

func (r *ExtractingReader) readWith(ctx context.Context, f Fetcher, rawURL string, opts ExtractOptions) (string, error) {
	raw, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	text, err := ExtractText(raw.HTML, opts)
	if err != nil {
		return "", fmt.Errorf("content extraction failed for %s: %w", rawURL, err)
	}
	return text, nil
}

// DelegatingReader hands the URL to the model provider, which retrieves and
// interprets the page itself.
type DelegatingReader struct{}

// Read validates rawURL and returns it unchanged as a delegated page.
func (DelegatingReader) Read(_ context.Context, rawURL string) (*Page, error) {
	parsed, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}
	return &Page{URL: parsed.String(), Text: parsed.String(), Delegated: true}, nil
}

// ReaderOptions selects and configures a retrieval strategy.
type ReaderOptions struct {
	Strategy string // "direct", "browser" or "provider"
	HTTP     *Options
	Extract  ExtractOptions
	Browser  *BrowserFetcher
	Log      logger.Logger
}

// NewReader builds the Reader for opts.Strategy.
func NewReader(opts ReaderOptions) (Reader, error) {
	switch opts.Strategy {
	case "", "direct":
		return NewExtractingReader(NewHTTPFetcher(opts.HTTP), nil, opts.Extract, opts.Log), nil
	case "browser":
		browser := opts.Browser
		if browser == nil {
			browser = NewBrowserFetcher(DefaultTimeout)
		}
		return NewExtractingReader(NewHTTPFetcher(opts.HTTP), browser, opts.Extract, opts.Log), nil
	case "provider":
		return DelegatingReader{}, nil
	default:
		return nil, fmt.Errorf("unknown fetch strategy %q", opts.Strategy)
	}
}
