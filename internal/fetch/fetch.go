// Package fetch retrieves product pages and reduces them to model-ready text.
// Retrieval is pluggable: a plain HTTP GET, a headless browser render, or
// delegation to an LLM provider that browses URLs itself.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; EcoAgent/1.0)"

// maxBodyBytes bounds how much markup is read from a single page.
const maxBodyBytes = 10 << 20

// RawContent is the unprocessed markup of a fetched page.
type RawContent struct {
	URL         *url.URL
	HTML        string
	ContentType string
	StatusCode  int
	FetchedAt   time.Time
}

// Fetcher retrieves the raw markup for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*RawContent, error)
}

// InvalidURLError is returned when the input is not a well-formed absolute URL.
type InvalidURLError struct {
	URL    string
	Reason string
	Cause  error
}

func (e *InvalidURLError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid URL %q: %s: %v", e.URL, e.Reason, e.Cause)
	}
	return fmt.Sprintf("invalid URL %q: %s", e.URL, e.Reason)
}

func (e *InvalidURLError) Unwrap() error {
	return e.Cause
}

// FetchError represents a network failure or a non-2xx response.
type FetchError struct {
	URL        string
	StatusCode int    // zero for network failures
	Status     string // HTTP status text, e.g. "404 Not Found"
	Message    string
	Cause      error
}

func (e *FetchError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("HTTP status %d (%s)", e.StatusCode, e.Status)
	}
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, msg, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, msg)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Timeout reports whether the failure was caused by a deadline.
func (e *FetchError) Timeout() bool {
	if errors.Is(e.Cause, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Cause, &netErr) && netErr.Timeout()
}

// ValidateURL parses raw and requires an absolute URL with a scheme and host.
// Schemes other than http(s) pass validation and fail at fetch time.
func ValidateURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &InvalidURLError{URL: raw, Reason: "empty"}
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, &InvalidURLError{URL: raw, Reason: "malformed", Cause: err}
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return nil, &InvalidURLError{URL: raw, Reason: "must be absolute with scheme and host"}
	}
	return parsed, nil
}

// Options configures the HTTP fetcher.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// HTTPFetcher retrieves pages with a plain GET request.
type HTTPFetcher struct {
	client  *http.Client
	options *Options
	now     func() time.Time
}

// NewHTTPFetcher creates a fetcher. A nil opts uses DefaultOptions.
func NewHTTPFetcher(opts *Options) *HTTPFetcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &HTTPFetcher{
		client:  &http.Client{Timeout: opts.Timeout},
		options: opts,
		now:     time.Now,
	}
}

// Fetch retrieves the markup at rawURL.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*RawContent, error) {
	parsed, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.options.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	for key, value := range f.options.Headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Message: "failed to read response body", Cause: err}
	}

	return &RawContent{
		URL:         parsed,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		FetchedAt:   f.now(),
	}, nil
}
