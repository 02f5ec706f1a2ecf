package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/sustainability-evaluator/internal/fetch"
	"github.com/jonathan/sustainability-evaluator/internal/parsing"
	"github.com/jonathan/sustainability-evaluator/internal/pipeline"
)

// Client-facing error messages.
const (
	msgInvalidBody     = "Invalid request body"
	msgInvalidURL      = "Invalid URL format"
	msgURLRequired     = "URL is required"
	msgInputRequired   = "Either url or text is required"
	msgProductRequired = "Product name is required"
	msgRecommendFields = "Company, product, and sustainability efforts are required"
)

// classify maps a pipeline error to an HTTP status and the message shown to
// the client. fallback is used for every server-side failure.
func classify(err error, fallback string) (int, string) {
	var invalidURL *fetch.InvalidURLError
	switch {
	case errors.As(err, &invalidURL):
		return http.StatusBadRequest, msgInvalidURL
	case errors.Is(err, pipeline.ErrEmptyInput):
		return http.StatusBadRequest, "Input is required"
	default:
		return http.StatusInternalServerError, fallback
	}
}

// isParseFailure reports whether err came from an unusable model reply.
func isParseFailure(err error) bool {
	var malformed *parsing.MalformedResponseError
	var violation *parsing.SchemaViolationError
	return errors.As(err, &malformed) || errors.As(err, &violation)
}
