package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when a pipeline is started without input.
	ErrEmptyInput = errors.New("input must be a non-empty string")
	// ErrCompanyUndetermined is returned when the merchant cannot be identified.
	ErrCompanyUndetermined = errors.New("company name could not be determined")
	// ErrSummaryUndetermined is returned when no sustainability record is found.
	ErrSummaryUndetermined = errors.New("sustainability summary could not be determined")
	// ErrEvaluationUndetermined is returned when the record cannot be classified.
	ErrEvaluationUndetermined = errors.New("evaluation could not be determined")
	// ErrNoProductData is returned when a page holds nothing to analyze.
	ErrNoProductData = errors.New("no product information found on the page")
)

// StageError wraps the failure of a named pipeline stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
