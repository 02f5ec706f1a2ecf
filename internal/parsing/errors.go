package parsing

import (
	"fmt"
	"strings"
)

// snippetLen bounds how much of a bad reply is kept for diagnostics.
const snippetLen = 200

// MalformedResponseError is returned when no JSON object can be recovered from a reply.
type MalformedResponseError struct {
	Message string
	Snippet string
	Cause   error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed model response: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed model response: %s", e.Message)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// FieldViolation is a type or range problem at a field path.
type FieldViolation struct {
	Field   string
	Message string
}

// SchemaViolationError is returned when a recovered document is structurally
// incomplete or invalid. MissingFields holds the first missing field found in
// declared order; Invalid holds type and range problems sorted by field.
type SchemaViolationError struct {
	Schema        string
	MissingFields []string
	Invalid       []FieldViolation
}

func (e *SchemaViolationError) Error() string {
	if len(e.MissingFields) > 0 {
		return fmt.Sprintf("schema violation in %s: missing required field %s",
			e.Schema, strings.Join(e.MissingFields, ", "))
	}
	if len(e.Invalid) == 0 {
		return fmt.Sprintf("schema violation in %s", e.Schema)
	}
	first := e.Invalid[0]
	msg := fmt.Sprintf("schema violation in %s: %s: %s", e.Schema, first.Field, first.Message)
	if n := len(e.Invalid) - 1; n > 0 {
		msg += fmt.Sprintf(" (and %d more)", n)
	}
	return msg
}

// Field returns the first offending field path.
func (e *SchemaViolationError) Field() string {
	if len(e.MissingFields) > 0 {
		return e.MissingFields[0]
	}
	if len(e.Invalid) > 0 {
		return e.Invalid[0].Field
	}
	return ""
}

func snippet(s string) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= snippetLen {
		return string(r)
	}
	return string(r[:snippetLen]) + "..."
}
