package parsing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/sustainability-evaluator/internal/schemas"
)

// Kind is the expected JSON kind of a field.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindArray
	KindObject
)

// FieldSpec describes one field of a document. Presence checks run in the
// order fields are declared so the first missing field is always the same.
type FieldSpec struct {
	Name     string
	Kind     Kind
	Required bool
	// NonEmpty rejects blank strings and empty arrays.
	NonEmpty bool
	// MaxItems cuts longer arrays to their first MaxItems entries before any check.
	MaxItems int
	// Items are checked on every object element of an array.
	Items []FieldSpec
	// Keys are required keys of an object field.
	Keys []string
}

// SchemaSpec is the structural contract of a model-produced document.
type SchemaSpec struct {
	// Name is the embedded JSON Schema used for type and range validation.
	// Empty skips that step.
	Name   string
	Fields []FieldSpec
}

// Validate truncates oversized arrays, checks field presence in declared
// order and then validates the document against the JSON Schema.
func (s SchemaSpec) Validate(doc map[string]any) error {
	truncate(doc, s.Fields)

	if missing := firstMissing(doc, s.Fields, ""); missing != "" {
		return &SchemaViolationError{Schema: s.label(), MissingFields: []string{missing}}
	}

	if s.Name == "" {
		return nil
	}
	err := schemas.ValidateDocument(s.Name, doc)
	if err == nil {
		return nil
	}
	var ve *schemas.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	violation := &SchemaViolationError{Schema: s.label()}
	for _, fe := range ve.Errors {
		violation.Invalid = append(violation.Invalid, FieldViolation{Field: fe.Field, Message: fe.Message})
	}
	return violation
}

func (s SchemaSpec) label() string {
	if s.Name == "" {
		return "document"
	}
	return s.Name
}

func truncate(doc map[string]any, fields []FieldSpec) {
	for _, f := range fields {
		v, ok := doc[f.Name]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case []any:
			if f.MaxItems > 0 && len(val) > f.MaxItems {
				val = val[:f.MaxItems]
				doc[f.Name] = val
			}
			for _, item := range val {
				if obj, ok := item.(map[string]any); ok {
					truncate(obj, f.Items)
				}
			}
		case map[string]any:
			truncate(val, f.Items)
		}
	}
}

// firstMissing returns the path of the first required field that is absent,
// null or (for NonEmpty) blank. Type mismatches are left to the JSON Schema.
func firstMissing(doc map[string]any, fields []FieldSpec, prefix string) string {
	for _, f := range fields {
		path := f.Name
		if prefix != "" {
			path = prefix + "." + f.Name
		}

		v, ok := doc[f.Name]
		if !ok || v == nil {
			if f.Required {
				return path
			}
			continue
		}

		switch val := v.(type) {
		case string:
			if f.NonEmpty && strings.TrimSpace(val) == "" {
				return path
			}
		case []any:
			if f.NonEmpty && len(val) == 0 {
				return path
			}
			for i, item := range val {
				obj, ok := item.(map[string]any)
				if !ok {
					continue
				}
				if missing := firstMissing(obj, f.Items, fmt.Sprintf("%s[%d]", path, i)); missing != "" {
					return missing
				}
			}
		case map[string]any:
			for _, key := range f.Keys {
				if kv, ok := val[key]; !ok || kv == nil {
					return path + "." + key
				}
			}
			if missing := firstMissing(val, f.Items, path); missing != "" {
				return missing
			}
		}
	}
	return ""
}
