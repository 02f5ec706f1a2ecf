// Package schemas validates model-produced documents against the JSON
// Schemas embedded in the binary.
package schemas

import (
	"cmp"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFS embed.FS

const suffix = ".schema.json"

// Embedded schema names.
const (
	ProductInfo          = "product_info"
	Assessment           = "assessment"
	StoreRecommendations = "store_recommendations"
)

// ErrUnknownSchema is returned for a name with no embedded schema.
var ErrUnknownSchema = errors.New("unknown schema")

// FieldError is one violation at a dotted field path; "(root)" for the
// document itself.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation of one document, ordered by field
// path and then message.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return fmt.Sprintf("%s: %d violation(s): %s", e.Schema, len(e.Errors), strings.Join(parts, "; "))
}

// registry compiles every embedded schema on first use. A schema that
// fails to compile fails the whole registry.
var registry = sync.OnceValues(func() (map[string]*gojsonschema.Schema, error) {
	files, err := fs.Glob(schemaFS, "*"+suffix)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*gojsonschema.Schema, len(files))
	for _, file := range files {
		raw, err := schemaFS.ReadFile(file)
		if err != nil {
			return nil, err
		}
		compiled, err := Compile(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		out[strings.TrimSuffix(file, suffix)] = compiled
	}
	return out, nil
})

// Compile parses a JSON Schema document.
func Compile(raw []byte) (*gojsonschema.Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return s, nil
}

// Names returns the embedded schema names in sorted order.
func Names() []string {
	files, _ := fs.Glob(schemaFS, "*"+suffix)
	names := make([]string, len(files))
	for i, file := range files {
		names[i] = strings.TrimSuffix(file, suffix)
	}
	slices.Sort(names)
	return names
}

// Load returns the compiled embedded schema with the given name.
func Load(name string) (*gojsonschema.Schema, error) {
	all, err := registry()
	if err != nil {
		return nil, err
	}
	s, ok := all[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownSchema, name)
	}
	return s, nil
}

// ValidateDocument checks a decoded JSON document (maps, slices, scalars)
// against the named embedded schema. It returns a *ValidationError when
// the document does not conform.
func ValidateDocument(name string, doc any) error {
	s, err := Load(name)
	if err != nil {
		return err
	}
	return Check(name, s, doc)
}

// Check validates doc against an already compiled schema, reporting
// violations under label.
func Check(label string, s *gojsonschema.Schema, doc any) error {
	result, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to validate document against %s: %w", label, err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Schema: label}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	slices.SortStableFunc(ve.Errors, func(a, b FieldError) int {
		return cmp.Or(cmp.Compare(a.Field, b.Field), cmp.Compare(a.Message, b.Message))
	})
	return ve
}
