package parsing

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/sustainability-evaluator/internal/llm"
)

// Parse recovers a JSON object from reply, validates it against spec and
// decodes it into T.
func Parse[T any](reply *llm.ModelReply, spec SchemaSpec) (*T, error) {
	if reply == nil {
		return nil, &MalformedResponseError{Message: "reply is empty"}
	}

	doc, err := Recover(reply.RawText)
	if err != nil {
		return nil, err
	}

	if err := spec.Validate(doc); err != nil {
		return nil, err
	}

	return decode[T](doc)
}

// decode converts a validated document into T through its JSON encoding.
func decode[T any](doc map[string]any) (*T, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode document: %w", err)
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &MalformedResponseError{
			Message: "document does not match the expected shape",
			Snippet: snippet(string(data)),
			Cause:   err,
		}
	}
	return &out, nil
}
