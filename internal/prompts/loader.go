// Package prompts holds the LLM prompt templates used by the pipelines.
// Templates live in JSON files embedded at compile time; each file maps
// "<stage>.system" and "<stage>.user" keys to template text.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// Prompt files.
const (
	EvaluateFile  = "evaluate.json"
	AnalysisFile  = "analysis.json"
	RecommendFile = "recommend.json"
)

// placeholder matches a {{.Key}} template field and captures Key.
var placeholder = regexp.MustCompile(`{{\.([A-Za-z0-9_]+)}}`)

// Message is a rendered system and user prompt pair.
type Message struct {
	System string
	User   string
}

// library is every embedded file, parsed once.
var library = sync.OnceValues(func() (map[string]map[string]string, error) {
	names, err := fs.Glob(promptFiles, "*.json")
	if err != nil {
		return nil, err
	}
	files := make(map[string]map[string]string, len(names))
	for _, name := range names {
		raw, err := promptFiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", name, err)
		}
		var entries map[string]string
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", name, err)
		}
		files[name] = entries
	}
	return files, nil
})

func entries(filename string) (map[string]string, error) {
	files, err := library()
	if err != nil {
		return nil, err
	}
	file, ok := files[filename]
	if !ok {
		return nil, fmt.Errorf("unknown prompt file %s", filename)
	}
	return file, nil
}

// Get returns the raw template stored under key in filename.
func Get(filename, key string) (string, error) {
	file, err := entries(filename)
	if err != nil {
		return "", err
	}
	text, ok := file[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return text, nil
}

// Keys lists the template keys of filename in sorted order.
func Keys(filename string) ([]string, error) {
	file, err := entries(filename)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(file))
	for key := range file {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys, nil
}

// Render fills the "<key>.system" and "<key>.user" templates of filename
// with data. Every placeholder must have a value. Values are inserted
// verbatim and never expanded, so chained stage output containing braces
// passes through untouched.
func Render(filename, key string, data map[string]string) (Message, error) {
	var msg Message
	for _, part := range []struct {
		suffix string
		dst    *string
	}{{".system", &msg.System}, {".user", &msg.User}} {
		text, err := Get(filename, key+part.suffix)
		if err != nil {
			return Message{}, err
		}
		filled, err := fill(text, data)
		if err != nil {
			return Message{}, fmt.Errorf("prompt %s/%s: %w", filename, key, err)
		}
		*part.dst = filled
	}
	return msg, nil
}

// fill substitutes placeholders in a single pass over the template.
func fill(text string, data map[string]string) (string, error) {
	var missing []string
	out := placeholder.ReplaceAllStringFunc(text, func(field string) string {
		name := placeholder.FindStringSubmatch(field)[1]
		value, ok := data[name]
		if !ok {
			missing = append(missing, field)
			return field
		}
		return value
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("no value for %s", strings.Join(missing, ", "))
	}
	return out, nil
}
