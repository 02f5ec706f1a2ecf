// Package parsing turns raw model replies into validated, typed values.
//
// Model output is close to JSON but rarely exact, so parsing runs in two
// phases: a lenient cleanup that recovers a JSON object, then strict
// validation against a SchemaSpec.
package parsing

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fenceMarker matches Markdown code fence markers with an optional language tag.
var fenceMarker = regexp.MustCompile("```[A-Za-z0-9_-]*")

// invisible reports zero-width and other invisible characters models emit.
func invisible(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff', '\u00ad':
		return true
	}
	return false
}

// Clean applies the lenient cleanup steps in order:
//  1. strip code fence markers and invisible characters
//  2. collapse CR/LF into spaces
//  3. drop trailing commas before } or ] outside string literals
func Clean(text string) string {
	return strings.TrimSpace(removeTrailingCommas(normalize(text)))
}

// normalize performs steps 1 and 2 of Clean.
func normalize(text string) string {
	text = fenceMarker.ReplaceAllString(text, "")
	text = strings.Map(func(r rune) rune {
		if invisible(r) {
			return -1
		}
		return r
	}, text)

	text = strings.ReplaceAll(text, "\r\n", " ")
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(text)
}

// Recover cleans text and decodes the JSON object it holds. When the cleaned
// text is not itself an object, the first balanced {...} substring that
// decodes is used instead. Trailing commas in a candidate are dropped with
// string state starting at its opening brace, so quotes in surrounding
// prose do not affect it.
func Recover(text string) (map[string]any, error) {
	normalized := normalize(text)
	cleaned := strings.TrimSpace(removeTrailingCommas(normalized))
	if cleaned == "" {
		return nil, &MalformedResponseError{Message: "reply is empty"}
	}

	var doc map[string]any
	err := json.Unmarshal([]byte(cleaned), &doc)
	if err == nil && doc != nil {
		return doc, nil
	}

	for start := strings.IndexByte(normalized, '{'); start >= 0; {
		end := balancedEnd(normalized, start)
		if end < 0 {
			break
		}
		var candidate map[string]any
		if json.Unmarshal([]byte(removeTrailingCommas(normalized[start:end+1])), &candidate) == nil {
			return candidate, nil
		}
		next := strings.IndexByte(normalized[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}

	return nil, &MalformedResponseError{
		Message: "no JSON object found",
		Snippet: snippet(text),
		Cause:   err,
	}
}

// removeTrailingCommas drops commas that are followed only by whitespace and
// a closing bracket. Commas inside string literals are kept.
func removeTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case ',':
			j := i + 1
			for j < len(s) && isSpace(s[j]) {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// balancedEnd returns the index of the brace closing the object opened at
// start, or -1 if it is never closed.
func balancedEnd(s string, start int) int {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
