package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Validator checks a parsed value after JSON extraction.
type Validator[T any] func(T) error

// ExtractJSON pulls the first top-level { ... } object out of raw model
// text, tolerating markdown code fences and stray prose around the
// object, and unmarshals it into T. A missing or unparseable object is a
// hard ErrInvalidOutput, never silently recovered.
func ExtractJSON[T any](raw string, validate Validator[T]) (T, error) {
	var zero T

	jsonStr := firstObject(stripFences(raw))
	if jsonStr == "" {
		return zero, fmt.Errorf("%w: no json object found in response", ErrInvalidOutput)
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if validate != nil {
		if err := validate(result); err != nil {
			return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
		}
	}
	return result, nil
}

// stripFences removes markdown code fence lines (```json ... ```).
func stripFences(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// firstObject returns the first balanced top-level brace block,
// respecting string literals and escapes.
func firstObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
