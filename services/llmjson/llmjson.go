// Package llmjson decodes JSON out of LLM completions, which routinely
// wrap the payload in markdown fences or surrounding prose.
package llmjson

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Unmarshal finds the first JSON object or array in text and decodes it
// into v. Returns an error when no decodable JSON is present; callers
// are expected to substitute their documented fallback value.
func Unmarshal(text string, v any) error {
	candidate := strings.TrimSpace(stripFences(text))

	if err := json.Unmarshal([]byte(candidate), v); err == nil {
		return nil
	}

	extracted, ok := extract(candidate)
	if !ok {
		return fmt.Errorf("no JSON value found in response")
	}

	if err := json.Unmarshal([]byte(extracted), v); err != nil {
		return fmt.Errorf("failed to decode JSON from response: %w", err)
	}
	return nil
}

func stripFences(text string) string {
	trimmed := strings.TrimSpace(text)

	start := strings.Index(trimmed, "```")
	if start == -1 {
		return trimmed
	}

	rest := trimmed[start+3:]
	if newline := strings.IndexByte(rest, '\n'); newline != -1 {
		// Drop the language tag line (```json etc).
		if lang := strings.TrimSpace(rest[:newline]); lang == "" || isLangTag(lang) {
			rest = rest[newline+1:]
		}
	}

	if end := strings.Index(rest, "```"); end != -1 {
		rest = rest[:end]
	}
	return rest
}

func isLangTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// extract scans for the first balanced {...} or [...] region, ignoring
// braces inside string literals.
func extract(text string) (string, bool) {
	start := -1
	var open, close byte
	for i := 0; i < len(text); i++ {
		if text[i] == '{' || text[i] == '[' {
			start = i
			open = text[i]
			if open == '{' {
				close = '}'
			} else {
				close = ']'
			}
			break
		}
	}
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
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
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
