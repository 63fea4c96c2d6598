package ai

import (
	"encoding/json"
	"strings"
)

// ExtractJSON pulls the first balanced JSON object or array out of free-form
// provider output. Markdown code fences and surrounding prose are ignored.
// Returns nil when no parseable JSON is found; callers fall back to a
// deterministic default instead of failing.
func ExtractJSON(raw string) json.RawMessage {
	cleaned := stripCodeFences(raw)
	for i := 0; i < len(cleaned); i++ {
		switch cleaned[i] {
		case '{', '[':
			candidate, ok := balancedFrom(cleaned, i)
			if !ok {
				continue
			}
			if json.Valid([]byte(candidate)) {
				return json.RawMessage(candidate)
			}
		}
	}
	return nil
}

// UnmarshalLoose extracts JSON from raw and unmarshals it into v, reporting
// whether it succeeded.
func UnmarshalLoose(raw string, v any) bool {
	payload := ExtractJSON(raw)
	if payload == nil {
		return false
	}
	return json.Unmarshal(payload, v) == nil
}

func stripCodeFences(raw string) string {
	if !strings.Contains(raw, "```") {
		return raw
	}
	var b strings.Builder
	rest := raw
	for {
		start := strings.Index(rest, "```")
		if start < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:start])
		b.WriteString(" ")
		rest = rest[start+3:]
		// Drop a language tag like "json" directly after the fence.
		if nl := strings.IndexAny(rest, "\n {[\""); nl > 0 && nl <= 8 {
			rest = rest[nl:]
		}
	}
	return b.String()
}

// balancedFrom returns the shortest balanced JSON value starting at index i,
// tracking strings and escapes so braces inside quotes do not count.
func balancedFrom(s string, i int) (string, bool) {
	open := s[i]
	var close byte
	switch open {
	case '{':
		close = '}'
	case '[':
		close = ']'
	default:
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for j := i; j < len(s); j++ {
		c := s[j]
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
				return s[i : j+1], true
			}
		}
	}
	return "", false
}
