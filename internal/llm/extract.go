package llm

import "strings"

// ExtractJSONObject pulls the first balanced {...} block out of raw model
// output. Models occasionally wrap structured output in markdown fences or
// surrounding prose even when a schema is enforced; the balanced scan handles
// both, and a fenced-code pass runs as a fallback for anything the scan
// missed. Returns ok=false when no complete JSON object is present.
func ExtractJSONObject(raw string) (string, bool) {
	if block, ok := scanBalancedObject(raw); ok {
		return block, true
	}

	// Fenced-code fallback: strip ```json / ``` markers and rescan.
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return scanBalancedObject(strings.TrimSpace(cleaned))
}

// scanBalancedObject finds the first complete top-level JSON object,
// tracking string literals and escapes so braces inside strings don't count.
func scanBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}
