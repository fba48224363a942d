package narrative

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errNoObject = errors.New("no JSON object in response")

// extractObject decodes the first balanced {...} span of text. Braces inside
// JSON strings, including escaped quotes, do not count toward the balance.
func extractObject(text string) (map[string]any, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		ch := text[i]

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
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				var obj map[string]any
				if err := json.Unmarshal([]byte(text[start:i+1]), &obj); err != nil {
					return nil, fmt.Errorf("decode object: %w", err)
				}
				return obj, nil
			}
		}
	}

	return nil, errNoObject
}
