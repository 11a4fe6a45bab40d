package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fenceOpenRe  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	fenceCloseRe = regexp.MustCompile("\\s*```$")
)

// parseAIObject turns a model answer into a JSON object. Code fences are
// stripped and, when the answer carries prose around the JSON, the outermost
// object or array is salvaged. An array yields its first object element.
func parseAIObject(answer string) (map[string]any, error) {
	cleaned := strings.TrimSpace(answer)
	cleaned = fenceOpenRe.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(fenceCloseRe.ReplaceAllString(cleaned, ""))
	if cleaned == "" {
		return nil, fmt.Errorf("empty AI answer")
	}

	if cleaned[0] != '{' && cleaned[0] != '[' {
		cleaned = salvageJSON(cleaned)
		if cleaned == "" {
			return nil, fmt.Errorf("no JSON found in AI answer")
		}
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(cleaned)))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode AI answer: %w", err)
	}

	switch t := raw.(type) {
	case map[string]any:
		return t, nil
	case []any:
		for _, item := range t {
			if obj, ok := item.(map[string]any); ok {
				return obj, nil
			}
		}
	}
	return nil, fmt.Errorf("AI answer is not a JSON object")
}

// salvageJSON returns the span from the first '{' or '[' to the last matching
// closing bracket, or "" when there is none.
func salvageJSON(s string) string {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return ""
	}
	closing := "}"
	if s[start] == '[' {
		closing = "]"
	}
	end := strings.LastIndex(s, closing)
	if end <= start {
		return ""
	}
	return s[start : end+1]
}
