package extract

import (
	"encoding/json"
	"strings"
)

// fieldStrategy is one named way of pulling narrative text out of a decoded
// JSON payload. Strategies are applied in priority order until one succeeds;
// this replaces ad-hoc nested property probing and keeps each shape
// independently testable.
type fieldStrategy struct {
	name string
	get  func(payload map[string]any) (string, bool)
}

// narrativeStrategies is the ordered strategy list for JSON-ish responses.
var narrativeStrategies = []fieldStrategy{
	{name: "response", get: stringField("response")},
	{name: "text", get: stringField("text")},
	{name: "narrative", get: stringField("narrative")},
	{name: "content", get: stringField("content")},
	{name: "story", get: stringField("story")},
	{name: "message.content", get: func(payload map[string]any) (string, bool) {
		msg, ok := payload["message"].(map[string]any)
		if !ok {
			return "", false
		}
		return stringField("content")(msg)
	}},
	{name: "choices[0].message.content", get: func(payload map[string]any) (string, bool) {
		choices, ok := payload["choices"].([]any)
		if !ok || len(choices) == 0 {
			return "", false
		}
		first, ok := choices[0].(map[string]any)
		if !ok {
			return "", false
		}
		msg, ok := first["message"].(map[string]any)
		if !ok {
			return "", false
		}
		return stringField("content")(msg)
	}},
}

func stringField(key string) func(map[string]any) (string, bool) {
	return func(payload map[string]any) (string, bool) {
		s, ok := payload[key].(string)
		if !ok || strings.TrimSpace(s) == "" {
			return "", false
		}
		return s, true
	}
}

// NormalizeRaw unwraps JSON-shaped responses into plain narrative text.
// Non-JSON input passes through unchanged, as does JSON that no strategy
// recognizes.
func NormalizeRaw(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return raw
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return raw
	}

	for _, strategy := range narrativeStrategies {
		if text, ok := strategy.get(payload); ok {
			return text
		}
	}

	return raw
}
