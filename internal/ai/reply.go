package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// cleanJSON strips markdown code fences and any prose around the outermost
// JSON object.
func cleanJSON(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}
	return text
}

func decodeReply(raw string, dst any) error {
	if err := json.Unmarshal([]byte(cleanJSON(raw)), dst); err != nil {
		return fmt.Errorf("decode model reply: %w", err)
	}
	return nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
