package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/poiesic/sift/ai"
)

// stripFences removes markdown code fences that chat models often wrap
// JSON output in, despite instructions not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// decodeResponse unmarshals a chat response into v, repairing common
// JSON defects (unquoted keys, trailing commas, truncation) first if a
// straight parse fails. Any remaining failure is ai.ErrMalformedResponse.
func decodeResponse(raw string, v any) error {
	raw = stripFences(raw)

	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ai.ErrMalformedResponse, err)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("%w: %v", ai.ErrMalformedResponse, err)
	}
	return nil
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
