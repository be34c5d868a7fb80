package scanning

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// parseSlipJSON parses the model's reply into SlipData. Models sometimes
// wrap the object in markdown fences or prose, so the parser hunts for
// the outermost braces before unmarshaling. Fields that are absent, null,
// or implausible resolve to nil.
func parseSlipJSON(text string) (*SlipData, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}
	text = text[startIdx : endIdx+1]

	var data SlipData
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	// A non-positive amount is noise, not a reading.
	if data.Amount != nil && *data.Amount <= 0 {
		data.Amount = nil
	}

	// Keep only dates we can normalize to YYYY-MM-DD.
	if data.Date != nil {
		if normalized, ok := normalizeDate(*data.Date); ok {
			data.Date = &normalized
		} else {
			data.Date = nil
		}
	}

	return &data, nil
}

// normalizeDate accepts the ISO form plus a few formats models fall back
// to, and returns the YYYY-MM-DD rendering.
func normalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	formats := []string{
		"2006-01-02",
		"2006/01/02",
		"02/01/2006",
		"02-01-2006",
	}
	for _, layout := range formats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}
