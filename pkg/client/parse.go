package client

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/ysfklc/DigitalBrochure-sub001/pkg/types"
)

var (
	reBlockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reLineComment  = regexp.MustCompile(`(?m)^\s*//.*$`)
	reTrailing     = regexp.MustCompile(`,(\s*[}\]])`)
)

// ParseDescription parses a model reply into a Description. Replies that
// carry no usable JSON yield a low-confidence fallback instead of an error.
func ParseDescription(raw string) *types.Description {
	raw = SanitizeModelJSON(raw)

	if !strings.HasPrefix(raw, "{") {
		return fallback("unclear image", "Model returned non-JSON response", "non-json")
	}

	var result types.Description
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return fallback("parse error", "Failed to parse model response", "parse-error")
	}

	return &result
}

func fallback(label, description, tag string) *types.Description {
	return &types.Description{
		Label:       label,
		Confidence:  0.1,
		Description: description,
		Tags:        []string{tag, "fallback"},
	}
}

// SanitizeModelJSON removes code fences, comments, and trailing commas from a model reply
func SanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	// Strip triple-backtick fences if present
	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "`")

	raw = reBlockComment.ReplaceAllString(raw, "")
	raw = reLineComment.ReplaceAllString(raw, "")
	raw = reTrailing.ReplaceAllString(raw, "$1")

	// Keep only the outermost {...}
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
}
