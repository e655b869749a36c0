package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDescription(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		raw       string
		wantLabel string
		wantTags  []string
	}{
		{
			name:      "plain json",
			raw:       `{"label":"sneaker","confidence":0.9,"description":"White leather sneaker.","tags":["shoe","white"]}`,
			wantLabel: "sneaker",
			wantTags:  []string{"shoe", "white"},
		},
		{
			name:      "fenced with comments and trailing comma",
			raw:       "```json\n{\n  // product\n  \"label\": \"mug\",\n  /* score */ \"confidence\": 0.7,\n  \"tags\": [\"kitchen\",],\n}\n```",
			wantLabel: "mug",
			wantTags:  []string{"kitchen"},
		},
		{
			name:      "prose around json",
			raw:       `Sure! Here you go: {"label":"lamp","tags":["light"]} Hope that helps.`,
			wantLabel: "lamp",
			wantTags:  []string{"light"},
		},
		{
			name:      "no json",
			raw:       "I see a blue bottle.",
			wantLabel: "unclear image",
			wantTags:  []string{"non-json", "fallback"},
		},
		{
			name:      "broken json",
			raw:       `{"label": "chair", "tags": [}`,
			wantLabel: "parse error",
			wantTags:  []string{"parse-error", "fallback"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParseDescription(tt.raw)
			assert.Equal(t, tt.wantLabel, got.Label)
			assert.Equal(t, tt.wantTags, got.Tags)
		})
	}
}

func TestSanitizeModelJSONKeepsURLs(t *testing.T) {
	t.Parallel()

	raw := `{"description": "see https://example.com/item"}`
	assert.Equal(t, raw, SanitizeModelJSON(raw))
}
