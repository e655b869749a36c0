package llamacpp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "minicpm", req.Model)
		assert.False(t, req.Stream)

		_ = json.NewEncoder(w).Encode(ChatCompletionResponse{
			Choices: []Choice{{
				Message: Message{Role: "assistant", Content: `{"label":"bottle","tags":["drink"]}`},
			}},
		})
	}))
	defer server.Close()

	c, err := NewClient(server.URL + "/")
	require.NoError(t, err)

	got, err := c.Describe(context.Background(), "minicpm", "describe", "aGk=")
	require.NoError(t, err)
	assert.Equal(t, "bottle", got.Label)
	assert.Equal(t, []string{"drink"}, got.Tags)
}

func TestSimpleQueryContentParts(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":[{"type":"text","text":"a red mug"}]}}]}`))
	}))
	defer server.Close()

	c, err := NewClient(server.URL)
	require.NoError(t, err)

	got, err := c.SimpleQuery(context.Background(), "m", "what is this", "")
	require.NoError(t, err)
	assert.Equal(t, "a red mug", got)
}

func TestErrorResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "model not loaded", wantErr: "status 500"},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantErr: "no choices"},
		{name: "empty text", status: http.StatusOK, body: `{"choices":[{"message":{"content":""}}]}`, wantErr: "no text content"},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantErr: "failed to parse response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c, err := NewClient(server.URL)
			require.NoError(t, err)

			_, err = c.Describe(context.Background(), "m", "p", "aGk=")
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
