package llms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/meguminnnnnnnnn/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *openai.Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	return openai.NewClientWithConfig(config)
}

func TestGenerateSendsModelAndTemperature(t *testing.T) {
	var captured map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{"role": "assistant", "content": "Jane has 5 years of React experience."}},
			},
		})
	})

	llm := NewOpenAI(client, "gpt-4o-mini", 0.2)
	answer, err := llm.Generate(context.Background(), "How many years of React experience does Jane have?")
	require.NoError(t, err)
	assert.Equal(t, "Jane has 5 years of React experience.", answer)

	assert.Equal(t, "gpt-4o-mini", captured["model"])
	assert.InDelta(t, 0.2, captured["temperature"], 1e-6)

	messages, ok := captured["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 1)
}

func TestGenerateNoChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	llm := NewOpenAI(client, "gpt-4o-mini", 0)
	_, err := llm.Generate(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
