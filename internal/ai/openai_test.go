package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notegenius/notegenius/internal/config"
)

func TestOpenAIProviderChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openAIChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		require.Equal(t, "system", req.Messages[0].Role)
		require.Equal(t, "user", req.Messages[1].Role)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "  the answer  "}},
			},
		})
	}))
	defer server.Close()

	provider := &openAIProvider{name: "openai", apiKey: "test-key", baseURL: server.URL}
	reply, err := provider.Chat(context.Background(), "test-model", "be brief", "question?")
	require.NoError(t, err)
	require.Equal(t, "the answer", reply)
}

func TestOpenAIProviderChatUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer server.Close()

	provider := &openAIProvider{name: "openai", apiKey: "test-key", baseURL: server.URL}
	_, err := provider.Chat(context.Background(), "test-model", "", "question?")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestOpenAIProviderChatEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	provider := &openAIProvider{name: "openai", apiKey: "test-key", baseURL: server.URL}
	_, err := provider.Chat(context.Background(), "test-model", "", "question?")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestOpenAIProviderMissingKey(t *testing.T) {
	provider := &openAIProvider{name: "openai", baseURL: "http://127.0.0.1:0"}
	_, err := provider.Chat(context.Background(), "test-model", "", "question?")
	require.True(t, errors.Is(err, ErrUnavailable))
}

func TestNewProviderFromConfigBlock(t *testing.T) {
	// The whole ai config block is handed to the factory when no data map is
	// configured; flat api_key/base_url values must reach the provider.
	cfg := config.AIConfig{
		Provider: "openai",
		Model:    "test-model",
		APIKey:   "file-key",
		BaseURL:  "https://gw.example.com/v1",
	}
	provider, err := NewProvider(cfg.Provider, cfg)
	require.NoError(t, err)

	p, ok := provider.(*openAIProvider)
	require.True(t, ok)
	require.Equal(t, "file-key", p.apiKey)
	require.Equal(t, "https://gw.example.com/v1", p.baseURL)
}

func TestNewProviderRegistry(t *testing.T) {
	provider, err := NewProvider("groq", map[string]interface{}{"api_key": "k"})
	require.NoError(t, err)
	require.Equal(t, "groq", provider.Name())

	_, err = NewProvider("unknown", nil)
	require.Error(t, err)
}
