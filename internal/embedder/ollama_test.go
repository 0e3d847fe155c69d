package embedder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllama_Embed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)

		json.NewEncoder(w).Encode(embeddingResponse{
			Embedding: make([]float32, 768),
		})
	}))
	defer server.Close()

	client := NewOllama(server.URL, "nomic-embed-text", time.Second)
	emb, err := client.Embed(context.Background(), "test content")
	require.NoError(t, err)
	assert.Len(t, emb, 768)
}

func TestOllama_QueryPrefix(t *testing.T) {
	var receivedPrompt string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		json.NewDecoder(r.Body).Decode(&req)
		receivedPrompt = req.Prompt

		json.NewEncoder(w).Encode(embeddingResponse{Embedding: []float32{0.1}})
	}))
	defer server.Close()

	_, err := NewOllama(server.URL, "nomic-embed-text", time.Second).Embed(context.Background(), "hosting")
	require.NoError(t, err)
	assert.Equal(t, "search_query: hosting", receivedPrompt)

	// Non-nomic model should not add prefix
	_, err = NewOllama(server.URL, "other-model", time.Second).Embed(context.Background(), "hosting")
	require.NoError(t, err)
	assert.Equal(t, "hosting", receivedPrompt)
}

func TestOllama_OllamaDown(t *testing.T) {
	client := NewOllama("http://localhost:99999", "nomic-embed-text", time.Second)
	_, err := client.Embed(context.Background(), "test content")
	assert.Error(t, err)
}

func TestOllama_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal error"))
	}))
	defer server.Close()

	_, err := NewOllama(server.URL, "nomic-embed-text", time.Second).Embed(context.Background(), "test content")
	assert.ErrorContains(t, err, "500")
}
