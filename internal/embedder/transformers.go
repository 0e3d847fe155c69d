package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Transformers implements Embedder against a text2vec-transformers style endpoint
type Transformers struct {
	url  string
	http *http.Client
}

type vectorRequest struct {
	Text string `json:"text"`
}

type vectorResponse struct {
	Vector []float32 `json:"vector"`
}

// NewTransformers creates an embedder posting to url
func NewTransformers(url string, timeout time.Duration) *Transformers {
	return &Transformers{
		url: url,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

func (t *Transformers) Embed(ctx context.Context, text string) ([]float32, error) {
	jsonBody, err := json.Marshal(vectorRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call embedding service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("embedding service returned status %d: %s", resp.StatusCode, string(body))
	}

	var vecResp vectorResponse
	if err := json.NewDecoder(resp.Body).Decode(&vecResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(vecResp.Vector) == 0 {
		return nil, fmt.Errorf("embedding service returned no vector")
	}

	return vecResp.Vector, nil
}
