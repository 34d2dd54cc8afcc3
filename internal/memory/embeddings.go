package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNoVectors is returned when the embedding service answers without any
// vector for the input. Callers must propagate it instead of storing or
// querying with a zero vector.
var ErrNoVectors = errors.New("embedding service returned no vectors")

// Embedder maps text to a fixed-length numeric vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingsClient talks to the external embeddings HTTP service.
type EmbeddingsClient struct {
	baseURL string
	client  *http.Client
}

type embedRequest struct {
	Texts []string `json:"texts"`
}

type embedResponse struct {
	Vectors [][]float32 `json:"vectors"`
}

// NewEmbeddingsClient creates a client for the embeddings service at baseURL.
func NewEmbeddingsClient(baseURL string) *EmbeddingsClient {
	return &EmbeddingsClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Embed returns the embedding for a single text.
func (c *EmbeddingsClient) Embed(ctx context.Context, text string) ([]float32, error) {
	payload, err := json.Marshal(embedRequest{Texts: []string{text}})
	if err != nil {
		return nil, fmt.Errorf("marshaling embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling embeddings service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embeddings service returned status %d", resp.StatusCode)
	}

	var body embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding embed response: %w", err)
	}

	if len(body.Vectors) == 0 || len(body.Vectors[0]) == 0 {
		return nil, ErrNoVectors
	}
	return body.Vectors[0], nil
}
