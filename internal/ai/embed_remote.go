package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RemoteEmbedder calls an HTTP embedding service (a CLIP-style image encoder
// behind a JSON API) and returns a fixed-dimension vector for an image URL.
type RemoteEmbedder struct {
	endpoint   string
	apiKey     string
	model      string
	dim        int
	httpClient *http.Client
}

func NewRemoteEmbedder(endpoint, apiKey, model string, dim int, timeout time.Duration) *RemoteEmbedder {
	return &RemoteEmbedder{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		dim:      dim,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (e *RemoteEmbedder) Dimensions() int { return e.dim }

type embedRequest struct {
	Model    string `json:"model,omitempty"`
	ImageURL string `json:"image_url"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}

func (e *RemoteEmbedder) Embed(ctx context.Context, imageURL string) ([]float32, error) {
	jsonData, err := json.Marshal(embedRequest{Model: e.model, ImageURL: imageURL})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create embed request: %w", err)
	}
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, &ModelUnavailableError{Model: e.model, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ModelUnavailableError{Model: e.model, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ModelUnavailableError{Model: e.model, Err: fmt.Errorf("status %d: %s", resp.StatusCode, body)}
	}

	var embedResp embedResponse
	if err := json.Unmarshal(body, &embedResp); err != nil {
		return nil, fmt.Errorf("unmarshal embed response: %w", err)
	}
	if embedResp.Error != "" {
		return nil, &ModelUnavailableError{Model: e.model, Err: fmt.Errorf("api error: %s", embedResp.Error)}
	}
	if len(embedResp.Embedding) != e.dim {
		return nil, fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(embedResp.Embedding), e.dim)
	}

	return embedResp.Embedding, nil
}
