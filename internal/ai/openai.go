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

// ChatClient talks to an OpenAI-compatible chat completions endpoint. One
// client serves several logical models (caption, OCR, reasoning) that differ
// only in model name and prompt.
type ChatClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewChatClient(baseURL, apiKey string, timeout time.Duration) *ChatClient {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &ChatClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string            `json:"role"`
	Content []chatContentPart `json:"content"`
}

type chatContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *ChatClient) complete(ctx context.Context, model string, parts []chatContentPart) (string, error) {
	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "user", Content: parts},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ModelUnavailableError{Model: model, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ModelUnavailableError{Model: model, Err: err}
	}

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return "", &ModelUnavailableError{Model: model, Err: fmt.Errorf("status %d: %s", resp.StatusCode, body)}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if chatResp.Error != nil {
		return "", &ModelUnavailableError{Model: model, Err: fmt.Errorf("api error: %s", chatResp.Error.Message)}
	}
	if len(chatResp.Choices) == 0 {
		return "", &ModelUnavailableError{Model: model, Err: fmt.Errorf("empty choices")}
	}

	return chatResp.Choices[0].Message.Content, nil
}

// VisionClient binds a ChatClient to one model name and satisfies VisionModel.
type VisionClient struct {
	client *ChatClient
	model  string
}

func NewVisionClient(client *ChatClient, model string) *VisionClient {
	return &VisionClient{client: client, model: model}
}

func (v *VisionClient) Name() string { return v.model }

func (v *VisionClient) Describe(ctx context.Context, imageURL, prompt string) (string, error) {
	return v.client.complete(ctx, v.model, []chatContentPart{
		{Type: "text", Text: prompt},
		{Type: "image_url", ImageURL: &chatImageURL{URL: imageURL}},
	})
}

// TextClient binds a ChatClient to one model name and satisfies TextModel.
type TextClient struct {
	client *ChatClient
	model  string
}

func NewTextClient(client *ChatClient, model string) *TextClient {
	return &TextClient{client: client, model: model}
}

func (t *TextClient) Name() string { return t.model }

func (t *TextClient) Complete(ctx context.Context, prompt string) (string, error) {
	return t.client.complete(ctx, t.model, []chatContentPart{
		{Type: "text", Text: prompt},
	})
}
