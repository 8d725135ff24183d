package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestVisionClient_Describe(t *testing.T) {
	var captured struct {
		Model    string `json:"model"`
		Messages []struct {
			Content []struct {
				Type     string `json:"type"`
				Text     string `json:"text"`
				ImageURL *struct {
					URL string `json:"url"`
				} `json:"image_url"`
			} `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"a blue shirt"}}]}`))
	}))
	defer srv.Close()

	client := NewChatClient(srv.URL, "test-key", 0)
	vision := NewVisionClient(client, "gpt-4o")

	text, err := vision.Describe(context.Background(), "http://img/1.jpg", "describe this")
	require.NoError(t, err)
	assert.Equal(t, "a blue shirt", text)

	assert.Equal(t, "gpt-4o", captured.Model)
	require.Len(t, captured.Messages, 1)
	require.Len(t, captured.Messages[0].Content, 2)
	assert.Equal(t, "describe this", captured.Messages[0].Content[0].Text)
	require.NotNil(t, captured.Messages[0].Content[1].ImageURL)
	assert.Equal(t, "http://img/1.jpg", captured.Messages[0].Content[1].ImageURL.URL)
}

func TestTextClient_Complete(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{"choices":[{"message":{"content":"{\"item_name\":\"x\"}"}}]}`)
	defer srv.Close()

	client := NewChatClient(srv.URL, "test-key", 0)
	reasoner := NewTextClient(client, "gpt-4o")

	out, err := reasoner.Complete(context.Background(), "analyze")
	require.NoError(t, err)
	assert.Contains(t, out, "item_name")
}

func TestChatClient_ServerErrorIsUnavailable(t *testing.T) {
	srv := chatServer(t, http.StatusInternalServerError, `upstream exploded`)
	defer srv.Close()

	client := NewChatClient(srv.URL, "test-key", 0)
	vision := NewVisionClient(client, "gpt-4o")

	_, err := vision.Describe(context.Background(), "http://img", "p")
	assert.True(t, IsModelUnavailable(err))
}

func TestChatClient_RateLimitIsUnavailable(t *testing.T) {
	srv := chatServer(t, http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`)
	defer srv.Close()

	client := NewChatClient(srv.URL, "test-key", 0)
	reasoner := NewTextClient(client, "gpt-4o")

	_, err := reasoner.Complete(context.Background(), "p")
	assert.True(t, IsModelUnavailable(err))
}

func TestChatClient_APIErrorIsUnavailable(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{"error":{"message":"model is overloaded","type":"server_error"}}`)
	defer srv.Close()

	client := NewChatClient(srv.URL, "test-key", 0)
	vision := NewVisionClient(client, "gpt-4o-mini")

	_, err := vision.Describe(context.Background(), "http://img", "p")
	require.Error(t, err)
	assert.True(t, IsModelUnavailable(err))
	assert.Contains(t, err.Error(), "overloaded")
}

func TestChatClient_EmptyChoicesIsUnavailable(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{"choices":[]}`)
	defer srv.Close()

	client := NewChatClient(srv.URL, "test-key", 0)
	reasoner := NewTextClient(client, "gpt-4o")

	_, err := reasoner.Complete(context.Background(), "p")
	assert.True(t, IsModelUnavailable(err))
}

func TestChatClient_TransportErrorIsUnavailable(t *testing.T) {
	client := NewChatClient("http://127.0.0.1:1", "test-key", 0)
	vision := NewVisionClient(client, "gpt-4o")

	_, err := vision.Describe(context.Background(), "http://img", "p")
	assert.True(t, IsModelUnavailable(err))
}
