package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, handler func(body map[string]interface{}) (int, string)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		status, content := handler(body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, content)
	}))
}

func TestCompleteReturnsContent(t *testing.T) {
	var gotBody map[string]interface{}
	srv := chatServer(t, func(body map[string]interface{}) (int, string) {
		gotBody = body
		return http.StatusOK, `{"choices": [{"message": {"content": "{\"ok\": true}"}}]}`
	})
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", "gpt-4o", srv.URL)
	out, err := c.Complete(context.Background(), CompletionRequest{
		SystemPrompt: "system",
		UserPrompt:   "user",
		Temperature:  0.3,
		MaxTokens:    512,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, out)

	assert.Equal(t, "gpt-4o", gotBody["model"])
	assert.Equal(t, 0.3, gotBody["temperature"])
	assert.Equal(t, float64(512), gotBody["max_tokens"])

	rf := gotBody["response_format"].(map[string]interface{})
	assert.Equal(t, "json_object", rf["type"])

	messages := gotBody["messages"].([]interface{})
	require.Len(t, messages, 2)
	user := messages[1].(map[string]interface{})
	assert.Equal(t, "user", user["content"]) // 이미지 없으면 단순 텍스트
}

func TestCompleteVisionContentShape(t *testing.T) {
	var gotBody map[string]interface{}
	srv := chatServer(t, func(body map[string]interface{}) (int, string) {
		gotBody = body
		return http.StatusOK, `{"choices": [{"message": {"content": "{}"}}]}`
	})
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", "gpt-4o", srv.URL)
	_, err := c.Complete(context.Background(), CompletionRequest{
		SystemPrompt: "system",
		UserPrompt:   "look at this",
		ImageURL:     "https://signed/photo.png",
	})
	require.NoError(t, err)

	messages := gotBody["messages"].([]interface{})
	parts := messages[1].(map[string]interface{})["content"].([]interface{})
	require.Len(t, parts, 2)

	text := parts[0].(map[string]interface{})
	assert.Equal(t, "text", text["type"])
	assert.Equal(t, "look at this", text["text"])

	img := parts[1].(map[string]interface{})
	assert.Equal(t, "image_url", img["type"])
	imgURL := img["image_url"].(map[string]interface{})
	assert.Equal(t, "https://signed/photo.png", imgURL["url"])
	assert.Equal(t, "low", imgURL["detail"])
}

func TestCompleteDefaults(t *testing.T) {
	var gotBody map[string]interface{}
	srv := chatServer(t, func(body map[string]interface{}) (int, string) {
		gotBody = body
		return http.StatusOK, `{"choices": [{"message": {"content": "{}"}}]}`
	})
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", "gpt-4o", srv.URL)
	_, err := c.Complete(context.Background(), CompletionRequest{UserPrompt: "hi"})
	require.NoError(t, err)

	assert.Equal(t, float64(4096), gotBody["max_tokens"])
	assert.Equal(t, 0.7, gotBody["temperature"])
}

func TestCompleteEmptyResponse(t *testing.T) {
	srv := chatServer(t, func(body map[string]interface{}) (int, string) {
		return http.StatusOK, `{"choices": [{"message": {"content": ""}}]}`
	})
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", "gpt-4o", srv.URL)
	_, err := c.Complete(context.Background(), CompletionRequest{UserPrompt: "hi"})
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestCompleteNoChoices(t *testing.T) {
	srv := chatServer(t, func(body map[string]interface{}) (int, string) {
		return http.StatusOK, `{"choices": []}`
	})
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", "gpt-4o", srv.URL)
	_, err := c.Complete(context.Background(), CompletionRequest{UserPrompt: "hi"})
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestCompleteAPIError(t *testing.T) {
	srv := chatServer(t, func(body map[string]interface{}) (int, string) {
		return http.StatusTooManyRequests, `{"error": {"message": "rate limit exceeded", "type": "rate_limit"}}`
	})
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", "gpt-4o", srv.URL)
	_, err := c.Complete(context.Background(), CompletionRequest{UserPrompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")
	assert.Contains(t, err.Error(), "429")
}

func TestMalformedWrapping(t *testing.T) {
	inner := errors.New("unexpected end of JSON input")
	err := Malformed(inner)

	assert.True(t, IsMalformed(err))
	assert.True(t, IsMalformed(fmt.Errorf("plan analysis failed: %w", err)))
	assert.False(t, IsMalformed(inner))
	assert.False(t, IsMalformed(ErrEmptyResponse))
	assert.ErrorIs(t, err, inner)
}
