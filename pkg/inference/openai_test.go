package inference

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/pkg/config"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	MaxCompletionTokens int64   `json:"max_completion_tokens"`
	Temperature         float64 `json:"temperature"`
}

func fakeOpenAI(t *testing.T, status int, content string, seen *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if seen != nil {
			_ = json.Unmarshal(body, seen)
		}

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, `{"error":{"message":"bad request","type":"invalid_request_error"}}`)
			return
		}
		resp := map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 0,
			"model":   "gpt-test",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIInfer(t *testing.T) {
	var seen chatRequest
	srv := fakeOpenAI(t, http.StatusOK, `{"working_title":"Calm Code"}`, &seen)

	o := NewOpenAIInferencer("test-key", "gpt-test")
	o.ChangeBaseURL(srv.URL)

	params := &openai.ChatCompletionNewParams{MaxCompletionTokens: openai.Int(2048)}
	out, err := o.Infer(context.Background(), params, "system prompt", `{"book_topic":"calm"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"working_title":"Calm Code"}`, out)

	assert.Equal(t, "gpt-test", seen.Model)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Equal(t, "system prompt", seen.Messages[0].Content)
	assert.Equal(t, "user", seen.Messages[1].Role)
	assert.Equal(t, int64(2048), seen.MaxCompletionTokens)
	assert.InDelta(t, 0.3, seen.Temperature, 1e-9)

	assert.Nil(t, params.Messages, "caller params are not modified")
}

func TestOpenAIInferEmptyContent(t *testing.T) {
	srv := fakeOpenAI(t, http.StatusOK, "", nil)

	o := NewOpenAIInferencer("test-key", "gpt-test")
	o.ChangeBaseURL(srv.URL)

	_, err := o.Infer(context.Background(), nil, "s", "u")
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestOpenAIInferAPIError(t *testing.T) {
	srv := fakeOpenAI(t, http.StatusBadRequest, "", nil)

	o := NewOpenAIInferencer("test-key", "gpt-test")
	o.ChangeBaseURL(srv.URL)

	_, err := o.Infer(context.Background(), nil, "s", "u")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusBadRequest))
	assert.False(t, IsStatus(err, http.StatusTooManyRequests))
	assert.NotErrorIs(t, err, ErrEmptyReply)
}

func TestVerify(t *testing.T) {
	o := NewOpenAIInferencer("k", "m")

	ok, err := o.Verify(context.Background(), "text")
	assert.True(t, ok)
	assert.NoError(t, err)

	ok, err = o.Verify(context.Background(), "")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestNew(t *testing.T) {
	tests := []struct {
		cfg   config.LLMConfig
		name  string
		model string
	}{
		{config.LLMConfig{Provider: "openai", APIKey: "k"}, "openai", "gpt-4o-mini"},
		{config.LLMConfig{Provider: "openai", APIKey: "k", Model: "gpt-5"}, "openai", "gpt-5"},
		{config.LLMConfig{Provider: "grok", APIKey: "k"}, "grok", "grok-4-fast-reasoning"},
		{config.LLMConfig{Provider: "moonshot", APIKey: "k"}, "moonshot", "kimi-k2-5"},
		{config.LLMConfig{Provider: "kimi", APIKey: "k"}, "kimi", "kimi-for-coding"},
		{config.LLMConfig{Provider: "local", Model: "qwen"}, "local", "qwen"},
	}
	for _, tt := range tests {
		t.Run(tt.cfg.Provider+"/"+tt.model, func(t *testing.T) {
			inf, err := New(context.Background(), tt.cfg)
			require.NoError(t, err)
			o, ok := inf.(*OpenAIInferencer)
			require.True(t, ok)
			assert.Equal(t, tt.name, o.Name())
			assert.Equal(t, tt.model, o.Model())
		})
	}

	_, err := New(context.Background(), config.LLMConfig{Provider: "llama"})
	assert.Error(t, err)
}
