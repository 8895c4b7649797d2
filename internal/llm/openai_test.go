package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAI_Complete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"42"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewOpenAI(srv.URL+"/v1/", "sk-test", "gpt-4o", 0)
	out, err := c.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "be terse"},
		{Role: RoleUser, Content: "answer?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "42", out)

	assert.Equal(t, "gpt-4o", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, RoleSystem, got.Messages[0].Role)
	assert.Equal(t, "answer?", got.Messages[1].Content)
}

func TestOpenAI_TemperatureAlwaysSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Contains(t, raw, "temperature")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	_, err := NewOpenAI(srv.URL, "k", "m", 0).Complete(context.Background(), nil)
	require.NoError(t, err)
}

func TestOpenAI_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"You exceeded your current quota","type":"insufficient_quota"}}`))
	}))
	defer srv.Close()

	_, err := NewOpenAI(srv.URL, "k", "m", 0).Complete(context.Background(), nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "exceeded your current quota")
}

func TestOpenAI_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenAI(srv.URL, "k", "m", 0).Complete(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestOpenAI_ResponseLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer srv.Close()

	_, err := NewOpenAI(srv.URL, "k", "m", 16).Complete(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeded limit")
}

func TestOpenAI_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewOpenAI(srv.URL, "k", "m", 0).Complete(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseProviderError(t *testing.T) {
	assert.Equal(t, "bad key", parseProviderError(401, []byte(`{"error":{"message":"bad key"}}`)))
	assert.Equal(t, "flat", parseProviderError(400, []byte(`{"message":"flat"}`)))
	assert.Contains(t, parseProviderError(401, []byte("nope")), "authentication failed")
	assert.Equal(t, "HTTP 418: teapot", parseProviderError(418, []byte("teapot")))
	long := parseProviderError(418, []byte(strings.Repeat("a", 300)))
	assert.True(t, strings.HasSuffix(long, "..."))
}

func TestOpenAI_Model(t *testing.T) {
	assert.Equal(t, "gpt-4o", NewOpenAI("", "sk", "gpt-4o", 0).Model())
}
