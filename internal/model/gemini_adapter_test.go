package model

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"tailwind-converter/internal/config"

	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *geminiChatModel {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return newGeminiChatModel(config.GeminiConfig{
		APIKey:  "test-key",
		BaseURL: server.URL + "/v1beta/",
		Model:   "gemini-test",
	}, server.Client())
}

func testMessages() []*schema.Message {
	return []*schema.Message{
		schema.SystemMessage("convert css"),
		schema.UserMessage(".a { color: red; }"),
	}
}

func TestGemini_RequestShape(t *testing.T) {
	var got GeminiRequest
	m := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("key"))
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"{\"output\":\"text-red-500\"}"}]}}]}`)
	})

	msg, err := m.Generate(context.Background(), testMessages())
	require.NoError(t, err)
	assert.Equal(t, schema.Assistant, msg.Role)
	assert.Equal(t, `{"output":"text-red-500"}`, msg.Content)

	require.Len(t, got.Contents, 1)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, ".a { color: red; }", got.Contents[0].Parts[0].Text)
	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "convert css", got.SystemInstruction.Parts[0].Text)
	require.NotNil(t, got.GenerationConfig)
	assert.Equal(t, "application/json", got.GenerationConfig.ResponseMimeType)
	assert.Nil(t, got.GenerationConfig.Temperature)
	assert.Nil(t, got.GenerationConfig.MaxOutputTokens)
}

func TestGemini_Options(t *testing.T) {
	var got GeminiRequest
	var path string
	m := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"candidates":[]}`)
	})

	_, err := m.Generate(context.Background(), testMessages(),
		einoModel.WithTemperature(0.3),
		einoModel.WithMaxTokens(256),
		einoModel.WithModel("gemini-other"),
	)
	require.NoError(t, err)

	assert.Equal(t, "/v1beta/models/gemini-other:generateContent", path)
	require.NotNil(t, got.GenerationConfig.Temperature)
	assert.InDelta(t, 0.3, *got.GenerationConfig.Temperature, 1e-6)
	require.NotNil(t, got.GenerationConfig.MaxOutputTokens)
	assert.Equal(t, 256, *got.GenerationConfig.MaxOutputTokens)
}

func TestGemini_MissingFieldsYieldEmptyText(t *testing.T) {
	bodies := []string{
		`{}`,
		`{"candidates":[]}`,
		`{"candidates":[{}]}`,
		`{"candidates":[{"content":{"parts":[]}}]}`,
	}
	for _, body := range bodies {
		m := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		})

		msg, err := m.Generate(context.Background(), testMessages())
		require.NoError(t, err, body)
		assert.Empty(t, msg.Content, body)
	}
}

func TestGemini_ProviderError(t *testing.T) {
	m := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`)
	})

	_, err := m.Generate(context.Background(), testMessages())

	var providerErr *ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, http.StatusTooManyRequests, providerErr.StatusCode)
	assert.Equal(t, "quota exceeded", err.Error())
}

func TestGemini_ProviderErrorWithoutMessage(t *testing.T) {
	m := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `<html>bad gateway</html>`)
	})

	_, err := m.Generate(context.Background(), testMessages())

	var providerErr *ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, "API Error", err.Error())
}

func TestGemini_UndecodableSuccess(t *testing.T) {
	m := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	})

	_, err := m.Generate(context.Background(), testMessages())
	require.Error(t, err)

	var providerErr *ProviderError
	assert.False(t, errors.As(err, &providerErr))
}

func TestGemini_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	m := newGeminiChatModel(config.GeminiConfig{APIKey: "secret-key", BaseURL: url, Model: "m"}, nil)

	_, err := m.Generate(context.Background(), testMessages())
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestGemini_Stream(t *testing.T) {
	m := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"{}"}]}}]}`)
	})

	reader, err := m.Stream(context.Background(), testMessages())
	require.NoError(t, err)
	defer reader.Close()

	msg, err := reader.Recv()
	require.NoError(t, err)
	assert.Equal(t, "{}", msg.Content)

	_, err = reader.Recv()
	assert.ErrorIs(t, err, io.EOF)
}
