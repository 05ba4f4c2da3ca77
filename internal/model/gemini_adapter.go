package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"tailwind-converter/internal/config"
	"tailwind-converter/internal/utils"

	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const jsonMimeType = "application/json"

// geminiChatModel calls the generateContent REST endpoint directly.
type geminiChatModel struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

func newGeminiChatModel(cfg config.GeminiConfig, client *http.Client) *geminiChatModel {
	if client == nil {
		client = utils.NewHTTPClient(cfg.Timeout, cfg.DebugRequest)
	}
	return &geminiChatModel{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}
}

func (m *geminiChatModel) Generate(ctx context.Context, messages []*schema.Message, opts ...einoModel.Option) (*schema.Message, error) {
	options := einoModel.GetCommonOptions(&einoModel.Options{Model: &m.model}, opts...)

	body, err := json.Marshal(m.buildRequest(messages, options))
	if err != nil {
		return nil, fmt.Errorf("encode gemini request: %w", err)
	}

	modelName := m.model
	if options.Model != nil && *options.Model != "" {
		modelName = *options.Model
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", m.baseURL, modelName)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", jsonMimeType)
	// 凭证放在请求头中，避免传输错误信息里带出 URL 上的 key
	req.Header.Set("x-goog-api-key", m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gemini response: %w", err)
	}

	var out GeminiResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := ""
		if decodeErr == nil && out.Error != nil {
			message = out.Error.Message
		}
		return nil, newProviderError(config.ProviderGemini, resp.StatusCode, message)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode gemini response: %w", decodeErr)
	}

	return &schema.Message{
		Role:    schema.Assistant,
		Content: out.Text(),
	}, nil
}

func (m *geminiChatModel) Stream(ctx context.Context, messages []*schema.Message, opts ...einoModel.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, messages, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// buildRequest 系统消息进入 systemInstruction，其余消息按顺序进入 contents
func (m *geminiChatModel) buildRequest(messages []*schema.Message, options *einoModel.Options) *GeminiRequest {
	req := &GeminiRequest{
		Contents: make([]GeminiContent, 0, len(messages)),
		GenerationConfig: &GeminiGenerationConfig{
			ResponseMimeType: jsonMimeType,
			Temperature:      options.Temperature,
			MaxOutputTokens:  options.MaxTokens,
		},
	}

	var system []GeminiPart
	for _, msg := range messages {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			system = append(system, GeminiPart{Text: msg.Content})
		case schema.Assistant:
			req.Contents = append(req.Contents, GeminiContent{
				Role:  "model",
				Parts: []GeminiPart{{Text: msg.Content}},
			})
		default:
			req.Contents = append(req.Contents, GeminiContent{
				Role:  "user",
				Parts: []GeminiPart{{Text: msg.Content}},
			})
		}
	}
	if len(system) > 0 {
		req.SystemInstruction = &GeminiContent{Parts: system}
	}

	return req
}
