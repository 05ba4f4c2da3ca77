package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"tailwind-converter/internal/cssinfo"
	"tailwind-converter/internal/model"
	"tailwind-converter/pkg/logger"

	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

const emptyObject = "{}"

// ConvertService turns one CSS snippet into the provider's JSON answer.
// It holds no per-request state and is safe for concurrent use.
type ConvertService struct {
	chatModel einoModel.BaseChatModel
	template  prompt.ChatTemplate
	apiKey    string
	opts      []einoModel.Option
}

type Options struct {
	APIKey       string
	SystemPrompt string
	GenerateOpts []einoModel.Option
}

func NewConvertService(chatModel einoModel.BaseChatModel, o Options) *ConvertService {
	return &ConvertService{
		chatModel: chatModel,
		template:  newConvertPrompt(o.SystemPrompt),
		apiKey:    o.APIKey,
		opts:      o.GenerateOpts,
	}
}

func newConvertPrompt(systemPrompt string) prompt.ChatTemplate {
	// 系统提示词可能含有花括号，不经过模板格式化
	return prompt.FromMessages(schema.FString,
		&literalMessage{msg: schema.SystemMessage(systemPrompt)},
		schema.UserMessage("{css_code}"),
	)
}

// Configured reports whether a provider credential is present.
func (s *ConvertService) Configured() bool {
	return s.apiKey != ""
}

// Convert validates cssCode, calls the provider and parses its cleaned text.
func (s *ConvertService) Convert(ctx context.Context, cssCode string) (json.RawMessage, error) {
	if !s.Configured() {
		return nil, ErrMissingAPIKey
	}
	if cssCode == "" {
		return nil, ErrNoCSS
	}

	logger.WithFields(cssinfo.Inspect(cssCode).Fields()).Debug("converting css")

	messages, err := s.template.Format(ctx, map[string]any{"css_code": cssCode})
	if err != nil {
		return nil, fmt.Errorf("format prompt: %w", err)
	}

	reply, err := s.chatModel.Generate(ctx, messages, s.opts...)
	if err != nil {
		kind := KindTransport
		var providerErr *model.ProviderError
		if errors.As(err, &providerErr) {
			kind = KindProvider
		}
		return nil, &UpstreamError{Kind: kind, Err: err}
	}

	text := emptyObject
	if reply != nil && reply.Content != "" {
		text = reply.Content
	}

	var out json.RawMessage
	if err := json.Unmarshal([]byte(StripFences(text)), &out); err != nil {
		return nil, &UpstreamError{Kind: KindMalformedOutput, Err: err}
	}

	return out, nil
}

// StripFences removes every ```json and ``` marker and surrounding whitespace.
func StripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}
