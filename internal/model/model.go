package model

import (
	"net/http"

	"tailwind-converter/internal/config"
	"tailwind-converter/pkg/logger"

	einoModel "github.com/cloudwego/eino/components/model"
)

// NewChatModel 根据 model.provider 创建转换模型
func NewChatModel(cfg *config.Config) (einoModel.BaseChatModel, error) {
	return NewChatModelWithClient(cfg, nil)
}

// NewChatModelWithClient is NewChatModel with an injected outbound client;
// nil builds one from the provider's timeout settings.
func NewChatModelWithClient(cfg *config.Config, client *http.Client) (einoModel.BaseChatModel, error) {
	switch cfg.Model.Provider {
	case config.ProviderGemini, "":
		logger.Infof("Using Gemini model: %s, API key: %s", cfg.Gemini.Model, maskKey(cfg.Gemini.APIKey))
		return newGeminiChatModel(cfg.Gemini, client), nil
	case config.ProviderOpenAI:
		logger.Infof("Using OpenAI model: %s, API key: %s", cfg.OpenAI.Model, maskKey(cfg.OpenAI.APIKey))
		return newOpenAIChatModel(cfg.OpenAI, client), nil
	default:
		return nil, unsupported(cfg.Model.Provider)
	}
}

// GenerateOptions returns the per-call options configured for the active provider.
func GenerateOptions(cfg *config.Config) []einoModel.Option {
	var temperature float32
	var maxTokens int

	switch cfg.Model.Provider {
	case config.ProviderOpenAI:
		temperature, maxTokens = cfg.OpenAI.Temperature, cfg.OpenAI.MaxTokens
	default:
		temperature, maxTokens = cfg.Gemini.Temperature, cfg.Gemini.MaxTokens
	}

	var opts []einoModel.Option
	if temperature > 0 {
		opts = append(opts, einoModel.WithTemperature(temperature))
	}
	if maxTokens > 0 {
		opts = append(opts, einoModel.WithMaxTokens(maxTokens))
	}
	return opts
}

func maskKey(key string) string {
	switch {
	case key == "":
		return "(missing)"
	case len(key) > 6:
		return key[:6] + "..."
	default:
		return "***"
	}
}
