// Package app assembles the conversion endpoint from configuration. Both the
// local server and the serverless entry point build through here.
package app

import (
	"fmt"
	"net/http"

	"tailwind-converter/internal/config"
	"tailwind-converter/internal/handler"
	"tailwind-converter/internal/model"
	"tailwind-converter/internal/service"

	"github.com/gin-gonic/gin"
)

func New(cfg *config.Config) (*gin.Engine, error) {
	return NewWithClient(cfg, nil)
}

// NewWithClient lets callers inject the outbound HTTP client.
func NewWithClient(cfg *config.Config, client *http.Client) (*gin.Engine, error) {
	chatModel, err := model.NewChatModelWithClient(cfg, client)
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}

	convertService := service.NewConvertService(chatModel, service.Options{
		APIKey:       cfg.APIKey(),
		SystemPrompt: cfg.Converter.SystemPrompt,
		GenerateOpts: model.GenerateOptions(cfg),
	})

	return handler.NewRouter(cfg, handler.NewConvertHandler(convertService)), nil
}

// NewUnavailable serves 500 on every path, keeping CORS headers intact.
func NewUnavailable(cors config.CORSConfig) *gin.Engine {
	return handler.NewUnavailableRouter(cors)
}
