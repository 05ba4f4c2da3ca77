package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"tailwind-converter/internal/model"
	"tailwind-converter/internal/service"
	"tailwind-converter/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	msgMethodNotAllowed = "Method Not Allowed"
	msgMissingAPIKey    = "Server API Key missing"
	msgNoCSS            = "No CSS provided"
	msgConversionFailed = "Conversion failed: "
)

// Converter is what the handler needs from the conversion service.
type Converter interface {
	Convert(ctx context.Context, cssCode string) (json.RawMessage, error)
}

type ConvertHandler struct {
	converter Converter
}

func NewConvertHandler(converter Converter) *ConvertHandler {
	return &ConvertHandler{
		converter: converter,
	}
}

// Convert 处理 CSS → Tailwind 转换请求。OPTIONS 已由 CORS 中间件应答。
func (h *ConvertHandler) Convert(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, model.ErrorResponse{Error: msgMethodNotAllowed})
		return
	}

	// 无法解析的请求体按缺少 cssCode 处理
	var req model.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WithFields(logrus.Fields{
			"request_id": c.GetString(ctxRequestID),
		}).WithError(err).Debug("request body not usable")
		req = model.ConvertRequest{}
	}

	// 客户端断开不会中止进行中的上游调用
	ctx := context.WithoutCancel(c.Request.Context())

	result, err := h.converter.Convert(ctx, req.CSSCode)
	if err != nil {
		status, body := errorResponse(err)
		if status >= http.StatusInternalServerError {
			fields := logrus.Fields{"request_id": c.GetString(ctxRequestID)}
			var upstream *service.UpstreamError
			if errors.As(err, &upstream) {
				fields["kind"] = upstream.Kind
			}
			logger.WithFields(fields).WithError(err).Error("conversion failed")
		}
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, result)
}

func errorResponse(err error) (int, model.ErrorResponse) {
	switch {
	case errors.Is(err, service.ErrMissingAPIKey):
		return http.StatusInternalServerError, model.ErrorResponse{Error: msgMissingAPIKey}
	case errors.Is(err, service.ErrNoCSS):
		return http.StatusBadRequest, model.ErrorResponse{Error: msgNoCSS}
	default:
		return http.StatusInternalServerError, model.ErrorResponse{Error: msgConversionFailed + err.Error()}
	}
}
