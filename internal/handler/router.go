package handler

import (
	"net/http"
	"time"

	"tailwind-converter/internal/config"
	"tailwind-converter/internal/model"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the middleware chain. The conversion handler answers every
// path except /health, the way a serverless function owns its URL space.
func NewRouter(cfg *config.Config, convertHandler *ConvertHandler) *gin.Engine {
	router := newEngine(cfg.CORS)
	router.Use(BodyLimit(cfg.Server.MaxBodyBytes))

	router.GET("/health", Health)
	router.NoRoute(convertHandler.Convert)

	return router
}

// NewUnavailableRouter answers every request with 500 when the app could not be built.
func NewUnavailableRouter(cors config.CORSConfig) *gin.Engine {
	router := newEngine(cors)
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Server misconfigured"})
	})
	return router
}

func newEngine(cors config.CORSConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(AccessLog())
	router.Use(Recovery())
	router.Use(CORS(cors))
	return router
}

// Health 健康检查
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}
