// Package handler is the serverless entry point. The platform calls Handler
// once per request; the app is built on the first call of each instance.
package handler

import (
	"net/http"
	"sync"

	"tailwind-converter/internal/app"
	"tailwind-converter/internal/config"
	"tailwind-converter/pkg/logger"

	"github.com/gin-gonic/gin"
)

var (
	routerInstance http.Handler
	once           sync.Once
)

func setup() {
	gin.SetMode(gin.ReleaseMode)

	// 无配置文件，只读取环境变量
	cfg, err := config.Load("")
	if err != nil {
		logger.Errorf("Failed to load config: %v", err)
		routerInstance = app.NewUnavailable(config.DefaultCORS())
		return
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		logger.Errorf("Failed to init logger: %v", err)
	}

	router, err := app.New(cfg)
	if err != nil {
		logger.Errorf("Failed to build app: %v", err)
		routerInstance = app.NewUnavailable(cfg.CORS)
		return
	}
	routerInstance = router
}

// Handler 是 serverless 平台的入口
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(setup)
	routerInstance.ServeHTTP(w, r)
}
