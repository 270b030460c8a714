package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/surveyhub/survey-server/config"
	"github.com/surveyhub/survey-server/middleware"
	"github.com/surveyhub/survey-server/pkg/logger"
	"github.com/surveyhub/survey-server/pkg/monitoring"
	"github.com/surveyhub/survey-server/routes"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(cfg)
	defer logger.Log.Sync()

	monitoring.Init()

	if err := config.ConnectDB(cfg); err != nil {
		logger.Log.Fatal("connect database", zap.Error(err))
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(monitoring.MetricsMiddleware())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Log.Fatal("set trusted proxies", zap.Error(err))
	}

	routes.SetupRoutes(r)

	logger.Log.Info("server listening", zap.String("port", cfg.Server.Port))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Log.Fatal("server stopped", zap.Error(err))
	}
}
