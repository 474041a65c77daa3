package server

import (
	"net/http"
	"time"

	ginhandler "user-resource-service/internal/adapter/gin/handler"
	"user-resource-service/internal/adapter/gin/middleware"
	ginrouter "user-resource-service/internal/adapter/gin/router"
	redisclient "user-resource-service/pkg/redis"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	handler *ginhandler.UserHandler,
	redisClient *redisclient.Client,
	rateLimitCfg middleware.RateLimiterConfig,
	ginAddr string,
	l *zap.Logger,
) *http.Server {
	var rdb *redis.Client
	if redisClient != nil {
		rdb = redisClient.Client
	}

	router := ginrouter.SetupRouter(handler, rdb, rateLimitCfg, l)

	l.Info("REST API configured", zap.String("address", ginAddr))

	return &http.Server{
		Addr:              ginAddr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
