package server

import (
	"errors"
	"net/http"

	ginhandler "user-resource-service/internal/adapter/gin/handler"
	"user-resource-service/internal/adapter/gin/middleware"
	"user-resource-service/internal/config"
	redisclient "user-resource-service/pkg/redis"

	"go.uber.org/zap"
)

// Server struct holds all server dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, l *zap.Logger, handler *ginhandler.UserHandler, redisClient *redisclient.Client) *Server {
	rateLimitCfg := middleware.RateLimiterConfig{
		Enabled:           cfg.RateLimit.Enabled,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstCapacity:     cfg.RateLimit.BurstCapacity,
	}

	return &Server{
		Config: cfg,
		Logger: l,
		HTTP:   SetupGinServer(handler, redisClient, rateLimitCfg, ":"+cfg.App.HTTPPort, l),
	}
}

// Start runs the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.Logger.Info("HTTP server running", zap.String("address", s.HTTP.Addr))

	if err := s.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
