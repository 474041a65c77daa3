package di

import (
	"context"
	"fmt"
	"time"

	"user-resource-service/cmd/api/infrastructure"
	"user-resource-service/internal/adapter/db/mongodb"
	ginhandler "user-resource-service/internal/adapter/gin/handler"
	"user-resource-service/internal/config"
	"user-resource-service/internal/usecase/user"
	redisclient "user-resource-service/pkg/redis"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const usersCollection = "users"

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Mongo       *mongo.Client
	RedisClient *redisclient.Client
	UserUC      user.Usecase
	GinHandler  *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Initialize database
	client, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize repository
	coll := client.Database(cfg.Mongo.Database).Collection(usersCollection)
	repo := mongodb.NewUserRepoMongo(coll, l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	// Redis backs the rate limiter only, so it is connected on demand
	var rdb *redisclient.Client
	if cfg.RateLimit.Enabled {
		rdb, err = infrastructure.NewRedisClient(cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
	}

	// Initialize use case
	userUC := user.New(repo, l)

	// Initialize Gin handler
	ginHandler := ginhandler.NewUserHandler(userUC, l)

	return &Container{
		Config:      cfg,
		Logger:      l,
		Mongo:       client,
		RedisClient: rdb,
		UserUC:      userUC,
		GinHandler:  ginHandler,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.Mongo != nil {
		if err := infrastructure.CloseDatabase(c.Mongo); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
