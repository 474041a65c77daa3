package infrastructure

import (
	"context"
	"fmt"
	"time"

	"user-resource-service/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// NewDatabase connects to MongoDB and verifies the connection with a ping.
func NewDatabase(cfg *config.Config, l *zap.Logger) (*mongo.Client, error) {
	timeout := time.Duration(cfg.Mongo.ConnectTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	l.Info("database connected successfully",
		zap.String("database", cfg.Mongo.Database),
	)

	return client, nil
}

// CloseDatabase disconnects the MongoDB client.
func CloseDatabase(client *mongo.Client) error {
	if client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
