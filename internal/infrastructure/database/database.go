package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/taskmaster/tasklists/internal/infrastructure/config"
	"github.com/taskmaster/tasklists/internal/infrastructure/logger"
)

// Collection names
const (
	TaskListsCollection = "tasklists"
	TasksCollection     = "tasks"
)

// DB wraps the mongo client and the application database
type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
	config   config.MongoConfig
}

// Connect opens the client and pings the primary, retrying with exponential
// backoff. It returns an error after the last failed attempt.
func Connect(ctx context.Context, cfg config.MongoConfig, log *logger.Logger) (*DB, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	retryDelay := cfg.RetryBackoff
	var lastErr error

	for attempt := 1; attempt <= cfg.ConnectRetries; attempt++ {
		log.Infow("Connecting to MongoDB", "attempt", attempt, "max_attempts", cfg.ConnectRetries)

		db, err := connectOnce(ctx, cfg, opts)
		if err == nil {
			log.Infow("MongoDB connected", "database", cfg.Database)
			return db, nil
		}
		lastErr = err

		log.Warnw("MongoDB connection failed", "attempt", attempt, "error", err)

		if attempt < cfg.ConnectRetries {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("connect to mongo: %w", ctx.Err())
			case <-time.After(retryDelay):
			}
			retryDelay *= 2
		}
	}

	return nil, fmt.Errorf("failed to connect to mongo after %d attempts: %w", cfg.ConnectRetries, lastErr)
}

func connectOnce(ctx context.Context, cfg config.MongoConfig, opts *options.ClientOptions) (*DB, error) {
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &DB{
		Client:   client,
		Database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

// Collection returns a handle to the named collection
func (db *DB) Collection(name string) *mongo.Collection {
	return db.Database.Collection(name)
}

// Ping pings the primary
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo health check failed: %w", err)
	}

	return nil
}

// Close disconnects the client
func (db *DB) Close(ctx context.Context) error {
	if db.Client != nil {
		return db.Client.Disconnect(ctx)
	}
	return nil
}
