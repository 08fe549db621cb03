package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskmaster/tasklists/internal/infrastructure/config"
	"github.com/taskmaster/tasklists/internal/ports"
)

const keyPrefix = "tasklist:name:"

// RedisNameCache stores task list names in Redis keyed by list id
type RedisNameCache struct {
	client *redis.Client
}

// NewRedisClient opens a client and pings it once
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetAddr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 3,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.GetAddr(), err)
	}

	return client, nil
}

// NewRedisNameCache creates a name cache on top of client
func NewRedisNameCache(client *redis.Client) ports.TaskListNameCache {
	return &RedisNameCache{client: client}
}

func key(id primitive.ObjectID) string {
	return keyPrefix + id.Hex()
}

func (c *RedisNameCache) Get(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	names := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = key(id)
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	for i, v := range values {
		if s, ok := v.(string); ok {
			names[ids[i]] = s
		}
	}

	return names, nil
}

func (c *RedisNameCache) Set(ctx context.Context, names map[primitive.ObjectID]string, ttl time.Duration) error {
	if len(names) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for id, name := range names {
		pipe.Set(ctx, key(id), name, ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set names: %w", err)
	}

	return nil
}

// NopNameCache never holds anything
type NopNameCache struct{}

func (NopNameCache) Get(context.Context, []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	return map[primitive.ObjectID]string{}, nil
}

func (NopNameCache) Set(context.Context, map[primitive.ObjectID]string, time.Duration) error {
	return nil
}
