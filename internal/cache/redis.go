package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"scoresheet/ingestion/internal/metrics"
)

const messageKeyPrefix = "scoresheet:message:"

// Config holds Redis connection settings
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration // how long a delivered message id is remembered
}

// RedisCache remembers delivered chat message ids so that a message the chat
// bridge delivers twice is processed once
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

// MarkSeen records a message id and reports whether it was new
func (c *RedisCache) MarkSeen(ctx context.Context, messageID string) (bool, error) {
	start := time.Now()
	created, err := c.client.SetNX(ctx, MessageKey(messageID), time.Now().Unix(), c.ttl).Result()
	if err != nil {
		metrics.RecordError("cache", "setnx")
		return false, fmt.Errorf("failed to mark message seen: %w", err)
	}

	if created {
		metrics.RecordCacheMiss()
	} else {
		metrics.RecordCacheHit()
		log.Debug().
			Str("message_id", messageID).
			Dur("duration", time.Since(start)).
			Msg("Duplicate delivery detected")
	}
	return created, nil
}

// Forget removes a message id so a failed cycle can be retried by redelivery
func (c *RedisCache) Forget(ctx context.Context, messageID string) error {
	if err := c.client.Del(ctx, MessageKey(messageID)).Err(); err != nil {
		return fmt.Errorf("failed to forget message: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// MessageKey is the Redis key for a message id
func MessageKey(messageID string) string {
	return messageKeyPrefix + messageID
}
