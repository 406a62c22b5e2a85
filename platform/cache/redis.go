// Package cache provides the Redis connection shared by stores.
// This is part of the platform layer and contains no business logic.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewClient parses redisURL, connects and pings the server.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// HealthAdapter exposes a redis client as a readiness check.
type HealthAdapter struct {
	client redis.UniversalClient
}

// NewHealthAdapter wraps client.
func NewHealthAdapter(client redis.UniversalClient) *HealthAdapter {
	return &HealthAdapter{client: client}
}

// Ping reports whether Redis answers.
func (h *HealthAdapter) Ping(ctx context.Context) error {
	return h.client.Ping(ctx).Err()
}
