// Package redis owns the connection to the role-set backing store. Redis is
// optional; when no URL is configured the registry falls back to in-memory
// role sets and this package hands back nothing.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"vitacare/internal/platform/config"
)

// Client wraps the go-redis client so callers get a health probe alongside
// the raw commands.
type Client struct {
	*redis.Client
}

// New dials Redis from the configuration and verifies the connection with a
// ping before handing it out. A nil client with a nil error means Redis was
// not configured.
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health reports whether the role store is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.Client.Close()
}
