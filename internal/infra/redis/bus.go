// Package redis provides the cross-process cache invalidation bus.
// Each process publishes tag invalidations and stale-marks its own
// entries when a peer publishes.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration.
type Config struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

const invalidationChannel = "storecore:cache:invalidate"

// Client wraps Redis operations for the invalidation bus.
type Client struct {
	rdb *redis.Client
	log *slog.Logger
}

// NewClient creates a new Redis client and verifies the connection.
func NewClient(cfg Config, log *slog.Logger) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb, log: log}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Publish fans a tag invalidation out to every subscribed process.
func (c *Client) Publish(ctx context.Context, tag string) error {
	if err := c.rdb.Publish(ctx, invalidationChannel, tag).Err(); err != nil {
		return fmt.Errorf("publish invalidation: %w", err)
	}
	return nil
}

// Subscribe delivers peer-published tags to fn until ctx is done.
// Runs in its own goroutine.
func (c *Client) Subscribe(ctx context.Context, fn func(tag string)) {
	sub := c.rdb.Subscribe(ctx, invalidationChannel)

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, open := <-ch:
				if !open {
					return
				}
				fn(msg.Payload)
			}
		}
	}()
}

// Health checks if redis is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
