package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/Aidin1998/calendars/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// defaultConnectTimeout bounds the initial ping when no dial timeout is set.
const defaultConnectTimeout = 5 * time.Second

// Client wraps Redis client with additional functionality
type Client struct {
	rdb    redis.UniversalClient
	config config.RedisConfig
	logger *zap.Logger
}

// NewClient connects to Redis. One address gives a single-node client, several
// give a cluster client, and a master name gives a sentinel failover client.
func NewClient(cfg config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        cfg.Addrs,
		MasterName:   cfg.MasterName,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis client connected",
		zap.Strings("addrs", cfg.Addrs),
		zap.Int("db", cfg.DB),
		zap.Int("pool_size", cfg.PoolSize),
		zap.Bool("sentinel_mode", cfg.MasterName != ""),
	)

	return &Client{rdb: rdb, config: cfg, logger: logger}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() redis.UniversalClient {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// Health checks the health of Redis connection
func (c *Client) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
