// Package redis provides a durable delivery tracker backed by Redis.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Config contains Redis tracker configuration
type Config struct {
	Addr      string `json:"addr" yaml:"addr"`             // Redis server address
	Password  string `json:"password" yaml:"password"`     // Redis password
	DB        int    `json:"db" yaml:"db"`                 // Redis database number
	KeyPrefix string `json:"key_prefix" yaml:"key_prefix"` // Delivery record key prefix
}

// DefaultConfig returns default Redis tracker configuration
func DefaultConfig() *Config {
	return &Config{
		Addr:      "localhost:6379",
		KeyPrefix: "nanga:sent:",
	}
}

// Tracker implements the delivery tracker on Redis. One key per content item
// holds the sent flag; absence of the key means not sent.
type Tracker struct {
	client         *redis.Client
	config         *Config
	externalClient bool // Whether client is managed externally
}

// New creates a Redis tracker with internal connection management
func New(config *Config) (*Tracker, error) {
	if config == nil {
		config = DefaultConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %v", err)
	}

	return newTracker(client, config, false), nil
}

// NewWithClient creates a Redis tracker using an existing client. The caller
// is responsible for the client lifecycle.
func NewWithClient(client *redis.Client, config *Config) (*Tracker, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis connection test failed: %v", err)
	}
	return newTracker(client, config, true), nil
}

func newTracker(client *redis.Client, config *Config, externalClient bool) *Tracker {
	if config.KeyPrefix == "" {
		config.KeyPrefix = DefaultConfig().KeyPrefix
	}
	return &Tracker{
		client:         client,
		config:         config,
		externalClient: externalClient,
	}
}

func (t *Tracker) key(contentID string) string {
	return t.config.KeyPrefix + contentID
}

// IsSent reports whether a delivery record exists. Read errors count as not
// sent: the tracker must never block a publish.
func (t *Tracker) IsSent(ctx context.Context, contentID string) bool {
	n, err := t.client.Exists(ctx, t.key(contentID)).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// MarkSent creates the delivery record. Idempotent.
func (t *Tracker) MarkSent(ctx context.Context, contentID string) error {
	if err := t.client.Set(ctx, t.key(contentID), "1", 0).Err(); err != nil {
		return fmt.Errorf("mark sent: %v", err)
	}
	return nil
}

// MarkUnsent deletes the delivery record. Idempotent.
func (t *Tracker) MarkUnsent(ctx context.Context, contentID string) error {
	if err := t.client.Del(ctx, t.key(contentID)).Err(); err != nil {
		return fmt.Errorf("mark unsent: %v", err)
	}
	return nil
}

// Health checks the Redis connection
func (t *Tracker) Health(ctx context.Context) error {
	return t.client.Ping(ctx).Err()
}

// Close closes the tracker. An externally managed client is left open for
// its owner to close.
func (t *Tracker) Close() error {
	if t.externalClient {
		return nil
	}
	return t.client.Close()
}
