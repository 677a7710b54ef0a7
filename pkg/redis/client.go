package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/innovativehub/storefront/pkg/config"
	"github.com/innovativehub/storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace  = "sf"
	sessionPrefix = "session"
	lockPrefix    = "lock"
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	SetNX(context.Context, string, any, time.Duration) *redis.BoolCmd
	Get(context.Context, string) *redis.StringCmd
	Expire(context.Context, string, time.Duration) *redis.BoolCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// Client wraps the redis connection used for short-lived session slots.
type Client struct {
	store cmdable
	raw   *redis.Client
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// New bootstraps a Redis client with pooling/timeouts and verifies connectivity.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	logg.Info(ctx, "redis connection established")
	return &Client{store: raw, raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.DB == 0 {
		opts.DB = cfg.DB
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

// Ping verifies the connection.
func (c *Client) Ping(ctx context.Context) error {
	if c.store == nil {
		return errors.New("redis client not initialized")
	}
	return c.store.Ping(ctx).Err()
}

// Close shuts down the underlying client if available.
func (c *Client) Close() error {
	if c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

// SetNX sets a value only if the key does not exist yet.
func (c *Client) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if c.store == nil {
		return false, errors.New("redis client not initialized")
	}
	return c.store.SetNX(ctx, key, value, ttl).Result()
}

// Get returns the raw value under key. A missing key yields redis.Nil.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	if c.store == nil {
		return "", errors.New("redis client not initialized")
	}
	return c.store.Get(ctx, key).Result()
}

// Del removes keys.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	if c.store == nil {
		return errors.New("redis client not initialized")
	}
	return c.store.Del(ctx, keys...).Err()
}

// LockKey names a cross-instance lock.
func (c *Client) LockKey(name string) string {
	return c.buildKey(lockPrefix, name)
}

// SessionSlotKey namespaces a slot under its browsing session.
func (c *Client) SessionSlotKey(sessionID, slot string) string {
	return c.buildKey(sessionPrefix, sessionID, slot)
}

// SessionSlots returns a key/value view scoped to one browsing session. Each
// write and each hit renews the TTL.
func (c *Client) SessionSlots(sessionID string, ttl time.Duration) *SessionSlots {
	return &SessionSlots{client: c, sessionID: sessionID, ttl: ttl}
}

// SessionSlots stores per-session values such as the staged buy-now item.
type SessionSlots struct {
	client    *Client
	sessionID string
	ttl       time.Duration
}

// Get returns the value under slot and whether it exists.
func (s *SessionSlots) Get(ctx context.Context, slot string) (string, bool, error) {
	if s.client == nil || s.client.store == nil {
		return "", false, errors.New("redis client not initialized")
	}
	key := s.client.SessionSlotKey(s.sessionID, slot)
	value, err := s.client.store.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if s.ttl > 0 {
		if err := s.client.store.Expire(ctx, key, s.ttl).Err(); err != nil {
			return value, true, fmt.Errorf("redis expire %s: %w", key, err)
		}
	}
	return value, true, nil
}

// Set overwrites the value under slot.
func (s *SessionSlots) Set(ctx context.Context, slot, value string) error {
	if s.client == nil || s.client.store == nil {
		return errors.New("redis client not initialized")
	}
	return s.client.store.Set(ctx, s.client.SessionSlotKey(s.sessionID, slot), value, s.ttl).Err()
}

// Delete removes slot. Deleting a missing slot is not an error.
func (s *SessionSlots) Delete(ctx context.Context, slot string) error {
	if s.client == nil || s.client.store == nil {
		return errors.New("redis client not initialized")
	}
	return s.client.store.Del(ctx, s.client.SessionSlotKey(s.sessionID, slot)).Err()
}

func (c *Client) buildKey(parts ...string) string {
	if len(parts) == 0 {
		return keyNamespace
	}
	clean := []string{keyNamespace}
	for _, part := range parts {
		if part == "" {
			continue
		}
		clean = append(clean, strings.TrimSpace(part))
	}
	return strings.Join(clean, ":")
}
