// Package cache is a JSON read-through cache over Redis. A nil client or a
// non-positive TTL turns every call into a miss, so callers never branch on it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	log    zerolog.Logger
}

type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

// Connect returns a disabled cache when no address is configured.
func Connect(ctx context.Context, opts Options, log zerolog.Logger) (*Redis, error) {
	if opts.Addr == "" {
		return &Redis{log: log}, nil
	}
	client := redis.NewClient(&redis.Options{Addr: opts.Addr, Password: opts.Password, DB: opts.DB})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return New(client, opts.TTL, opts.Prefix, log), nil
}

func New(client *redis.Client, ttl time.Duration, prefix string, log zerolog.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, prefix: prefix, log: log}
}

// Scoped shares the connection under a further key prefix with its own TTL.
func (c *Redis) Scoped(prefix string, ttl time.Duration) *Redis {
	if c == nil {
		return nil
	}
	return &Redis{client: c.client, ttl: ttl, prefix: c.prefix + prefix, log: c.log}
}

func (c *Redis) Enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

func (c *Redis) Read(ctx context.Context, key string, out any) bool {
	if !c.Enabled() {
		return false
	}
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(val, out); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache entry undecodable")
		return false
	}
	return true
}

func (c *Redis) Write(ctx context.Context, key string, val any) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// Invalidate drops every key under the given sub-prefix.
func (c *Redis) Invalidate(ctx context.Context, pattern string) {
	if !c.Enabled() {
		return
	}
	iter := c.client.Scan(ctx, 0, c.prefix+pattern+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn().Err(err).Str("pattern", pattern).Msg("cache scan failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Str("pattern", pattern).Msg("cache invalidate failed")
	}
}

func (c *Redis) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func (c *Redis) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
