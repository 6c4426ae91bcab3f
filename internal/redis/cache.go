package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("report cache miss")

// Cache is used by the report service to store derived report payloads.
// The local/cached copy is never the authority: any successful mutation
// against the practice tables invalidates every cached report at once.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte) error
	Invalidate(ctx context.Context) error
}

type reportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a cache whose entries live under a shared version
// counter. Invalidation bumps the counter so stale entries simply fall out
// of addressability and expire via TTL.
func NewReportCache(client *redis.Client, ttl time.Duration) Cache {
	return &reportCache{
		client: client,
		ttl:    ttl,
	}
}

const versionKey = "report:version"

func (c *reportCache) versionedKey(ctx context.Context, key string) (string, error) {
	version, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("read report cache version: %w", err)
	}
	return fmt.Sprintf("report:v%d:%s", version, key), nil
}

func (c *reportCache) Get(ctx context.Context, key string) ([]byte, error) {
	vkey, err := c.versionedKey(ctx, key)
	if err != nil {
		return nil, err
	}

	payload, err := c.client.Get(ctx, vkey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("read cached report: %w", err)
	}
	return payload, nil
}

func (c *reportCache) Set(ctx context.Context, key string, payload []byte) error {
	vkey, err := c.versionedKey(ctx, key)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, vkey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("store cached report: %w", err)
	}
	return nil
}

func (c *reportCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		return fmt.Errorf("bump report cache version: %w", err)
	}
	return nil
}
