package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dedupKeyPrefix  = "webhook:call:"
	defaultDedupTTL = 10 * time.Minute
)

// DuplicateGuard remembers call ids whose outcome was already recorded.
type DuplicateGuard interface {
	Seen(ctx context.Context, callID string) (bool, error)
	Mark(ctx context.Context, callID string) error
}

// RedisGuard stores processed call ids in Redis with a TTL.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGuard creates a guard backed by client.
func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &RedisGuard{client: client, ttl: ttl}
}

func (g *RedisGuard) Seen(ctx context.Context, callID string) (bool, error) {
	n, err := g.client.Exists(ctx, dedupKeyPrefix+callID).Result()
	if err != nil {
		return false, fmt.Errorf("check call id: %w", err)
	}
	return n > 0, nil
}

func (g *RedisGuard) Mark(ctx context.Context, callID string) error {
	if err := g.client.Set(ctx, dedupKeyPrefix+callID, time.Now().UTC().Format(time.RFC3339), g.ttl).Err(); err != nil {
		return fmt.Errorf("mark call id: %w", err)
	}
	return nil
}

// noopGuard is used when Redis is not configured.
type noopGuard struct{}

func (noopGuard) Seen(context.Context, string) (bool, error) { return false, nil }
func (noopGuard) Mark(context.Context, string) error         { return nil }

var (
	_ DuplicateGuard = (*RedisGuard)(nil)
	_ DuplicateGuard = noopGuard{}
)
