package webhook

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper marks gateway message IDs as seen so redelivered webhook batches
// do not create duplicate leads.
type Deduper interface {
	// Seen reports whether the message ID was already processed, atomically
	// claiming it otherwise.
	Seen(ctx context.Context, messageID string) (bool, error)
}

const dedupeKeyPrefix = "webhook:msg:"

// RedisDeduper claims message IDs with SET NX under a TTL. Meta redelivers
// within minutes, so a bounded window is enough.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDeduper(client *redis.Client, ttl time.Duration) *RedisDeduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisDeduper{client: client, ttl: ttl}
}

func (d *RedisDeduper) Seen(ctx context.Context, messageID string) (bool, error) {
	claimed, err := d.client.SetNX(ctx, dedupeKeyPrefix+messageID, "1", d.ttl).Result()
	if err != nil {
		return false, err
	}
	return !claimed, nil
}

// NoopDeduper never reports a duplicate; used when Redis is not configured.
type NoopDeduper struct{}

func (NoopDeduper) Seen(context.Context, string) (bool, error) { return false, nil }
