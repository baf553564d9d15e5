package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Dedup remembers processed event ids per consumer.
type Dedup struct {
	rdb      redis.UniversalClient
	consumer string
	ttl      time.Duration
}

func NewDedup(rdb redis.UniversalClient, consumer string) *Dedup {
	return &Dedup{rdb: rdb, consumer: consumer, ttl: TTLDedup}
}

// Mark records eventID and reports whether it was seen before.
func (d *Dedup) Mark(ctx context.Context, eventID string) (seen bool, err error) {
	k := fmt.Sprintf(KeyDedup, d.consumer, eventID)
	ok, err := d.rdb.SetNX(ctx, k, 1, d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup %s: %w", k, err)
	}
	return !ok, nil
}

// Forget removes the mark so a redelivery is processed again; called when
// handling failed after Mark.
func (d *Dedup) Forget(ctx context.Context, eventID string) error {
	return d.rdb.Del(ctx, fmt.Sprintf(KeyDedup, d.consumer, eventID)).Err()
}
