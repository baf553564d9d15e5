package redisx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// IdempotencyRegistry reserves payment idempotency keys across instances
// before the payment row exists. The database unique index stays the source
// of truth once the payment is committed.
type IdempotencyRegistry struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewIdempotencyRegistry(rdb redis.UniversalClient) *IdempotencyRegistry {
	return &IdempotencyRegistry{rdb: rdb, ttl: TTLIdempotency}
}

// Claim stores key -> paymentID unless the key is taken, and returns the
// payment id that owns the key afterwards.
func (r *IdempotencyRegistry) Claim(ctx context.Context, key string, paymentID uuid.UUID) (uuid.UUID, error) {
	k := fmt.Sprintf(KeyIdemPayment, key)
	ok, err := r.rdb.SetNX(ctx, k, paymentID.String(), r.ttl).Result()
	if err != nil {
		return uuid.Nil, fmt.Errorf("claim %s: %w", k, err)
	}
	if ok {
		return paymentID, nil
	}
	v, err := r.rdb.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		return r.Claim(ctx, key, paymentID)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("read %s: %w", k, err)
	}
	owner, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse owner of %s: %w", k, err)
	}
	return owner, nil
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Release drops the claim if paymentID still owns it.
func (r *IdempotencyRegistry) Release(ctx context.Context, key string, paymentID uuid.UUID) error {
	k := fmt.Sprintf(KeyIdemPayment, key)
	if err := releaseScript.Run(ctx, r.rdb, []string{k}, paymentID.String()).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release %s: %w", k, err)
	}
	return nil
}
