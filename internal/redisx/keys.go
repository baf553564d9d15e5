package redisx

import "time"

const (
	// Payment idempotency: idem:payment:{idempotency_key} -> payment_id
	KeyIdemPayment = "idem:payment:%s"

	// Dedup event processing: dedup:{consumer}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLDedup       = 48 * time.Hour
)
