package redisx

import "time"

const (
	// Idempotency fast path for payment ingestion: idem:payment:{payment_id} -> order_id.
	// Authority is always the unique constraint in postgres; this only
	// short-circuits repeat deliveries.
	KeyIdemPayment = "idem:payment:%s"

	// Unread badge cache: unread:{order_id}:{user_id} -> count
	KeyUnread = "unread:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLUnread      = 5 * time.Minute
)
