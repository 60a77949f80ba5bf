package redisx

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// New creates a redis client for the given address.
func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// PaymentCache is the idempotency fast path for payment ingestion.
type PaymentCache struct {
	rdb *redis.Client
}

// NewPaymentCache creates new PaymentCache instance
func NewPaymentCache(rdb *redis.Client) *PaymentCache {
	return &PaymentCache{rdb: rdb}
}

// Get returns the cached order id for a payment id.
func (c *PaymentCache) Get(ctx context.Context, paymentID string) (string, bool) {
	val, err := c.rdb.Get(ctx, fmt.Sprintf(KeyIdemPayment, paymentID)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set caches the order id materialized for a payment id.
func (c *PaymentCache) Set(ctx context.Context, paymentID, orderID string) {
	c.rdb.Set(ctx, fmt.Sprintf(KeyIdemPayment, paymentID), orderID, TTLIdempotency)
}

// UnreadCache caches per-user unread badge counts.
type UnreadCache struct {
	rdb *redis.Client
}

// NewUnreadCache creates new UnreadCache instance
func NewUnreadCache(rdb *redis.Client) *UnreadCache {
	return &UnreadCache{rdb: rdb}
}

// Get returns the cached unread count, if present.
func (c *UnreadCache) Get(ctx context.Context, orderID, userID string) (int, bool) {
	val, err := c.rdb.Get(ctx, fmt.Sprintf(KeyUnread, orderID, userID)).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Set caches the unread count.
func (c *UnreadCache) Set(ctx context.Context, orderID, userID string, count int) {
	c.rdb.Set(ctx, fmt.Sprintf(KeyUnread, orderID, userID), strconv.Itoa(count), TTLUnread)
}

// Invalidate drops the cached count after reads are marked.
func (c *UnreadCache) Invalidate(ctx context.Context, orderID, userID string) {
	c.rdb.Del(ctx, fmt.Sprintf(KeyUnread, orderID, userID))
}

// InvalidateOrder drops every user's cached count for the order, used when a
// new message lands.
func (c *UnreadCache) InvalidateOrder(ctx context.Context, orderID string) {
	iter := c.rdb.Scan(ctx, 0, fmt.Sprintf(KeyUnread, orderID, "*"), 0).Iterator()
	for iter.Next(ctx) {
		c.rdb.Del(ctx, iter.Val())
	}
}
