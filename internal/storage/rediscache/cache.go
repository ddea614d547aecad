package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// payment_intent:{id} -> order id
const keyPaymentIntent = "idem:payment_intent:%s"

const dialTimeout = 2 * time.Second

// New creates a redis client for addr.
func New(addr string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        addr,
		DB:          db,
		DialTimeout: dialTimeout,
	})
}

// Cache remembers which order a payment intent produced.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache constructs Cache.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Lookup returns the order id recorded for paymentIntentID.
func (c *Cache) Lookup(ctx context.Context, paymentIntentID string) (string, bool, error) {
	orderID, err := c.rdb.Get(ctx, fmt.Sprintf(keyPaymentIntent, paymentIntentID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return orderID, orderID != "", nil
}

// Remember stores paymentIntentID -> orderID for the configured TTL.
func (c *Cache) Remember(ctx context.Context, paymentIntentID, orderID string) error {
	return c.rdb.Set(ctx, fmt.Sprintf(keyPaymentIntent, paymentIntentID), orderID, c.ttl).Err()
}

// Ping checks connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close releases the client.
func (c *Cache) Close() error {
	return c.rdb.Close()
}

// NopCache is used when no redis address is configured. Every lookup misses.
type NopCache struct{}

func (NopCache) Lookup(context.Context, string) (string, bool, error) { return "", false, nil }
func (NopCache) Remember(context.Context, string, string) error       { return nil }
