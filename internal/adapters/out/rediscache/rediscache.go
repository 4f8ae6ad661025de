// Package rediscache keeps serialized shipment views in Redis and drops them
// once a transaction touching the shipment commits.
package rediscache

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "freight:shipment:"

// DefaultTTL bounds how stale an entry may be if an invalidation is lost.
const DefaultTTL = time.Minute

type ShipmentCache struct {
	c      redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

func New(addr string, ttl time.Duration, logger *slog.Logger) *ShipmentCache {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr}), ttl, logger)
}

func NewWithClient(c redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *ShipmentCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ShipmentCache{c: c, ttl: ttl, logger: logger.With("component", "ShipmentCache")}
}

func (r *ShipmentCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.c.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "redis get")
	}
	return val, true, nil
}

func (r *ShipmentCache) Set(ctx context.Context, key string, value []byte) error {
	if err := r.c.Set(ctx, keyPrefix+key, value, r.ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

func (r *ShipmentCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = keyPrefix + k
	}
	if err := r.c.Del(ctx, full...).Err(); err != nil {
		return errors.Wrap(err, "redis del")
	}
	return nil
}

// AfterCommit evicts the views of every shipment the transaction changed.
// A failed eviction is logged; the entry then expires with its TTL.
func (r *ShipmentCache) AfterCommit(ctx context.Context, shipmentIDs []string) {
	if err := r.Delete(context.WithoutCancel(ctx), shipmentIDs...); err != nil {
		r.logger.WarnContext(ctx, "shipment cache invalidation failed", "shipmentIDs", shipmentIDs, "error", err)
	}
}

func (r *ShipmentCache) Ping(ctx context.Context) error {
	return errors.Wrap(r.c.Ping(ctx).Err(), "redis ping")
}

func (r *ShipmentCache) Close() error {
	return r.c.Close()
}
