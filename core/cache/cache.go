// Package cache provides the durable cache used in front of the upstream
// fetch, with a pluggable per-entry expiry policy and coalescing of
// concurrent misses.
package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vlo-krakow/timetable/core/logger"
)

// Store persists cache entries. A ttl that is zero or negative means the
// entry never expires. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// LoadFunc computes the value for a missing key.
type LoadFunc func(ctx context.Context) ([]byte, error)

// Durable wraps a Store with miss coalescing: at most one load runs per key
// at a time, and concurrent callers for that key share its result.
type Durable struct {
	store Store
	log   logger.Logger
	group singleflight.Group
}

// NewDurable creates a Durable cache over the given store.
func NewDurable(store Store, log logger.Logger) *Durable {
	return &Durable{store: store, log: log}
}

// Get returns the cached value for key, or runs load and stores its result
// with the given ttl. Store failures degrade to a plain load; they never fail
// the request.
func (d *Durable) Get(ctx context.Context, key string, ttl time.Duration, load LoadFunc) ([]byte, error) {
	if value, ok := d.lookup(ctx, key); ok {
		return value, nil
	}
	v, err, _ := d.group.Do(key, func() (any, error) {
		// A caller that queued behind an in-flight load may find the value
		// already stored.
		if value, ok := d.lookup(ctx, key); ok {
			return value, nil
		}
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := d.store.Put(ctx, key, value, ttl); err != nil {
			d.log.Warnf("cache put %s: %v", key, err)
		}
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate drops the entry for key.
func (d *Durable) Invalidate(ctx context.Context, key string) error {
	return d.store.Invalidate(ctx, key)
}

func (d *Durable) lookup(ctx context.Context, key string) ([]byte, bool) {
	value, ok, err := d.store.Get(ctx, key)
	if err != nil {
		d.log.Warnf("cache get %s: %v", key, err)
		return nil, false
	}
	return value, ok
}
