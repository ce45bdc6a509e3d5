// Package cache provides the read-through cache used for calendar lookups.
package cache

import (
	"context"
	"time"
)

// Store is a key/value cache holding JSON-encodable values.
type Store interface {
	// Get decodes the value under key into dst. A miss returns false and no error.
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	// Set stores value under key; ttl 0 means the store's default TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

// NopStore is used when caching is disabled: every lookup misses.
type NopStore struct{}

var _ Store = NopStore{}

func (NopStore) Get(context.Context, string, interface{}) (bool, error)           { return false, nil }
func (NopStore) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (NopStore) Delete(context.Context, ...string) error                       { return nil }
func (NopStore) Ping(context.Context) error                                    { return nil }
