package cache

import (
	"context"
	"time"
)

// NullCache discards writes and misses on every read. It is used when
// caching is turned off with --no-cache.
type NullCache struct{}

// NewNullCache returns a NullCache.
func NewNullCache() NullCache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

// DeletePrefix implements [PrefixDeleter].
func (NullCache) DeletePrefix(context.Context, string) (int, error) { return 0, nil }

var (
	_ Cache         = NullCache{}
	_ PrefixDeleter = NullCache{}
)
