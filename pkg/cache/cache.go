// Package cache stores computed frames and rendered artifacts.
//
// A layout is a pure function of its document and the frame size, so both
// the frame list and every rendered format can be cached under a key derived
// from a content hash. Three backends implement [Cache]:
//
//   - [NullCache] never stores anything (caching disabled)
//   - [FileCache] writes one JSON entry per key under a directory (CLI)
//   - [RedisCache] shares entries between server instances
//
// Keys are produced by a [Keyer] so that callers never assemble them by hand.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Default lifetimes of cached entries.
const (
	TTLFrames   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// PrefixDeleter is implemented by caches that can evict every key starting
// with a prefix. Keys from a [ScopedKeyer] share its prefix.
type PrefixDeleter interface {
	// DeletePrefix removes the matching keys and returns how many it removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// FramesKeyOpts are the inputs besides the document that change a frame list.
type FramesKeyOpts struct {
	Width    int  `json:"width"`
	Height   int  `json:"height"`
	TabWidth int  `json:"tab_width"`
	Tidy     bool `json:"tidy"`
}

// ArtifactKeyOpts are the render inputs besides the frames.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Labels bool   `json:"labels"`
}

// Keyer derives cache keys.
type Keyer interface {
	// FramesKey identifies the frame list computed from a document hash.
	FramesKey(modelHash string, opts FramesKeyOpts) string

	// ArtifactKey identifies one rendered format of a frame list.
	ArtifactKey(framesHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "frames:<sha>" and "artifact:<sha>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the unscoped keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FramesKey implements [Keyer].
func (DefaultKeyer) FramesKey(modelHash string, opts FramesKeyOpts) string {
	return hashKey("frames", modelHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(framesHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", framesHash, opts)
}

// Describe formats a key for log output, shortening the hash.
func Describe(key string) string {
	if len(key) <= 20 {
		return key
	}
	return fmt.Sprintf("%s…", key[:20])
}
