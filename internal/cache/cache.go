// Package cache stores raw oracle responses keyed by prompt hash.
// Validation prompts run at temperature zero, so a cached response is as
// good as a fresh one; re-running a document pair skips every oracle call
// that already succeeded.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for response caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from the parts that make a request unique
// (provider, model, prompt). Parts are hashed together, never stored.
func Key(parts ...string) string {
	h := sha256.New()
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return "dsscheck:v1:" + hex.EncodeToString(h.Sum(nil))
}
