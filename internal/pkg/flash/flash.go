// Package flash keeps validation errors across the redirect of a source page
// outcome. Entries are read once and expire after a TTL.
package flash

import (
	"errors"
	"time"
)

// DefaultTTL is used when a store is built with a non-positive TTL.
const DefaultTTL = 5 * time.Minute

// ErrNotFound indicates a missing, expired or already consumed entry.
var ErrNotFound = errors.New("flash: entry not found")

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
