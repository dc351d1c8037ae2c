// Package cache provides content-addressed caching of compiled netlists.
// Compilation is deterministic, so a netlist can be cached forever under the
// hash of the manifest that produced it. Backends cover local CLI usage
// (files), shared deployments (Redis), and disabled caching (null).
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys for the artifacts the compiler produces.
type Keyer interface {
	// NetlistKey returns the key under which the netlist compiled from the
	// manifest with the given content hash is stored.
	NetlistKey(manifestHash string) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// NetlistKey generates a key for a compiled netlist.
func (DefaultKeyer) NetlistKey(manifestHash string) string {
	return "netlist:" + manifestHash
}
