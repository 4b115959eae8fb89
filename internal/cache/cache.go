// Package cache stores raw API response payloads under deterministic
// keys with a TTL, so repeated calls within the window skip the network.
package cache

// Cache is the response cache consumed by the API client. A miss and an
// expired entry are indistinguishable. Implementations tolerate backend
// failures by reporting a miss.
type Cache interface {
	// Get returns the payload stored under key, if present and fresh.
	Get(key string) ([]byte, bool)
	// Set stores the payload under key, replacing any previous entry.
	Set(key string, payload []byte)
}
