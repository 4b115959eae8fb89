package api

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// cacheKey derives a deterministic cache key from the endpoint and the
// parameter set. Parameters are sorted so key derivation is independent
// of insertion order; the endpoint's slashes are flattened so the key
// is safe as a file name.
func cacheKey(endpoint string, params map[string]string) string {
	pairs := make([]string, 0, len(params))
	for k, v := range params {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)

	sum := sha256.Sum256([]byte(endpoint + "?" + strings.Join(pairs, "&")))
	return strings.ReplaceAll(endpoint, "/", "_") + "_" + hex.EncodeToString(sum[:8])
}
