package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey builds a cache key from a prefix ("scene", "artifact") and the
// inputs that determine the cached value: the sequence hash plus the layout
// and render options. The parts are JSON-encoded and hashed so any option
// change produces a distinct key.
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the full SHA-256 hex digest of data. Sequence hashes and
// file cache shard paths both use it; the full 64 chars are kept so keys
// never collide across traces.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
