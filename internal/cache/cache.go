package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the storage contract shared by the memory, disk and layered
// implementations.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CompletionKey generates a cache key for a model completion. The prompt
// is hashed so the key stays filesystem-safe regardless of document size.
func CompletionKey(model, prompt string) string {
	return hashKey("completion", model, prompt)
}

// EmbeddingKey generates a cache key for an embedded text.
func EmbeddingKey(model, text string) string {
	return hashKey("embedding", model, text)
}

func hashKey(kind, model, payload string) string {
	hash := sha256.Sum256([]byte(model + "\x00" + payload))
	return "relbench:v1:" + kind + ":" + hex.EncodeToString(hash[:])
}
