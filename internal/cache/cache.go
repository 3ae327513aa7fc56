package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache provides answer caching for deterministic re-asks.
type Cache interface {
	// GetAnswer retrieves a cached answer by key.
	// Returns nil if not found.
	GetAnswer(ctx context.Context, key string) (*Entry, error)

	// SetAnswer stores an answer with TTL
	SetAnswer(ctx context.Context, key string, entry *Entry, ttl time.Duration) error

	// Close closes the cache connection
	Close() error
}

// Entry represents a cached answer
type Entry struct {
	Answer  string `json:"answer"`
	Backend string `json:"backend"` // which route produced it
}

// GenerateCacheKey derives a stable key from the backend name and question.
func GenerateCacheKey(backend, question string) string {
	sum := sha256.Sum256([]byte(backend + "\x00" + question))
	return hex.EncodeToString(sum[:])
}
