package redis

import "fmt"

// Key patterns
const (
	KeyRemoteStats = "visitor:stats:remote:%s" // visitor:stats:remote:2024-01-15
)

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "test" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeyRemoteStats is the cache key for remote aggregates of one day bucket
func (kb *KeyBuilder) KeyRemoteStats(date string) string {
	return kb.BuildKey(fmt.Sprintf(KeyRemoteStats, date))
}
