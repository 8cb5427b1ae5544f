package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKeyBuilder(t *testing.T) {
	tests := []struct {
		name           string
		environment    string
		expectedPrefix string
	}{
		{name: "production", environment: "production", expectedPrefix: "prod"},
		{name: "development", environment: "development", expectedPrefix: "staging"},
		{name: "staging", environment: "staging", expectedPrefix: "staging"},
		{name: "test", environment: "test", expectedPrefix: "staging"},
		{name: "unknown defaults to prod", environment: "whatever", expectedPrefix: "prod"},
		{name: "empty defaults to prod", environment: "", expectedPrefix: "prod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			assert.Equal(t, tt.expectedPrefix, kb.GetPrefix())
		})
	}
}

func TestKeyBuilder_Keys(t *testing.T) {
	kb := NewKeyBuilder("production")

	assert.Equal(t, "prod:custom", kb.BuildKey("custom"))
	assert.Equal(t, "prod:visitor:stats:remote:2024-01-15", kb.KeyRemoteStats("2024-01-15"))
}
