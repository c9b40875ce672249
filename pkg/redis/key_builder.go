package redis

import "fmt"

// KeyBuilder prefixes cache keys with the deployment environment so that
// staging and production can share a Redis instance without collisions
type KeyBuilder struct {
	environment string
}

// NewKeyBuilder creates a key builder for the given environment
func NewKeyBuilder(environment string) *KeyBuilder {
	if environment == "" {
		environment = "development"
	}
	return &KeyBuilder{environment: environment}
}

// Build formats a key pattern with args and applies the environment prefix
func (kb *KeyBuilder) Build(pattern string, args ...interface{}) string {
	key := pattern
	if len(args) > 0 {
		key = fmt.Sprintf(pattern, args...)
	}
	return fmt.Sprintf("%s:%s", kb.environment, key)
}

// UserBySub returns the cache key for a user projection keyed by cognito sub
func (kb *KeyBuilder) UserBySub(sub string) string {
	return kb.Build(KeyUserBySub, sub)
}
