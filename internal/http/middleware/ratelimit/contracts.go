package ratelimit

// Limiter decides whether a client identified by key may make another
// request right now.
type Limiter interface {
	Allow(key string) bool
}
