package ratelimit

// NopLimiter admits every request. Installed when rate limiting is disabled
// in config.
type NopLimiter struct{}

// Allow always admits.
func (NopLimiter) Allow(string) bool { return true }

// NewNopLimiter returns a Limiter that admits everything.
func NewNopLimiter() Limiter { return NopLimiter{} }
