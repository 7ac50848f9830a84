package config

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/danmuck/devkit/internal/tools"
)

// ExecutorOptions maps the server settings onto tool executor options.
func (c ServerConfig) ExecutorOptions() []tools.ExecutorOption {
	return []tools.ExecutorOption{
		tools.WithMaxInputBytes(c.MaxInputBytes),
	}
}

// Enabled reports whether the global rate limiter should be installed.
func (r RateLimitConfig) Enabled() bool {
	return r.RequestsPerSecond > 0
}

// Limiter builds the token bucket, or nil when limiting is disabled.
func (r RateLimitConfig) Limiter() *rate.Limiter {
	if !r.Enabled() {
		return nil
	}
	return rate.NewLimiter(rate.Limit(r.RequestsPerSecond), r.Burst)
}

// ShutdownDeadline falls back to five seconds when unset.
func (c ServerConfig) ShutdownDeadline() time.Duration {
	if c.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return c.ShutdownTimeout
}
