package api

import (
	"time"

	"github.com/platefulapp/plateful-server/internal/ratelimit"
)

// RateLimiter wraps KeyedRateLimiter for API use.
type RateLimiter = ratelimit.KeyedRateLimiter

// NewRateLimiter creates a new rate limiter.
// rate: number of requests allowed per interval
// interval: time period for rate (e.g., time.Minute)
// burst: maximum burst size
func NewRateLimiter(ratePerInterval int, interval time.Duration, burst int) *RateLimiter {
	// For example: 10 per minute = 10/60 = 0.167 rps
	rps := float64(ratePerInterval) / interval.Seconds()
	return ratelimit.New(rps, burst)
}

// clientIP extracts the client IP for rate limit keying.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to a
// shared key, matching how the router's RealIP middleware resolves addresses.
func clientIP(xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		// Take first IP in the chain.
		for i := 0; i < len(xForwardedFor); i++ {
			if xForwardedFor[i] == ',' {
				return xForwardedFor[:i]
			}
		}
		return xForwardedFor
	}

	if xRealIP != "" {
		return xRealIP
	}

	return "local"
}
