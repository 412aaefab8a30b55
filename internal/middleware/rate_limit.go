package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/kataras/iris/v12"
)

// TokenBucket is a simple in-process limiter.
type TokenBucket struct {
	capacity   int64
	tokens     int64
	refillRate int64 // tokens added per second
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a bucket that starts full.
func NewTokenBucket(capacity, refillRate int64) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow takes one token if available.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)
	tokensToAdd := int64(elapsed.Seconds()) * tb.refillRate
	if tokensToAdd > 0 {
		tb.tokens = tb.tokens + tokensToAdd
		if tb.tokens > tb.capacity {
			tb.tokens = tb.capacity
		}
		tb.lastRefill = now
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// RateLimit rejects requests with 429 once the bucket is drained.
func RateLimit(bucket *TokenBucket) iris.Handler {
	return func(ctx iris.Context) {
		if !bucket.Allow() {
			ctx.StopWithJSON(http.StatusTooManyRequests, iris.Map{
				"status":     "ERROR",
				"httpStatus": http.StatusText(http.StatusTooManyRequests),
				"timestamp":  time.Now(),
				"error":      "too many requests, please try again later",
			})
			return
		}
		ctx.Next()
	}
}

var loginRateLimiter = NewTokenBucket(20, 10)

// LoginRateLimit throttles the credential endpoints against brute forcing.
func LoginRateLimit() iris.Handler {
	return RateLimit(loginRateLimiter)
}
