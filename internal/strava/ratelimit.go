package strava

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter manages Strava API rate limits
type RateLimiter struct {
	mu sync.Mutex

	// 15-minute window
	shortLimit    int
	shortUsage    int
	shortResetsAt time.Time

	// Daily window
	dailyLimit    int
	dailyUsage    int
	dailyResetsAt time.Time

	// Minimum interval between requests
	minInterval time.Duration
	lastRequest time.Time
}

// Default Strava limits
const (
	DefaultShortLimit  = 100
	DefaultDailyLimit  = 1000
	DefaultMinInterval = 150 * time.Millisecond // ~6.6 req/s max

	shortWindow = 15 * time.Minute
)

// NewRateLimiter creates a new rate limiter with Strava's limits
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithLimits(DefaultShortLimit, DefaultDailyLimit, DefaultMinInterval)
}

// NewRateLimiterWithLimits creates a rate limiter with custom limits.
// Response headers still override the limits once requests are made.
func NewRateLimiterWithLimits(shortLimit, dailyLimit int, minInterval time.Duration) *RateLimiter {
	now := time.Now()
	return &RateLimiter{
		shortLimit:    shortLimit,
		shortResetsAt: now.Add(shortWindow),
		dailyLimit:    dailyLimit,
		dailyResetsAt: nextDailyReset(now),
		minInterval:   minInterval,
	}
}

// nextDailyReset returns the next UTC midnight, when Strava resets daily usage
func nextDailyReset(now time.Time) time.Time {
	return now.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
}

// Wait blocks until a request can be made without exceeding rate limits
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		wait := r.reserve(time.Now())
		r.mu.Unlock()

		if wait <= 0 {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// reserve counts a request and returns 0 if one can be made now, otherwise
// how long to wait before trying again. Callers must hold r.mu.
func (r *RateLimiter) reserve(now time.Time) time.Duration {
	// Reset windows if expired
	if !now.Before(r.shortResetsAt) {
		r.shortUsage = 0
		r.shortResetsAt = now.Add(shortWindow)
	}
	if !now.Before(r.dailyResetsAt) {
		r.dailyUsage = 0
		r.dailyResetsAt = nextDailyReset(now)
	}

	if r.shortUsage >= r.shortLimit {
		return r.shortResetsAt.Sub(now)
	}
	if r.dailyUsage >= r.dailyLimit {
		return r.dailyResetsAt.Sub(now)
	}

	// Enforce minimum interval between requests
	if elapsed := now.Sub(r.lastRequest); elapsed < r.minInterval {
		return r.minInterval - elapsed
	}

	r.shortUsage++
	r.dailyUsage++
	r.lastRequest = now
	return 0
}

// UpdateFromHeaders updates rate limit state from Strava response headers
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Strava returns: X-RateLimit-Limit: "100,1000" and X-RateLimit-Usage: "34,512"
	if usage := h.Get("X-RateLimit-Usage"); usage != "" {
		parts := strings.Split(usage, ",")
		if len(parts) >= 2 {
			if short, err := strconv.Atoi(parts[0]); err == nil {
				r.shortUsage = short
			}
			if daily, err := strconv.Atoi(parts[1]); err == nil {
				r.dailyUsage = daily
			}
		}
	}

	if limit := h.Get("X-RateLimit-Limit"); limit != "" {
		parts := strings.Split(limit, ",")
		if len(parts) >= 2 {
			if short, err := strconv.Atoi(parts[0]); err == nil {
				r.shortLimit = short
			}
			if daily, err := strconv.Atoi(parts[1]); err == nil {
				r.dailyLimit = daily
			}
		}
	}
}

// Status returns current rate limit status
func (r *RateLimiter) Status() (shortRemaining, dailyRemaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shortLimit - r.shortUsage, r.dailyLimit - r.dailyUsage
}

// Usage returns current usage counts
func (r *RateLimiter) Usage() (shortUsage, dailyUsage int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shortUsage, r.dailyUsage
}
