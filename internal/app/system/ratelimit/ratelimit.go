// internal/app/system/ratelimit/ratelimit.go

// Package ratelimit throttles abusive callers with fixed-window counters.
// Login gets a dedicated limiter keyed on both client IP and the account
// identifier being attacked.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter counts requests per key inside a rolling window.
// Safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
	cleanup  time.Duration
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing at most limit requests per duration per key.
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		cleanup:  duration * 2,
	}
	go l.cleanupLoop()
	return l
}

// Allow records one request for key and reports whether it fits the window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, exists := l.windows[key]
	if !exists || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Remaining reports how many requests key has left in the current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, exists := l.windows[key]
	if !exists || time.Now().After(w.expiresAt) {
		return l.limit
	}
	if rem := l.limit - w.count; rem > 0 {
		return rem
	}
	return 0
}

// Reset forgets a key entirely. Called after a successful login so a user
// who finally remembered their password isn't still throttled.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.cleanup)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, w := range l.windows {
			if now.After(w.expiresAt) {
				delete(l.windows, key)
			}
		}
		l.mu.Unlock()
	}
}

// ClientIP extracts the client IP, preferring proxy headers over RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Comma-separated list; the first entry is the original client.
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// LoginLimiter combines an IP limiter and an identifier limiter so that
// neither a single machine hammering many accounts nor many machines
// hammering one account slips through.
type LoginLimiter struct {
	ipLimiter    *Limiter
	identLimiter *Limiter
}

// NewLoginLimiter returns a limiter with defaults suitable for login:
// 10 attempts per IP per minute, 5 attempts per identifier per 5 minutes.
func NewLoginLimiter() *LoginLimiter {
	return NewLoginLimiterWithConfig(10, time.Minute, 5, 5*time.Minute)
}

// NewLoginLimiterWithConfig builds a login limiter with explicit limits.
func NewLoginLimiterWithConfig(ipLimit int, ipWindow time.Duration, identLimit int, identWindow time.Duration) *LoginLimiter {
	return &LoginLimiter{
		ipLimiter:    New(ipLimit, ipWindow),
		identLimiter: New(identLimit, identWindow),
	}
}

// Check records one login attempt from r against identifier and reports
// whether it may proceed, with a user-facing reason when it may not.
func (ll *LoginLimiter) Check(r *http.Request, identifier string) (bool, string) {
	if !ll.ipLimiter.Allow(ClientIP(r)) {
		return false, "too many login attempts; wait a minute and try again"
	}
	if identifier != "" {
		key := strings.ToLower(strings.TrimSpace(identifier))
		if !ll.identLimiter.Allow(key) {
			return false, "too many login attempts for this account; wait a few minutes"
		}
	}
	return true, ""
}

// ResetIdentifier clears the per-account window after a successful login.
func (ll *LoginLimiter) ResetIdentifier(identifier string) {
	if identifier != "" {
		ll.identLimiter.Reset(strings.ToLower(strings.TrimSpace(identifier)))
	}
}
