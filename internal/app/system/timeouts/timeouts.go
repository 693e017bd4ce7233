// internal/app/system/timeouts/timeouts.go

// Package timeouts provides centralized timeout values for handler operations.
//
// Every database call and every external HTTP call in a request handler runs
// under context.WithTimeout using one of these values, so no operation can
// block a request indefinitely.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks and connectivity verification
//   - Short: single-document reads or lookups
//   - Medium: list queries, moderate writes
//   - Long: multi-collection writes (registration transaction), bcrypt work
package timeouts

import (
	"sync"
	"time"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

var mu sync.RWMutex

var (
	ping   = DefaultPing
	short  = DefaultShort
	medium = DefaultMedium
	long   = DefaultLong
)

// Ping returns the timeout for health checks and connectivity verification.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Short returns the timeout for simple operations like single-document reads.
// Examples: get by ID, lookup by email or phone.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return short
}

// Medium returns the timeout for moderate operations like list queries.
// Examples: directory listings, profile updates.
func Medium() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return medium
}

// Long returns the timeout for operations touching multiple collections.
// Examples: the registration transaction (user + role profile + back-link).
func Long() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return long
}

// Config holds timeout configuration values.
// Zero values are ignored (defaults are kept).
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// Configure sets custom timeout values during startup, before handlers are
// registered. Zero values keep the current (or default) values.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Short > 0 {
		short = cfg.Short
	}
	if cfg.Medium > 0 {
		medium = cfg.Medium
	}
	if cfg.Long > 0 {
		long = cfg.Long
	}
}

// Reset restores all timeouts to their default values.
// Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	short = DefaultShort
	medium = DefaultMedium
	long = DefaultLong
}
