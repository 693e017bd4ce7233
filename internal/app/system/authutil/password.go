// internal/app/system/authutil/password.go

// Package authutil holds password hashing and validation shared by the
// registration and login flows.
package authutil

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost used when Configure is not called.
// bcrypt.DefaultCost (10) keeps hashing under ~100ms on commodity hardware.
const DefaultCost = bcrypt.DefaultCost

var (
	costMu sync.RWMutex
	cost   = DefaultCost
)

// ConfigureCost overrides the bcrypt cost factor at startup. Values outside
// bcrypt's supported range are ignored.
func ConfigureCost(c int) {
	if c < bcrypt.MinCost || c > bcrypt.MaxCost {
		return
	}
	costMu.Lock()
	cost = c
	costMu.Unlock()
}

// HashPassword hashes a plaintext password with bcrypt (salted, adaptive).
// The plaintext is never persisted or logged anywhere.
func HashPassword(plain string) (string, error) {
	costMu.RLock()
	c := cost
	costMu.RUnlock()

	b, err := bcrypt.GenerateFromPassword([]byte(plain), c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// DummyHash is a valid bcrypt hash of a random string nobody knows.
// Login compares against it when the identifier resolves to no account,
// so a miss takes as long as a wrong password and timing can't reveal
// which identifiers exist.
const DummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// PasswordRules returns the human-readable password policy.
func PasswordRules() string {
	return "Password must be at least 6 characters."
}

// ErrPasswordTooShort is returned by ValidatePassword for passwords under
// the minimum length.
var ErrPasswordTooShort = errors.New("password must be at least 6 characters")

// bcrypt silently truncates input beyond 72 bytes; reject instead.
var ErrPasswordTooLong = errors.New("password must be at most 72 characters")

// ValidatePassword checks a candidate password against the policy.
func ValidatePassword(plain string) error {
	if len(plain) < 6 {
		return ErrPasswordTooShort
	}
	if len(plain) > 72 {
		return ErrPasswordTooLong
	}
	return nil
}
