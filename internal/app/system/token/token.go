// internal/app/system/token/token.go

// Package token issues and verifies the stateless JWTs that authenticate
// API requests. A token binds {userId, role} and expires after a
// configurable duration (default 7 days).
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/TheTrueCuriousChild/krishiseva/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultExpiry is used when the issuer is constructed with a zero expiry.
const DefaultExpiry = 7 * 24 * time.Hour

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, wrong algorithm, expired, malformed.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims carried by every KrishiSeva token.
// Subject holds the user's ObjectID hex; Role selects the profile variant.
type Claims struct {
	jwt.RegisteredClaims
	Role models.Role `json:"role"`
}

// Issuer signs and verifies tokens with a shared HMAC secret.
type Issuer struct {
	secret []byte
	expiry time.Duration
	log    *zap.Logger
}

// NewIssuer creates an Issuer. The secret must be non-empty; startup
// validation enforces that before this is reached.
func NewIssuer(secret string, expiry time.Duration, logger *zap.Logger) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("token signing secret is empty")
	}
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Issuer{secret: []byte(secret), expiry: expiry, log: logger}, nil
}

// Expiry returns the configured token lifetime.
func (i *Issuer) Expiry() time.Duration { return i.expiry }

// Issue creates a signed token for the given user id and role.
func (i *Issuer) Issue(userID string, role models.Role) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(i.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		Role: role,
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		i.log.Error("failed to sign token",
			zap.String("user_id", userID),
			zap.Error(err))
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string, returning its claims.
// All failure modes collapse to ErrInvalidToken so callers cannot
// distinguish expired from forged.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		i.log.Debug("token verification failed", zap.Error(err))
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
