// internal/app/system/auth/auth.go

// Package auth loads the authenticated user from a Bearer token into the
// request context and gates routes by sign-in state and role.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/httpjson"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/token"
	"github.com/TheTrueCuriousChild/krishiseva/internal/domain/models"
)

// AuthUser is what LoadBearerUser injects into r.Context().
type AuthUser struct {
	ID   string // ObjectID hex of the user record
	Role models.Role
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the context user and whether one was set.
func CurrentUser(r *http.Request) (*AuthUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*AuthUser)
	return u, ok
}

func withUser(r *http.Request, u *AuthUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects a user directly into the request context,
// bypassing token verification. Test helper only.
func WithTestUser(r *http.Request, u *AuthUser) *http.Request {
	return withUser(r, u)
}

// Verifier is satisfied by *token.Issuer.
type Verifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// LoadBearerUser injects the user into context if the request carries a
// valid "Authorization: Bearer <token>" header. Requests without a token
// (or with an invalid one) continue anonymously; RequireSignedIn decides
// whether that matters.
func LoadBearerUser(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := bearerToken(r); raw != "" {
				if claims, err := v.Verify(raw); err == nil {
					r = withUser(r, &AuthUser{ID: claims.Subject, Role: claims.Role})
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSignedIn ensures there is a user in context (set by LoadBearerUser).
// API callers get a 401 envelope, never a redirect.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			httpjson.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole ensures the context user holds one of the allowed roles.
func RequireRole(allowed ...models.Role) func(http.Handler) http.Handler {
	set := make(map[models.Role]struct{}, len(allowed))
	for _, role := range allowed {
		set[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				httpjson.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if _, has := set[u.Role]; !has {
				httpjson.Error(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
