// internal/app/features/login/handler.go
package login

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - identifier: The human-readable string users type to log in (email, phone, or admin username)

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/TheTrueCuriousChild/krishiseva/internal/app/features/errors"
	loginstore "github.com/TheTrueCuriousChild/krishiseva/internal/app/store/logins"
	userstore "github.com/TheTrueCuriousChild/krishiseva/internal/app/store/users"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/authutil"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/httpjson"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/normalize"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/ratelimit"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/timeouts"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/token"
	"github.com/TheTrueCuriousChild/krishiseva/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users   *userstore.Store
	Logins  *loginstore.Store
	Tokens  *token.Issuer
	Limiter *ratelimit.LoginLimiter
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(users *userstore.Store, logins *loginstore.Store, tokens *token.Issuer, limiter *ratelimit.LoginLimiter, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:   users,
		Logins:  logins,
		Tokens:  tokens,
		Limiter: limiter,
		ErrLog:  errLog,
		Log:     logger,
	}
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`

	// Older clients send the credential under its own key rather than
	// identifier; any of these works when identifier is absent.
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Username string `json:"username"`
}

// identifierValue returns the identifier, falling back to the legacy keys.
func (req *loginRequest) identifierValue() string {
	for _, v := range []string{req.Identifier, req.Email, req.Phone, req.Username} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

type loginResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// invalidCredentials is deliberately identical for "no such account" and
// "wrong password" so the endpoint can't be used to probe which
// identifiers exist.
const invalidCredentials = "invalid credentials"

// Serve handles POST /api/login.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.DecodeBody(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "login: decode body", err, "invalid JSON body")
		return
	}

	req.Identifier = req.identifierValue()
	if req.Identifier == "" || req.Password == "" {
		httpjson.Error(w, http.StatusBadRequest, "identifier and password are required")
		return
	}

	if allowed, reason := h.Limiter.Check(r, req.Identifier); !allowed {
		httpjson.Error(w, http.StatusTooManyRequests, reason)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.FindByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Burn a bcrypt comparison so a miss costs the same as a
			// wrong password.
			authutil.CheckPassword(req.Password, authutil.DummyHash)
			httpjson.Error(w, http.StatusUnauthorized, invalidCredentials)
			return
		}
		h.ErrLog.LogServerError(w, r, "login: find user", err)
		return
	}

	if !authutil.CheckPassword(req.Password, u.PasswordHash) {
		h.Log.Warn("login failed: wrong password",
			zap.String("user_id", u.ID.Hex()),
			zap.String("ip", ratelimit.ClientIP(r)))
		httpjson.Error(w, http.StatusUnauthorized, invalidCredentials)
		return
	}

	// A suspended or inactive account answers exactly like a bad
	// credential; the real reason only goes to the log.
	if normalize.Status(u.Status) != "active" {
		h.Log.Warn("login rejected for non-active account",
			zap.String("user_id", u.ID.Hex()),
			zap.String("status", u.Status))
		httpjson.Error(w, http.StatusUnauthorized, invalidCredentials)
		return
	}

	tok, err := h.Tokens.Issue(u.ID.Hex(), u.Role)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "login: issue token", err)
		return
	}

	h.Limiter.ResetIdentifier(req.Identifier)

	// Best-effort bookkeeping; a hiccup here must not fail the login.
	if err := h.Users.UpdateLastLogin(ctx, u.ID); err != nil {
		h.Log.Warn("failed to update last_login_at", zap.Error(err), zap.String("user_id", u.ID.Hex()))
	}
	if err := h.Logins.CreateFrom(ctx, r, u.ID); err != nil {
		h.Log.Warn("failed to record login", zap.Error(err), zap.String("user_id", u.ID.Hex()))
	}

	h.Log.Info("user logged in",
		zap.String("user_id", u.ID.Hex()),
		zap.String("role", string(u.Role)))

	httpjson.OKMessage(w, "logged in successfully", loginResponse{
		Token: tok,
		User:  u.PublicProfile(),
	})
}
