// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	uierrors "github.com/TheTrueCuriousChild/krishiseva/internal/app/features/errors"
	profilestore "github.com/TheTrueCuriousChild/krishiseva/internal/app/store/profiles"
	userstore "github.com/TheTrueCuriousChild/krishiseva/internal/app/store/users"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/auth"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/httpjson"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/inputval"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/normalize"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/timeouts"
	"github.com/TheTrueCuriousChild/krishiseva/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users    *userstore.Store
	Profiles *profilestore.Store
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, profiles *profilestore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Profiles: profiles, ErrLog: errLog, Log: logger}
}

// profileResponse pairs the account with its role-specific profile.
type profileResponse struct {
	User    models.PublicUser `json:"user"`
	Profile any               `json:"profile,omitempty"`
}

// ServeGet handles GET /api/profile for the signed-in user.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	u, ok := h.loadCurrentUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	prof, err := h.Profiles.ByUserID(ctx, u.Role, u.ID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.LogServerError(w, r, "profile: load role profile", err)
		return
	}

	httpjson.OK(w, profileResponse{User: u.PublicProfile(), Profile: prof})
}

// updateRequest is the PUT /api/profile payload. Everything is optional;
// absent fields stay as they are. Email, phone, role, username, password,
// and verification state are immutable here: if sent they are ignored,
// not rejected.
type updateRequest struct {
	FullName    *string             `json:"full_name"`
	Location    *models.Location    `json:"location"`
	Preferences *models.Preferences `json:"preferences"`

	// Role-specific section, decoded against the caller's role.
	Profile json.RawMessage `json:"profile"`
}

// ServePut handles PUT /api/profile.
func (h *Handler) ServePut(w http.ResponseWriter, r *http.Request) {
	u, ok := h.loadCurrentUser(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := httpjson.DecodeBody(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "profile: decode body", err, "invalid JSON body")
		return
	}

	if errs := validateUpdate(&req); len(errs) > 0 {
		httpjson.ValidationFailed(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := h.Users.UpdateMutable(ctx, u.ID, userstore.ProfileUpdate{
		FullName:    req.FullName,
		Location:    req.Location,
		Preferences: req.Preferences,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile: update user", err)
		return
	}

	if len(req.Profile) > 0 {
		if err := h.updateRoleProfile(ctx, updated.Role, u.ID, req.Profile); err != nil {
			if errors.Is(err, errBadProfileSection) {
				httpjson.Error(w, http.StatusBadRequest, "profile section does not match your role")
				return
			}
			h.ErrLog.LogServerError(w, r, "profile: update role profile", err)
			return
		}
	}

	prof, err := h.Profiles.ByUserID(ctx, updated.Role, updated.ID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.LogServerError(w, r, "profile: reload role profile", err)
		return
	}

	h.Log.Info("profile updated", zap.String("user_id", updated.ID.Hex()))
	httpjson.OKMessage(w, "profile updated", profileResponse{User: updated.PublicProfile(), Profile: prof})
}

var errBadProfileSection = errors.New("profile section does not decode for role")

func (h *Handler) updateRoleProfile(ctx context.Context, role models.Role, userID primitive.ObjectID, raw json.RawMessage) error {
	switch role {
	case models.RoleFarmer:
		var p models.FarmerProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			return errBadProfileSection
		}
		return h.Profiles.UpdateFarmer(ctx, userID, p)
	case models.RoleLaborer:
		var p models.LaborerProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			return errBadProfileSection
		}
		return h.Profiles.UpdateLaborer(ctx, userID, p)
	case models.RoleRetailer:
		var p models.RetailerProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			return errBadProfileSection
		}
		return h.Profiles.UpdateRetailer(ctx, userID, p)
	case models.RoleAdmin:
		var p models.AdminProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			return errBadProfileSection
		}
		return h.Profiles.UpdateAdmin(ctx, userID, p)
	}
	return errBadProfileSection
}

func validateUpdate(req *updateRequest) []httpjson.FieldError {
	var errs []httpjson.FieldError
	add := func(field, msg string) {
		errs = append(errs, httpjson.FieldError{Field: field, Message: msg})
	}

	if req.FullName != nil && normalize.Name(*req.FullName) == "" {
		add("full_name", "full name cannot be blank")
	}
	if req.Location != nil {
		if req.Location.Pincode != "" && !inputval.IsValidPincode(req.Location.Pincode) {
			add("location.pincode", "pincode must be a valid 6-digit postal code")
		}
		if req.Location.Point != nil && !inputval.IsValidCoordinates(req.Location.Point.Coordinates) {
			add("location.coordinates", "coordinates must be [longitude, latitude]")
		}
	}
	return errs
}

// loadCurrentUser resolves the context user to a full account record,
// writing the error response itself when that fails.
func (h *Handler) loadCurrentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	cu, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}

	oid, err := primitive.ObjectIDFromHex(cu.ID)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Token refers to a deleted account.
			h.ErrLog.LogNotFound(w, "account not found")
			return nil, false
		}
		h.ErrLog.LogServerError(w, r, "profile: load user", err)
		return nil, false
	}
	return u, true
}
