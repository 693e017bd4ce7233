// internal/app/features/register/handler.go
package register

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/TheTrueCuriousChild/krishiseva/internal/app/features/errors"
	profilestore "github.com/TheTrueCuriousChild/krishiseva/internal/app/store/profiles"
	userstore "github.com/TheTrueCuriousChild/krishiseva/internal/app/store/users"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/authutil"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/httpjson"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/inputval"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/normalize"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/timeouts"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/token"
	"github.com/TheTrueCuriousChild/krishiseva/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Users    *userstore.Store
	Profiles *profilestore.Store
	Tokens   *token.Issuer
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, profiles *profilestore.Store, tokens *token.Issuer, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    users,
		Profiles: profiles,
		Tokens:   tokens,
		ErrLog:   errLog,
		Log:      logger,
	}
}

// registerRequest is the POST /api/register payload. The role selects
// which of the role-specific sections is consulted; the others are ignored.
type registerRequest struct {
	FullName string           `json:"full_name"`
	Email    string           `json:"email"`
	Phone    string           `json:"phone"`
	Username string           `json:"username"`
	Password string           `json:"password"`
	Role     string           `json:"role"`
	Location models.Location  `json:"location"`

	// farmer
	Farm       models.Farm `json:"farm"`
	Crops      []string    `json:"crops"`
	Irrigation string      `json:"irrigation"`

	// laborer
	Skills       []string `json:"skills"`
	DailyWage    float64  `json:"daily_wage"`
	WorkRadiusKM float64  `json:"work_radius_km"`

	// retailer
	BusinessName    string   `json:"business_name"`
	BusinessAddress string   `json:"business_address"`
	LicenseNo       string   `json:"license_no"`
	GSTNo           string   `json:"gst_no"`
	Categories      []string `json:"categories"`

	// admin
	Permissions []string `json:"permissions"`
}

// duplicateAccountMsg deliberately never says which field collided, so
// registration can't be used to probe for existing accounts. Duplicates
// answer 400 like any other rejected input.
const duplicateAccountMsg = "an account already exists with that email, phone, or username"

// registerResponse is returned on success alongside a 201.
type registerResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// Serve handles POST /api/register: validate, create user + role profile
// atomically, and hand back a signed token so the client is logged in
// immediately.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.DecodeBody(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "register: decode body", err, "invalid JSON body")
		return
	}

	req.FullName = normalize.Name(req.FullName)
	req.Email = normalize.Email(req.Email)
	req.Phone = normalize.Phone(req.Phone)
	req.Username = normalize.Username(req.Username)

	role, ok := models.ParseRole(normalize.Role(req.Role))
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "invalid role: must be farmer, laborer, retailer, or admin")
		return
	}

	if errs := validate(&req, role); len(errs) > 0 {
		httpjson.ValidationFailed(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Early duplicate check for a friendly message; the unique indexes
	// still backstop races.
	taken, err := h.Users.ExistsAnyIdentifier(ctx, req.Email, req.Phone, req.Username)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "register: duplicate check", err)
		return
	}
	if taken {
		httpjson.Error(w, http.StatusBadRequest, duplicateAccountMsg)
		return
	}

	hash, err := authutil.HashPassword(req.Password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "register: hash password", err)
		return
	}

	user := models.User{
		FullName:     req.FullName,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         role,
		Location:     req.Location,
	}
	if req.Email != "" {
		user.Email = &req.Email
	}
	if req.Username != "" {
		user.Username = &req.Username
	}

	created, err := h.Users.CreateWithProfile(ctx, user, h.insertProfile(role, &req))
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateAccount) {
			httpjson.Error(w, http.StatusBadRequest, duplicateAccountMsg)
			return
		}
		h.ErrLog.LogServerError(w, r, "register: create user", err)
		return
	}

	tok, err := h.Tokens.Issue(created.ID.Hex(), created.Role)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "register: issue token", err)
		return
	}

	h.Log.Info("user registered",
		zap.String("user_id", created.ID.Hex()),
		zap.String("role", string(created.Role)))

	httpjson.CreatedMessage(w, "registered successfully", registerResponse{
		Token: tok,
		User:  created.PublicProfile(),
	})
}

// insertProfile returns the role-specific profile writer passed to the
// store's atomic create.
func (h *Handler) insertProfile(role models.Role, req *registerRequest) userstore.InsertProfileFunc {
	return func(ctx context.Context, userID primitive.ObjectID) (primitive.ObjectID, error) {
		switch role {
		case models.RoleFarmer:
			p, err := h.Profiles.InsertFarmer(ctx, models.FarmerProfile{
				UserID:     userID,
				Farm:       req.Farm,
				Crops:      req.Crops,
				Irrigation: req.Irrigation,
			})
			return p.ID, err
		case models.RoleLaborer:
			p, err := h.Profiles.InsertLaborer(ctx, models.LaborerProfile{
				UserID:       userID,
				Skills:       req.Skills,
				DailyWage:    req.DailyWage,
				Available:    true,
				WorkRadiusKM: req.WorkRadiusKM,
			})
			return p.ID, err
		case models.RoleRetailer:
			p, err := h.Profiles.InsertRetailer(ctx, models.RetailerProfile{
				UserID:          userID,
				BusinessName:    req.BusinessName,
				BusinessAddress: req.BusinessAddress,
				LicenseNo:       req.LicenseNo,
				GSTNo:           req.GSTNo,
				Categories:      req.Categories,
			})
			return p.ID, err
		case models.RoleAdmin:
			p, err := h.Profiles.InsertAdmin(ctx, models.AdminProfile{
				UserID:      userID,
				Permissions: req.Permissions,
			})
			return p.ID, err
		}
		return primitive.NilObjectID, errors.New("unhandled role")
	}
}

// validate collects every field problem rather than stopping at the first,
// so one round-trip tells the client everything to fix.
func validate(req *registerRequest, role models.Role) []httpjson.FieldError {
	var errs []httpjson.FieldError
	add := func(field, msg string) {
		errs = append(errs, httpjson.FieldError{Field: field, Message: msg})
	}

	if req.FullName == "" {
		add("full_name", "full name is required")
	}
	if req.Phone == "" {
		add("phone", "phone is required")
	} else if !inputval.IsValidPhone(req.Phone) {
		add("phone", "phone must be 7-15 digits with an optional leading +")
	}
	if req.Email != "" && !inputval.IsValidEmail(req.Email) {
		add("email", "email address is not valid")
	}
	if err := authutil.ValidatePassword(req.Password); err != nil {
		add("password", err.Error())
	}
	if req.Location.Pincode != "" && !inputval.IsValidPincode(req.Location.Pincode) {
		add("location.pincode", "pincode must be a valid 6-digit postal code")
	}
	if req.Location.Point != nil && !inputval.IsValidCoordinates(req.Location.Point.Coordinates) {
		add("location.coordinates", "coordinates must be [longitude, latitude]")
	}

	switch role {
	case models.RoleFarmer:
		if req.Farm.Point != nil && !inputval.IsValidCoordinates(req.Farm.Point.Coordinates) {
			add("farm.coordinates", "coordinates must be [longitude, latitude]")
		}
	case models.RoleRetailer:
		if req.BusinessName == "" {
			add("business_name", "business name is required for retailers")
		}
		if req.BusinessAddress == "" {
			add("business_address", "business address is required for retailers")
		}
	case models.RoleAdmin:
		if req.Username == "" {
			add("username", "username is required for admin accounts")
		}
		if req.Email == "" {
			add("email", "email is required for admin accounts")
		}
	}

	if req.Username != "" && role != models.RoleAdmin {
		add("username", "only admin accounts may set a username")
	}

	return errs
}
