// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/TheTrueCuriousChild/krishiseva/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// TestPassword is the plaintext behind every fixture user's hash.
const TestPassword = "secret123"

// testHash is computed once; bcrypt at default cost is slow enough to
// matter when fixtures create many users.
var testHash []byte

func passwordHash(t *testing.T) string {
	t.Helper()
	if testHash == nil {
		h, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("failed to hash fixture password: %v", err)
		}
		testHash = h
	}
	return string(testHash)
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user document only (no role profile).
// email may be empty; phone must be unique across the fixture set.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, phone string, role models.Role) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		Phone:        phone,
		PasswordHash: passwordHash(f.t),
		Role:         role,
		Status:       "active",
		Location: models.Location{
			State:      "Karnataka",
			StateCI:    text.Fold("Karnataka"),
			District:   "Mandya",
			DistrictCI: text.Fold("Mandya"),
			Village:    "Testhalli",
			Pincode:    "571401",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if email != "" {
		user.Email = &email
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateFarmer inserts a farmer user plus its farmer_profiles document,
// linked both ways like the registration flow leaves them.
func (f *Fixtures) CreateFarmer(ctx context.Context, fullName, email, phone string) (models.User, models.FarmerProfile) {
	f.t.Helper()

	user := f.CreateUser(ctx, fullName, email, phone, models.RoleFarmer)
	now := time.Now().UTC()
	profile := models.FarmerProfile{
		ID:     primitive.NewObjectID(),
		UserID: user.ID,
		Farm: models.Farm{
			Address:    "12 Canal Road",
			State:      user.Location.State,
			StateCI:    user.Location.StateCI,
			District:   user.Location.District,
			DistrictCI: user.Location.DistrictCI,
			AreaAcres:  2.5,
		},
		Crops:      []string{"ragi", "sugarcane"},
		Irrigation: "canal",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("farmer_profiles").InsertOne(ctx, profile); err != nil {
		f.t.Fatalf("failed to create farmer profile: %v", err)
	}
	f.linkProfile(ctx, user.ID, profile.ID)
	return user, profile
}

// CreateLaborer inserts a laborer user plus its laborer_profiles document.
func (f *Fixtures) CreateLaborer(ctx context.Context, fullName, phone string) (models.User, models.LaborerProfile) {
	f.t.Helper()

	user := f.CreateUser(ctx, fullName, "", phone, models.RoleLaborer)
	now := time.Now().UTC()
	profile := models.LaborerProfile{
		ID:           primitive.NewObjectID(),
		UserID:       user.ID,
		Skills:       []string{"harvesting", "sowing"},
		DailyWage:    450,
		Available:    true,
		WorkRadiusKM: 15,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("laborer_profiles").InsertOne(ctx, profile); err != nil {
		f.t.Fatalf("failed to create laborer profile: %v", err)
	}
	f.linkProfile(ctx, user.ID, profile.ID)
	return user, profile
}

// CreateRetailer inserts a retailer user plus its retailer_profiles document.
func (f *Fixtures) CreateRetailer(ctx context.Context, fullName, email, phone, businessName string) (models.User, models.RetailerProfile) {
	f.t.Helper()

	user := f.CreateUser(ctx, fullName, email, phone, models.RoleRetailer)
	now := time.Now().UTC()
	profile := models.RetailerProfile{
		ID:              primitive.NewObjectID(),
		UserID:          user.ID,
		BusinessName:    businessName,
		BusinessAddress: "Main Bazaar, Mandya",
		Categories:      []string{"seeds", "fertilizer"},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := f.db.Collection("retailer_profiles").InsertOne(ctx, profile); err != nil {
		f.t.Fatalf("failed to create retailer profile: %v", err)
	}
	f.linkProfile(ctx, user.ID, profile.ID)
	return user, profile
}

// CreateAdmin inserts an admin user (with username) plus its admin_profiles
// document.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email, phone, username string) (models.User, models.AdminProfile) {
	f.t.Helper()

	user := f.CreateUser(ctx, fullName, email, phone, models.RoleAdmin)
	user.Username = &username
	if _, err := f.db.Collection("users").UpdateByID(ctx, user.ID,
		map[string]any{"$set": map[string]any{"username": username}}); err != nil {
		f.t.Fatalf("failed to set admin username: %v", err)
	}

	now := time.Now().UTC()
	profile := models.AdminProfile{
		ID:          primitive.NewObjectID(),
		UserID:      user.ID,
		Permissions: []string{"users:read", "users:write"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("admin_profiles").InsertOne(ctx, profile); err != nil {
		f.t.Fatalf("failed to create admin profile: %v", err)
	}
	f.linkProfile(ctx, user.ID, profile.ID)
	return user, profile
}

func (f *Fixtures) linkProfile(ctx context.Context, userID, profileID primitive.ObjectID) {
	f.t.Helper()
	_, err := f.db.Collection("users").UpdateByID(ctx, userID,
		map[string]any{"$set": map[string]any{"profile_ref": profileID}})
	if err != nil {
		f.t.Fatalf("failed to link profile to user: %v", err)
	}
}
