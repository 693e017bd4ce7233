package profile

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/TheTrueCuriousChild/krishiseva/internal/app/features/errors"
	profilestore "github.com/TheTrueCuriousChild/krishiseva/internal/app/store/profiles"
	userstore "github.com/TheTrueCuriousChild/krishiseva/internal/app/store/users"
	"github.com/TheTrueCuriousChild/krishiseva/internal/domain/models"
	"github.com/TheTrueCuriousChild/krishiseva/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, db *mongo.Database) *Handler {
	t.Helper()
	logger := zap.NewNop()
	return NewHandler(userstore.New(db), profilestore.New(db), uierrors.NewErrorLogger(logger), logger)
}

type decodedProfile struct {
	User    models.PublicUser `json:"user"`
	Profile json.RawMessage   `json:"profile"`
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) decodedProfile {
	t.Helper()
	env := testutil.DecodeEnvelopeBody(t, rec)
	var data decodedProfile
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return data
}

func TestServeGet_ReturnsUserAndRoleProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	user, prof := testutil.NewFixtures(t, db).CreateFarmer(ctx, "Ravi Kumar", "ravi@example.com", "+919876543210")

	r := testutil.NewJSONRequest(t, "GET", "/api/profile", nil)
	r = testutil.WithUser(r, user.ID.Hex(), models.RoleFarmer)
	rec := httptest.NewRecorder()
	h.ServeGet(rec, r)

	testutil.AssertStatus(t, rec, http.StatusOK)
	data := decodeData(t, rec)
	if data.User.ID != user.ID.Hex() {
		t.Errorf("user id = %s, want %s", data.User.ID, user.ID.Hex())
	}

	var got models.FarmerProfile
	if err := json.Unmarshal(data.Profile, &got); err != nil {
		t.Fatalf("decode farmer profile: %v", err)
	}
	if got.ID != prof.ID || got.Irrigation != "canal" {
		t.Errorf("profile = %+v, want fixture farmer profile", got)
	}
}

func TestServeGet_NoContextUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	r := testutil.NewJSONRequest(t, "GET", "/api/profile", nil)
	rec := httptest.NewRecorder()
	h.ServeGet(rec, r)

	testutil.AssertStatus(t, rec, http.StatusUnauthorized)
}

func TestServeGet_DeletedAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	r := testutil.NewJSONRequest(t, "GET", "/api/profile", nil)
	r = testutil.WithUser(r, primitive.NewObjectID().Hex(), models.RoleFarmer)
	rec := httptest.NewRecorder()
	h.ServeGet(rec, r)

	testutil.AssertStatus(t, rec, http.StatusNotFound)
}

func TestServePut_UpdatesMutableFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	user, _ := testutil.NewFixtures(t, db).CreateFarmer(ctx, "Ravi Kumar", "ravi@example.com", "+919876543210")

	r := testutil.NewJSONRequest(t, "PUT", "/api/profile", map[string]any{
		"full_name": "Ravi K Kumar",
		"location": map[string]any{
			"state":    "Tamil Nadu",
			"district": "Erode",
			"pincode":  "638001",
		},
		// Immutable; silently ignored rather than rejected.
		"phone": "+910000000000",
		"role":  "admin",
	})
	r = testutil.WithUser(r, user.ID.Hex(), models.RoleFarmer)
	rec := httptest.NewRecorder()
	h.ServePut(rec, r)

	testutil.AssertStatus(t, rec, http.StatusOK)
	data := decodeData(t, rec)
	if data.User.FullName != "Ravi K Kumar" {
		t.Errorf("full_name = %q, want updated", data.User.FullName)
	}
	if data.User.Location.District != "Erode" {
		t.Errorf("district = %q, want Erode", data.User.Location.District)
	}
	if data.User.Phone != "+919876543210" {
		t.Errorf("phone changed to %q; it must be immutable", data.User.Phone)
	}
	if data.User.Role != models.RoleFarmer {
		t.Errorf("role changed to %q; it must be immutable", data.User.Role)
	}
}

func TestServePut_UpdatesRoleProfileSection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	user, _ := testutil.NewFixtures(t, db).CreateFarmer(ctx, "Ravi Kumar", "ravi@example.com", "+919876543210")

	r := testutil.NewJSONRequest(t, "PUT", "/api/profile", map[string]any{
		"profile": map[string]any{
			"crops":      []string{"paddy", "banana"},
			"irrigation": "drip",
		},
	})
	r = testutil.WithUser(r, user.ID.Hex(), models.RoleFarmer)
	rec := httptest.NewRecorder()
	h.ServePut(rec, r)

	testutil.AssertStatus(t, rec, http.StatusOK)
	data := decodeData(t, rec)

	var got models.FarmerProfile
	if err := json.Unmarshal(data.Profile, &got); err != nil {
		t.Fatalf("decode farmer profile: %v", err)
	}
	if got.Irrigation != "drip" || len(got.Crops) != 2 {
		t.Errorf("profile section was not applied: %+v", got)
	}
}

func TestServePut_EmailIsImmutable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	user, _ := testutil.NewFixtures(t, db).CreateFarmer(ctx, "Ravi Kumar", "ravi@example.com", "+919876543210")

	r := testutil.NewJSONRequest(t, "PUT", "/api/profile", map[string]any{
		"email": "hijack@example.com",
	})
	r = testutil.WithUser(r, user.ID.Hex(), models.RoleFarmer)
	rec := httptest.NewRecorder()
	h.ServePut(rec, r)

	testutil.AssertStatus(t, rec, http.StatusOK)
	data := decodeData(t, rec)
	if data.User.Email != "ravi@example.com" {
		t.Errorf("email changed to %q; it must be immutable", data.User.Email)
	}
}

func TestServePut_MalformedProfileSection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	user, _ := testutil.NewFixtures(t, db).CreateFarmer(ctx, "Ravi Kumar", "ravi@example.com", "+919876543210")

	r := testutil.NewJSONRequest(t, "PUT", "/api/profile", map[string]any{
		"profile": []string{"not", "an", "object"},
	})
	r = testutil.WithUser(r, user.ID.Hex(), models.RoleFarmer)
	rec := httptest.NewRecorder()
	h.ServePut(rec, r)

	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}
