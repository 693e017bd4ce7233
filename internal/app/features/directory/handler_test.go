package directory

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	uierrors "github.com/TheTrueCuriousChild/krishiseva/internal/app/features/errors"
	userstore "github.com/TheTrueCuriousChild/krishiseva/internal/app/store/users"
	"github.com/TheTrueCuriousChild/krishiseva/internal/domain/models"
	"github.com/TheTrueCuriousChild/krishiseva/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, db *mongo.Database) *Handler {
	t.Helper()
	logger := zap.NewNop()
	return NewHandler(userstore.New(db), uierrors.NewErrorLogger(logger), logger)
}

func list(h *Handler, t *testing.T, query string) *httptest.ResponseRecorder {
	t.Helper()
	r := testutil.NewAuthenticatedRequest(t, "GET", "/api/users?"+query, nil, models.RoleFarmer)
	rec := httptest.NewRecorder()
	h.Serve(rec, r)
	return rec
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) (listResponse, *int) {
	t.Helper()
	env := testutil.DecodeEnvelopeBody(t, rec)
	var data listResponse
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return data, env.Count
}

func TestServe_FilterByRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	fx.CreateFarmer(ctx, "Charlie Farmer", "c@example.com", "+919876500001")
	fx.CreateFarmer(ctx, "Alice Farmer", "a@example.com", "+919876500002")
	fx.CreateRetailer(ctx, "Bob Retailer", "b@example.com", "+919876500003", "Bob Agro Stores")

	rec := list(h, t, "role=farmer")
	testutil.AssertStatus(t, rec, http.StatusOK)

	data, count := decodeList(t, rec)
	if count == nil || *count != 2 {
		t.Fatalf("count = %v, want 2", count)
	}
	if len(data.Users) != 2 {
		t.Fatalf("users = %d, want 2", len(data.Users))
	}
	// Sorted by folded name.
	if data.Users[0].FullName != "Alice Farmer" || data.Users[1].FullName != "Charlie Farmer" {
		t.Errorf("order = [%s, %s]", data.Users[0].FullName, data.Users[1].FullName)
	}
	for _, u := range data.Users {
		if u.Role != models.RoleFarmer {
			t.Errorf("non-farmer %s in role-filtered listing", u.FullName)
		}
	}
}

func TestServe_InvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	for _, q := range []string{"role=middleman", "", "role=admin"} {
		rec := list(h, t, q)
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
		testutil.AssertBodyContains(t, rec, "invalid role")
	}
}

func TestServe_StateFilterIsCaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	fx.CreateFarmer(ctx, "Ravi Kumar", "ravi@example.com", "+919876500001")

	rec := list(h, t, "role=farmer&state=KARNATAKA")
	testutil.AssertStatus(t, rec, http.StatusOK)

	data, _ := decodeList(t, rec)
	if len(data.Users) != 1 {
		t.Errorf("users = %d, want 1 (fixture state is Karnataka)", len(data.Users))
	}
}

func TestServe_KeysetPagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	names := []string{"Anu", "Bina", "Chitra", "Devi", "Esha"}
	for i, name := range names {
		fx.CreateUser(ctx, name, "", fmt.Sprintf("+9198765000%02d", i), models.RoleLaborer)
	}

	rec := list(h, t, "role=laborer&limit=2")
	data, _ := decodeList(t, rec)
	if len(data.Users) != 2 || data.Users[0].FullName != "Anu" || data.Users[1].FullName != "Bina" {
		t.Fatalf("page 1 = %+v", data.Users)
	}
	if !data.Paging.HasNext || data.Paging.Next == "" {
		t.Fatal("page 1 should advertise a next cursor")
	}
	if data.Paging.HasPrev {
		t.Error("page 1 should not have a prev page")
	}

	rec = list(h, t, "role=laborer&limit=2&after="+data.Paging.Next)
	data2, _ := decodeList(t, rec)
	if len(data2.Users) != 2 || data2.Users[0].FullName != "Chitra" || data2.Users[1].FullName != "Devi" {
		t.Fatalf("page 2 = %+v", data2.Users)
	}
	if !data2.Paging.HasNext || !data2.Paging.HasPrev {
		t.Error("middle page should have both neighbours")
	}

	rec = list(h, t, "role=laborer&limit=2&after="+data2.Paging.Next)
	data3, _ := decodeList(t, rec)
	if len(data3.Users) != 1 || data3.Users[0].FullName != "Esha" {
		t.Fatalf("page 3 = %+v", data3.Users)
	}
	if data3.Paging.HasNext {
		t.Error("last page should not advertise a next page")
	}

	// Page back from the middle page's first row.
	rec = list(h, t, "role=laborer&limit=2&before="+data2.Paging.Prev)
	back, _ := decodeList(t, rec)
	if len(back.Users) != 2 || back.Users[0].FullName != "Anu" || back.Users[1].FullName != "Bina" {
		t.Fatalf("backward page = %+v", back.Users)
	}
}

func TestServe_PasswordNeverSerialized(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	testutil.NewFixtures(t, db).CreateFarmer(ctx, "Ravi Kumar", "ravi@example.com", "+919876500001")

	rec := list(h, t, "role=farmer")
	testutil.AssertStatus(t, rec, http.StatusOK)
	body := rec.Body.String()
	if strings.Contains(body, "password") || strings.Contains(body, "$2a$") || strings.Contains(body, "$2b$") {
		t.Error("listing leaked password material")
	}
}
