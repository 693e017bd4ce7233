package profilestore_test

import (
	"errors"
	"testing"

	profilestore "github.com/TheTrueCuriousChild/krishiseva/internal/app/store/profiles"
	"github.com/TheTrueCuriousChild/krishiseva/internal/domain/models"
	"github.com/TheTrueCuriousChild/krishiseva/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_InsertFarmer_FoldsFarmLocation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, err := store.InsertFarmer(ctx, models.FarmerProfile{
		UserID: primitive.NewObjectID(),
		Farm:   models.Farm{State: "Karnataka", District: "Mandya", AreaAcres: 3},
		Crops:  []string{"ragi"},
	})
	if err != nil {
		t.Fatalf("InsertFarmer failed: %v", err)
	}

	if p.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if p.Farm.StateCI != "karnataka" || p.Farm.DistrictCI != "mandya" {
		t.Errorf("folded farm location not set: %q/%q", p.Farm.StateCI, p.Farm.DistrictCI)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_ByUserID_RoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	inserted, err := store.InsertLaborer(ctx, models.LaborerProfile{
		UserID:    userID,
		Skills:    []string{"harvesting"},
		DailyWage: 500,
		Available: true,
	})
	if err != nil {
		t.Fatalf("InsertLaborer failed: %v", err)
	}

	got, err := store.ByUserID(ctx, models.RoleLaborer, userID)
	if err != nil {
		t.Fatalf("ByUserID failed: %v", err)
	}
	lp, ok := got.(*models.LaborerProfile)
	if !ok {
		t.Fatalf("ByUserID returned %T, want *models.LaborerProfile", got)
	}
	if lp.ID != inserted.ID {
		t.Errorf("profile id: got %s, want %s", lp.ID.Hex(), inserted.ID.Hex())
	}
	if lp.DailyWage != 500 || !lp.Available {
		t.Errorf("unexpected profile contents: %+v", lp)
	}
}

func TestStore_ByUserID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.ByUserID(ctx, models.RoleRetailer, primitive.NewObjectID())
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_UpdateRetailer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	_, err := store.InsertRetailer(ctx, models.RetailerProfile{
		UserID:          userID,
		BusinessName:    "Old Name",
		BusinessAddress: "Old Address",
	})
	if err != nil {
		t.Fatalf("InsertRetailer failed: %v", err)
	}

	err = store.UpdateRetailer(ctx, userID, models.RetailerProfile{
		BusinessName:    "Green Agro Supplies",
		BusinessAddress: "Market Road",
		Categories:      []string{"seeds"},
	})
	if err != nil {
		t.Fatalf("UpdateRetailer failed: %v", err)
	}

	got, err := store.ByUserID(ctx, models.RoleRetailer, userID)
	if err != nil {
		t.Fatalf("ByUserID failed: %v", err)
	}
	rp := got.(*models.RetailerProfile)
	if rp.BusinessName != "Green Agro Supplies" {
		t.Errorf("business name: got %q", rp.BusinessName)
	}
	if len(rp.Categories) != 1 || rp.Categories[0] != "seeds" {
		t.Errorf("categories: got %v", rp.Categories)
	}
}

func TestStore_DeleteByUserID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	if _, err := store.InsertAdmin(ctx, models.AdminProfile{UserID: userID}); err != nil {
		t.Fatalf("InsertAdmin failed: %v", err)
	}

	n, err := store.DeleteByUserID(ctx, models.RoleAdmin, userID)
	if err != nil {
		t.Fatalf("DeleteByUserID failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted count: got %d, want 1", n)
	}

	n, err = store.DeleteByUserID(ctx, models.RoleAdmin, userID)
	if err != nil {
		t.Fatalf("second DeleteByUserID failed: %v", err)
	}
	if n != 0 {
		t.Errorf("second delete count: got %d, want 0", n)
	}
}
