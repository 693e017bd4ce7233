package indexes_test

import (
	"testing"

	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/indexes"
	"github.com/TheTrueCuriousChild/krishiseva/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// EnsureAll should succeed on a clean database
	err := indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// First call
	err := indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}

	// Second call should also succeed (idempotent)
	err = indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesUserIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	cur, err := db.Collection("users").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}

	expected := []string{
		"uniq_users_email",
		"uniq_users_phone",
		"uniq_users_username",
		"idx_users_role_status_location_id",
		"idx_users_role_fullnameci_id",
	}

	for _, name := range expected {
		if !names[name] {
			t.Errorf("expected index %q to exist on users collection", name)
		}
	}
}

func TestEnsureAll_CreatesProfileIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	tests := []struct {
		collection string
		expected   []string
	}{
		{"farmer_profiles", []string{"uniq_farmer_user", "idx_farmer_farm_point", "idx_farmer_crops"}},
		{"laborer_profiles", []string{"uniq_laborer_user", "idx_laborer_skills_available"}},
		{"retailer_profiles", []string{"uniq_retailer_user", "idx_retailer_categories"}},
		{"admin_profiles", []string{"uniq_admin_user"}},
	}

	for _, tt := range tests {
		t.Run(tt.collection, func(t *testing.T) {
			cur, err := db.Collection(tt.collection).Indexes().List(ctx)
			if err != nil {
				t.Fatalf("List indexes failed: %v", err)
			}
			defer cur.Close(ctx)

			names := make(map[string]bool)
			for cur.Next(ctx) {
				var idx bson.M
				if err := cur.Decode(&idx); err != nil {
					continue
				}
				if name, ok := idx["name"].(string); ok {
					names[name] = true
				}
			}

			for _, name := range tt.expected {
				if !names[name] {
					t.Errorf("expected index %q to exist on %s collection", name, tt.collection)
				}
			}
		})
	}
}

func TestEnsureAll_CreatesLoginRecordIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	cur, err := db.Collection("login_records").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}

	expected := []string{
		"idx_logins_user_created",
		"idx_logins_created",
	}

	for _, name := range expected {
		if !names[name] {
			t.Errorf("expected index %q to exist on login_records collection", name)
		}
	}
}

func TestEnsureAll_UniqueIndexEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err = db.Collection("users").InsertOne(ctx, bson.M{"phone": "919876543210", "full_name": "First"})
	if err != nil {
		t.Fatalf("Insert user failed: %v", err)
	}

	// Same phone again must be rejected by uniq_users_phone.
	_, err = db.Collection("users").InsertOne(ctx, bson.M{"phone": "919876543210", "full_name": "Second"})
	if err == nil {
		t.Error("expected duplicate key error for unique index on users.phone")
	}
}

func TestEnsureAll_SparseEmailAllowsMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Two users without email must both insert: the email index is sparse.
	_, err = db.Collection("users").InsertOne(ctx, bson.M{"phone": "911111111111", "full_name": "A"})
	if err != nil {
		t.Fatalf("Insert first emailless user failed: %v", err)
	}
	_, err = db.Collection("users").InsertOne(ctx, bson.M{"phone": "912222222222", "full_name": "B"})
	if err != nil {
		t.Errorf("Insert second emailless user failed: %v", err)
	}
}
