// internal/testutil/db.go
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultTestMongoURI is used when KRISHISEVA_TEST_MONGO_URI is unset.
const DefaultTestMongoURI = "mongodb://localhost:27017"

// TestContext returns a context with a generous timeout for DB-backed tests.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// SetupTestDB connects to the test Mongo server and returns a fresh,
// uniquely named database that is dropped when the test finishes.
// Tests are skipped (not failed) when no server is reachable, so the
// suite passes on machines without a local Mongo.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("KRISHISEVA_TEST_MONGO_URI")
	if uri == "" {
		uri = DefaultTestMongoURI
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("skipping: cannot connect to test mongo at %s: %v", uri, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Skipf("skipping: test mongo at %s not reachable: %v", uri, err)
	}

	dbName := fmt.Sprintf("krishiseva_test_%s", primitive.NewObjectID().Hex())
	db := client.Database(dbName)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("failed to drop test database %s: %v", dbName, err)
		}
		_ = client.Disconnect(ctx)
	})

	return db
}
