// internal/app/store/logins/loginstore.go
package loginstore

import (
	"context"
	"net/http"
	"time"

	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/ratelimit"
	"github.com/TheTrueCuriousChild/krishiseva/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("login_records")}
}

// Create inserts a LoginRecord. If CreatedAt is zero, it's set to time.Now().UTC().
func (s *Store) Create(ctx context.Context, rec models.LoginRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, rec)
	return err
}

// CreateFrom builds a LoginRecord from the HTTP request and inserts it,
// capturing client IP and user agent for the audit trail.
func (s *Store) CreateFrom(ctx context.Context, r *http.Request, userID primitive.ObjectID) error {
	rec := models.LoginRecord{
		UserID:    userID,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.c.InsertOne(ctx, rec)
	return err
}

// RecentForUser returns up to limit login records for a user, newest first.
func (s *Store) RecentForUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.LoginRecord, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []models.LoginRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
