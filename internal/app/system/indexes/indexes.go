// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureFarmerProfiles(ctx, db); err != nil {
		problems = append(problems, "farmer_profiles: "+err.Error())
	}
	if err := ensureLaborerProfiles(ctx, db); err != nil {
		problems = append(problems, "laborer_profiles: "+err.Error())
	}
	if err := ensureRetailerProfiles(ctx, db); err != nil {
		problems = append(problems, "retailer_profiles: "+err.Error())
	}
	if err := ensureAdminProfiles(ctx, db); err != nil {
		problems = append(problems, "admin_profiles: "+err.Error())
	}
	if err := ensureLoginRecords(ctx, db); err != nil {
		problems = append(problems, "login_records: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
	Sparse *bool  `bson:"sparse,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := a != nil && *a
	bv := b != nil && *b
	return av == bv
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func loadExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{} // sig -> index
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			if m.Options.Unique != nil {
				desiredUnique = m.Options.Unique
			}
		}
		desiredSig := keySig(m.Keys.(bson.D))

		start := time.Now()
		existing := loadExisting(ctx, coll)

		if ex, ok := existing[desiredSig]; ok {
			// Same key pattern exists already.
			if sameBoolPtr(desiredUnique, ex.Unique) {
				// Name alignment: drop & recreate under the desired name.
				if desiredName != "" && ex.Name != desiredName {
					if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
						errs = append(errs, fmt.Sprintf("%s(%s): rename drop failed: %v", coll.Name(), desiredName, err))
						continue
					}
					if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
						errs = append(errs, fmt.Sprintf("%s(%s): rename create failed: %v", coll.Name(), desiredName, err))
						continue
					}
					zap.L().Info("index renamed",
						zap.String("collection", coll.Name()),
						zap.String("from", ex.Name),
						zap.String("to", desiredName))
					continue
				}
				// Names aligned → reuse
				continue
			}

			// Options mismatch (e.g., upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
			if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
				if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
					errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
				} else {
					errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				}
				continue
			}
			zap.L().Info("index dropped and recreated",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.String("took", time.Since(start).String()))
			continue
		}

		// No existing index with the same keys: create it.
		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				// An index with these keys appeared under different options;
				// reload, drop the conflicting one and retry once.
				if ex, ok := loadExisting(ctx, coll)[desiredSig]; ok {
					if sameBoolPtr(desiredUnique, ex.Unique) {
						continue
					}
					if _, dropErr := coll.Indexes().DropOne(ctx, ex.Name); dropErr != nil {
						zap.L().Warn("failed to drop conflicting index",
							zap.String("collection", coll.Name()),
							zap.String("name", ex.Name),
							zap.Error(dropErr))
					}
					if _, retryErr := coll.Indexes().CreateOne(ctx, m); retryErr == nil {
						continue
					}
				}
			}
			if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			}
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("users")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Email is optional (laborers may register without one), so the
		// unique index must be sparse or docs with no email would collide.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("uniq_users_email"),
		},
		// Phone is required for everyone and globally unique.
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_phone"),
		},
		// Usernames exist only on admin accounts.
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("uniq_users_username"),
		},
		// Directory lists: filter by role (+status +location), stable tiebreak.
		// Queries without the trailing fields use the prefix.
		{
			Keys: bson.D{
				{Key: "role", Value: 1},
				{Key: "status", Value: 1},
				{Key: "location.state_ci", Value: 1},
				{Key: "location.district_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_users_role_status_location_id"),
		},
		// Name prefix search within a role.
		{
			Keys: bson.D{
				{Key: "role", Value: 1},
				{Key: "full_name_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_users_role_fullnameci_id"),
		},
	})
}

func ensureFarmerProfiles(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("farmer_profiles")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Exactly one profile per user.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_farmer_user"),
		},
		// Nearby-farm queries (advisory, labor matching).
		{
			Keys:    bson.D{{Key: "farm.point", Value: "2dsphere"}},
			Options: options.Index().SetName("idx_farmer_farm_point"),
		},
		{
			Keys:    bson.D{{Key: "crops", Value: 1}},
			Options: options.Index().SetName("idx_farmer_crops"),
		},
	})
}

func ensureLaborerProfiles(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("laborer_profiles")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_laborer_user"),
		},
		{
			Keys:    bson.D{{Key: "skills", Value: 1}, {Key: "available", Value: 1}},
			Options: options.Index().SetName("idx_laborer_skills_available"),
		},
	})
}

func ensureRetailerProfiles(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("retailer_profiles")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_retailer_user"),
		},
		{
			Keys:    bson.D{{Key: "categories", Value: 1}},
			Options: options.Index().SetName("idx_retailer_categories"),
		},
	})
}

func ensureAdminProfiles(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("admin_profiles")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_admin_user"),
		},
	})
}

// Login history powers "recent activity" panels and abuse investigation.
func ensureLoginRecords(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("login_records")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Per-user recent logins (latest-first)
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_logins_user_created"),
		},
		// Site-wide recent logins (latest-first)
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_logins_created"),
		},
	})
}
