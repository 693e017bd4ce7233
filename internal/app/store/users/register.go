// internal/app/store/users/register.go
package userstore

import (
	"context"
	"fmt"

	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/txn"
	"github.com/TheTrueCuriousChild/krishiseva/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// InsertProfileFunc writes the satellite role-profile document for the new
// user and returns its ObjectID. When registration runs inside a
// transaction the ctx is the session context, so the profile write joins
// the same unit as the user insert.
type InsertProfileFunc func(ctx context.Context, userID primitive.ObjectID) (primitive.ObjectID, error)

// CreateWithProfile inserts the user document and its role profile as one
// atomic unit. On deployments with multi-document transactions both writes
// commit or abort together. On standalone servers (no transactions) it
// falls back to sequential writes with a compensating delete: if the
// profile insert fails, the already-written user document is removed so no
// orphan account without a profile survives.
func (s *Store) CreateWithProfile(ctx context.Context, u models.User, insertProfile InsertProfileFunc) (models.User, error) {
	u, err := prepare(u)
	if err != nil {
		return models.User{}, err
	}

	txnErr := txn.WithTransaction(ctx, s.db.Client(), func(sc mongo.SessionContext) error {
		return s.insertPair(sc, &u, insertProfile)
	})
	if txnErr == nil {
		return u, nil
	}
	if !txn.IsNotSupported(txnErr) {
		if wafflemongo.IsDup(txnErr) {
			return models.User{}, ErrDuplicateAccount
		}
		return models.User{}, txnErr
	}

	zap.L().Debug("transactions unavailable, using compensating fallback",
		zap.Error(txnErr))
	if err := s.insertPairCompensating(ctx, &u, insertProfile); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateAccount
		}
		return models.User{}, err
	}
	return u, nil
}

// insertPair writes user + profile + back-reference through one context
// (a session context when transactional).
func (s *Store) insertPair(ctx context.Context, u *models.User, insertProfile InsertProfileFunc) error {
	if _, err := s.c.InsertOne(ctx, *u); err != nil {
		return err
	}
	profileID, err := insertProfile(ctx, u.ID)
	if err != nil {
		return err
	}
	u.ProfileRef = &profileID
	_, err = s.c.UpdateByID(ctx, u.ID, bson.M{"$set": bson.M{"profile_ref": profileID}})
	return err
}

// insertPairCompensating is the non-transactional path. The user document
// lands first; any later failure deletes it again before returning.
func (s *Store) insertPairCompensating(ctx context.Context, u *models.User, insertProfile InsertProfileFunc) error {
	if _, err := s.c.InsertOne(ctx, *u); err != nil {
		return err
	}

	profileID, err := insertProfile(ctx, u.ID)
	if err != nil {
		s.compensate(ctx, u.ID, err)
		return err
	}

	u.ProfileRef = &profileID
	if _, err := s.c.UpdateByID(ctx, u.ID, bson.M{"$set": bson.M{"profile_ref": profileID}}); err != nil {
		// Profile exists but the back-reference failed; remove both halves.
		if _, delErr := s.db.Collection(u.Role.ProfileCollection()).
			DeleteOne(ctx, bson.M{"_id": profileID}); delErr != nil {
			zap.L().Error("failed to delete profile during registration rollback",
				zap.String("user_id", u.ID.Hex()),
				zap.Error(delErr))
		}
		s.compensate(ctx, u.ID, err)
		return err
	}
	return nil
}

func (s *Store) compensate(ctx context.Context, userID primitive.ObjectID, cause error) {
	if _, delErr := s.c.DeleteOne(ctx, bson.M{"_id": userID}); delErr != nil {
		// Worst case: an orphan user document survives. Log loudly with
		// both errors so an operator can clean up.
		zap.L().Error("compensating delete failed; orphan user document remains",
			zap.String("user_id", userID.Hex()),
			zap.NamedError("cause", cause),
			zap.Error(delErr))
		return
	}
	zap.L().Warn(fmt.Sprintf("registration rolled back for user %s", userID.Hex()),
		zap.NamedError("cause", cause))
}
