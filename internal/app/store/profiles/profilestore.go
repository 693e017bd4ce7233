// internal/app/store/profiles/profilestore.go

// Package profilestore manages the satellite role-profile collections.
// Every user document has exactly one companion document here, selected
// by role: farmer_profiles, laborer_profiles, retailer_profiles, or
// admin_profiles.
package profilestore

import (
	"context"
	"errors"
	"time"

	"github.com/TheTrueCuriousChild/krishiseva/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

var errUnknownRole = errors.New("no profile collection for role")

func (s *Store) coll(role models.Role) (*mongo.Collection, error) {
	name := role.ProfileCollection()
	if name == "" {
		return nil, errUnknownRole
	}
	return s.db.Collection(name), nil
}

// InsertFarmer writes a farmer profile. Folded copies of the farm's
// state/district are filled in here so callers can't forget them.
func (s *Store) InsertFarmer(ctx context.Context, p models.FarmerProfile) (models.FarmerProfile, error) {
	p.ID = primitive.NewObjectID()
	p.Farm.StateCI = text.Fold(p.Farm.State)
	p.Farm.DistrictCI = text.Fold(p.Farm.District)
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.db.Collection("farmer_profiles").InsertOne(ctx, p)
	if err != nil {
		return models.FarmerProfile{}, err
	}
	return p, nil
}

// InsertLaborer writes a laborer profile.
func (s *Store) InsertLaborer(ctx context.Context, p models.LaborerProfile) (models.LaborerProfile, error) {
	p.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.db.Collection("laborer_profiles").InsertOne(ctx, p)
	if err != nil {
		return models.LaborerProfile{}, err
	}
	return p, nil
}

// InsertRetailer writes a retailer profile.
func (s *Store) InsertRetailer(ctx context.Context, p models.RetailerProfile) (models.RetailerProfile, error) {
	p.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.db.Collection("retailer_profiles").InsertOne(ctx, p)
	if err != nil {
		return models.RetailerProfile{}, err
	}
	return p, nil
}

// InsertAdmin writes an admin profile.
func (s *Store) InsertAdmin(ctx context.Context, p models.AdminProfile) (models.AdminProfile, error) {
	p.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.db.Collection("admin_profiles").InsertOne(ctx, p)
	if err != nil {
		return models.AdminProfile{}, err
	}
	return p, nil
}

// ByUserID loads the role profile for a user as the concrete model for the
// role. The returned value is one of *models.FarmerProfile,
// *models.LaborerProfile, *models.RetailerProfile, or *models.AdminProfile.
func (s *Store) ByUserID(ctx context.Context, role models.Role, userID primitive.ObjectID) (any, error) {
	c, err := s.coll(role)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"user_id": userID}

	switch role {
	case models.RoleFarmer:
		var p models.FarmerProfile
		if err := c.FindOne(ctx, filter).Decode(&p); err != nil {
			return nil, err
		}
		return &p, nil
	case models.RoleLaborer:
		var p models.LaborerProfile
		if err := c.FindOne(ctx, filter).Decode(&p); err != nil {
			return nil, err
		}
		return &p, nil
	case models.RoleRetailer:
		var p models.RetailerProfile
		if err := c.FindOne(ctx, filter).Decode(&p); err != nil {
			return nil, err
		}
		return &p, nil
	case models.RoleAdmin:
		var p models.AdminProfile
		if err := c.FindOne(ctx, filter).Decode(&p); err != nil {
			return nil, err
		}
		return &p, nil
	}
	return nil, errUnknownRole
}

// UpdateFarmer applies the mutable farmer fields for a profile PUT.
func (s *Store) UpdateFarmer(ctx context.Context, userID primitive.ObjectID, p models.FarmerProfile) error {
	p.Farm.StateCI = text.Fold(p.Farm.State)
	p.Farm.DistrictCI = text.Fold(p.Farm.District)
	set := bson.M{
		"farm":              p.Farm,
		"crops":             p.Crops,
		"irrigation":        p.Irrigation,
		"organic_certified": p.OrganicCertified,
		"updated_at":        time.Now().UTC(),
	}
	_, err := s.db.Collection("farmer_profiles").
		UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": set})
	return err
}

// UpdateLaborer applies the mutable laborer fields.
func (s *Store) UpdateLaborer(ctx context.Context, userID primitive.ObjectID, p models.LaborerProfile) error {
	set := bson.M{
		"skills":         p.Skills,
		"daily_wage":     p.DailyWage,
		"available":      p.Available,
		"work_radius_km": p.WorkRadiusKM,
		"updated_at":     time.Now().UTC(),
	}
	_, err := s.db.Collection("laborer_profiles").
		UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": set})
	return err
}

// UpdateRetailer applies the mutable retailer fields.
func (s *Store) UpdateRetailer(ctx context.Context, userID primitive.ObjectID, p models.RetailerProfile) error {
	set := bson.M{
		"business_name":    p.BusinessName,
		"business_address": p.BusinessAddress,
		"license_no":       p.LicenseNo,
		"gst_no":           p.GSTNo,
		"categories":       p.Categories,
		"updated_at":       time.Now().UTC(),
	}
	_, err := s.db.Collection("retailer_profiles").
		UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": set})
	return err
}

// UpdateAdmin applies the mutable admin fields; only the permissions
// list changes through this path.
func (s *Store) UpdateAdmin(ctx context.Context, userID primitive.ObjectID, p models.AdminProfile) error {
	set := bson.M{
		"permissions": p.Permissions,
		"updated_at":  time.Now().UTC(),
	}
	_, err := s.db.Collection("admin_profiles").
		UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": set})
	return err
}

// DeleteByUserID removes the role profile for a user. Returns the number
// of documents removed (0 or 1).
func (s *Store) DeleteByUserID(ctx context.Context, role models.Role, userID primitive.ObjectID) (int64, error) {
	c, err := s.coll(role)
	if err != nil {
		return 0, err
	}
	res, err := c.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
