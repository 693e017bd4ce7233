// internal/app/store/users/userstore.go
package userstore

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - identifier: The human-readable string users type to log in (email, phone, or admin username)

import (
	"context"
	"errors"
	"time"

	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/normalize"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/paging"
	"github.com/TheTrueCuriousChild/krishiseva/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	db *mongo.Database
	c  *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{db: db, c: db.Collection("users")}
}

var (
	// ErrDuplicateAccount is returned when the email, phone, or username is
	// already taken by another account.
	ErrDuplicateAccount = errors.New("an account with this email, phone, or username already exists")
	errBadRole          = errors.New(`role must be "farmer"|"laborer"|"retailer"|"admin"`)
	errUsernameRole     = errors.New("only admin accounts carry a username")
	errPhoneNeeded      = errors.New("phone is required")
)

// prepare normalizes and validates a user for insertion, assigning the ID
// and timestamps. Shared by Create and CreateWithProfile.
func prepare(u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Phone = normalize.Phone(u.Phone)
	if u.Email != nil {
		e := normalize.Email(*u.Email)
		if e == "" {
			u.Email = nil
		} else {
			u.Email = &e
		}
	}
	if u.Username != nil {
		un := normalize.Username(*u.Username)
		if un == "" {
			u.Username = nil
		} else {
			u.Username = &un
		}
	}
	if u.Status == "" {
		u.Status = "active"
	}
	u.Location.StateCI = text.Fold(u.Location.State)
	u.Location.DistrictCI = text.Fold(u.Location.District)

	if _, ok := models.ParseRole(string(u.Role)); !ok {
		return models.User{}, errBadRole
	}
	if u.Username != nil && u.Role != models.RoleAdmin {
		return models.User{}, errUsernameRole
	}
	if u.Phone == "" {
		return models.User{}, errPhoneNeeded
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	return u, nil
}

// Create inserts a user document only. Registration should go through
// CreateWithProfile so the satellite profile is written in the same unit.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u, err := prepare(u)
	if err != nil {
		return models.User{}, err
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateAccount
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID loads a user by ObjectID. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by normalized email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByPhone looks up a user by normalized phone.
func (s *Store) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"phone": normalize.Phone(phone)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername looks up an admin by username. Non-admin documents never
// carry a username, so the role filter is belt and braces.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{
		"username": normalize.Username(username),
		"role":     models.RoleAdmin,
	}).Decode(&u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByIdentifier resolves a login identifier to an account, trying
// email first, then phone, then admin username. Returns
// mongo.ErrNoDocuments when nothing matches.
func (s *Store) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	u, err := s.GetByEmail(ctx, identifier)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	u, err = s.GetByPhone(ctx, identifier)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	return s.GetByUsername(ctx, identifier)
}

// ExistsAnyIdentifier reports whether any account already uses the email,
// phone, or username. Used to fail registration early with a clear message
// before any document is written.
func (s *Store) ExistsAnyIdentifier(ctx context.Context, email, phone, username string) (bool, error) {
	var or []bson.M
	if e := normalize.Email(email); e != "" {
		or = append(or, bson.M{"email": e})
	}
	if p := normalize.Phone(phone); p != "" {
		or = append(or, bson.M{"phone": p})
	}
	if un := normalize.Username(username); un != "" {
		or = append(or, bson.M{"username": un})
	}
	if len(or) == 0 {
		return false, nil
	}

	err := s.c.FindOne(ctx, bson.M{"$or": or}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// UpdateLastLogin stamps last_login_at after a successful authentication.
func (s *Store) UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"last_login_at": time.Now().UTC()},
	})
	return err
}

// ProfileUpdate carries the mutable account fields for a profile PUT.
// Nil pointers mean "leave unchanged". Role, email, phone, username,
// password, ratings, and verification state cannot be changed through
// this path.
type ProfileUpdate struct {
	FullName    *string
	Location    *models.Location
	Preferences *models.Preferences
}

// UpdateMutable applies a partial update to the account document and
// returns the updated user.
func (s *Store) UpdateMutable(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) (*models.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}

	if upd.FullName != nil {
		name := normalize.Name(*upd.FullName)
		set["full_name"] = name
		set["full_name_ci"] = text.Fold(name)
	}
	if upd.Location != nil {
		loc := *upd.Location
		loc.StateCI = text.Fold(loc.State)
		loc.DistrictCI = text.Fold(loc.District)
		set["location"] = loc
	}
	if upd.Preferences != nil {
		set["preferences"] = *upd.Preferences
	}

	res := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After))

	var u models.User
	if err := res.Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Filter narrows directory listings.
type Filter struct {
	Role     models.Role
	Status   string
	State    string
	District string
}

// List returns a directory page of users matching the filter, sorted by
// folded name with _id as tiebreak.
func (s *Store) List(ctx context.Context, f Filter, cfg paging.KeysetConfig) ([]models.User, error) {
	filter := bson.M{}
	if f.Role != "" {
		filter["role"] = f.Role
	}
	if f.Status != "" {
		filter["status"] = normalize.Status(f.Status)
	}
	if f.State != "" {
		filter["location.state_ci"] = text.Fold(f.State)
	}
	if f.District != "" {
		filter["location.district_ci"] = text.Fold(f.District)
	}
	if window := cfg.KeysetWindow("full_name_ci"); window != nil {
		for k, v := range window {
			filter[k] = v
		}
	}

	find := options.Find()
	cfg.ApplyToFind(find, "full_name_ci")

	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Delete removes a user document. The registration fallback uses this as
// the compensating write when the profile insert fails.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
