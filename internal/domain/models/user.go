// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role identifies which kind of account a user holds and which satellite
// profile collection backs it. It is fixed at registration and never changes.
type Role string

const (
	RoleFarmer   Role = "farmer"
	RoleLaborer  Role = "laborer"
	RoleRetailer Role = "retailer"
	RoleAdmin    Role = "admin"
)

// Roles lists every recognized role in a stable order.
var Roles = []Role{RoleFarmer, RoleLaborer, RoleRetailer, RoleAdmin}

// ParseRole validates a role string.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleFarmer, RoleLaborer, RoleRetailer, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// ProfileCollection returns the Mongo collection name holding this role's
// satellite profile documents.
func (r Role) ProfileCollection() string {
	switch r {
	case RoleFarmer:
		return "farmer_profiles"
	case RoleLaborer:
		return "laborer_profiles"
	case RoleRetailer:
		return "retailer_profiles"
	case RoleAdmin:
		return "admin_profiles"
	}
	return ""
}

// Location is the structured address attached to every account.
// The *_ci fields hold case/diacritic-folded copies used for directory search.
type Location struct {
	State      string    `bson:"state,omitempty" json:"state,omitempty"`
	StateCI    string    `bson:"state_ci,omitempty" json:"-"`
	District   string    `bson:"district,omitempty" json:"district,omitempty"`
	DistrictCI string    `bson:"district_ci,omitempty" json:"-"`
	Village    string    `bson:"village,omitempty" json:"village,omitempty"`
	Pincode    string    `bson:"pincode,omitempty" json:"pincode,omitempty"`
	Point      *GeoPoint `bson:"point,omitempty" json:"coordinates,omitempty"`
}

// GeoPoint is a GeoJSON point ([longitude, latitude]) so collections can
// carry a 2dsphere index.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a GeoJSON point from a [lng, lat] pair.
func NewGeoPoint(lng, lat float64) *GeoPoint {
	return &GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// Preferences holds per-user notification and locale settings.
type Preferences struct {
	Language    string `bson:"language,omitempty" json:"language,omitempty"`
	SMSAlerts   bool   `bson:"sms_alerts" json:"sms_alerts"`
	EmailAlerts bool   `bson:"email_alerts" json:"email_alerts"`
	Units       string `bson:"units,omitempty" json:"units,omitempty"`
}

// Verification tracks identity/document verification state. Documents are
// internal and never serialized to callers.
type Verification struct {
	IsVerified bool                `bson:"is_verified" json:"is_verified"`
	Documents  []string            `bson:"documents,omitempty" json:"-"`
	VerifiedBy *primitive.ObjectID `bson:"verified_by,omitempty" json:"-"`
	VerifiedAt *time.Time          `bson:"verified_at,omitempty" json:"-"`
}

// Ratings is the aggregate marketplace rating for an account.
type Ratings struct {
	Average float64 `bson:"average" json:"average"`
	Count   int64   `bson:"count" json:"count"`
}

// User is the unified account record. Exactly one satellite role-profile
// document (selected by Role, linked via ProfileRef) accompanies each user.
//
// NOTE:
//   - Email and Username are optional; Phone is the one required identifier.
//   - PasswordHash carries a `json:"-"` tag as a backstop, but handlers
//     return PublicProfile() rather than the raw struct.
type User struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FullName     string              `bson:"full_name" json:"full_name"`
	FullNameCI   string              `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        *string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone        string              `bson:"phone" json:"phone"`
	Username     *string             `bson:"username,omitempty" json:"username,omitempty"` // admins only
	PasswordHash string              `bson:"password_hash" json:"-"`
	Role         Role                `bson:"role" json:"role"`
	Status       string              `bson:"status,omitempty" json:"status,omitempty"` // active | inactive | suspended
	Location     Location            `bson:"location,omitempty" json:"location,omitempty"`
	Preferences  Preferences         `bson:"preferences,omitempty" json:"preferences,omitempty"`
	Verification Verification        `bson:"verification,omitempty" json:"-"`
	Ratings      Ratings             `bson:"ratings,omitempty" json:"ratings,omitempty"`
	ProfileRef   *primitive.ObjectID `bson:"profile_ref,omitempty" json:"-"`

	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

// PublicUser is the password/verification-document-stripped view of an
// account, safe to return to any caller.
type PublicUser struct {
	ID          string      `json:"id"`
	FullName    string      `json:"full_name"`
	Email       string      `json:"email,omitempty"`
	Phone       string      `json:"phone"`
	Username    string      `json:"username,omitempty"`
	Role        Role        `json:"role"`
	Status      string      `json:"status"`
	Location    Location    `json:"location,omitempty"`
	Preferences Preferences `json:"preferences"`
	IsVerified  bool        `json:"is_verified"`
	Ratings     Ratings     `json:"ratings"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// PublicProfile strips the password hash and verification internals.
func (u *User) PublicProfile() PublicUser {
	p := PublicUser{
		ID:          u.ID.Hex(),
		FullName:    u.FullName,
		Phone:       u.Phone,
		Role:        u.Role,
		Status:      u.Status,
		Location:    u.Location,
		Preferences: u.Preferences,
		IsVerified:  u.Verification.IsVerified,
		Ratings:     u.Ratings,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Username != nil {
		p.Username = *u.Username
	}
	return p
}
