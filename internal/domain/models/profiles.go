// internal/domain/models/profiles.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Farm describes a farmer's land holding. The coordinates carry a 2dsphere
// index so nearby-laborer style queries stay possible.
type Farm struct {
	Address    string    `bson:"address,omitempty" json:"address,omitempty"`
	State      string    `bson:"state,omitempty" json:"state,omitempty"`
	StateCI    string    `bson:"state_ci,omitempty" json:"-"`
	District   string    `bson:"district,omitempty" json:"district,omitempty"`
	DistrictCI string    `bson:"district_ci,omitempty" json:"-"`
	Point      *GeoPoint `bson:"point,omitempty" json:"coordinates,omitempty"`
	AreaAcres  float64   `bson:"area_acres,omitempty" json:"area_acres,omitempty"`
}

// FarmerProfile is the satellite document for farmer accounts.
type FarmerProfile struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           primitive.ObjectID `bson:"user_id" json:"-"`
	Farm             Farm               `bson:"farm,omitempty" json:"farm,omitempty"`
	Crops            []string           `bson:"crops,omitempty" json:"crops,omitempty"`
	Irrigation       string             `bson:"irrigation,omitempty" json:"irrigation,omitempty"`
	OrganicCertified bool               `bson:"organic_certified" json:"organic_certified"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// LaborerProfile is the satellite document for laborer accounts.
type LaborerProfile struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"-"`
	Skills       []string           `bson:"skills,omitempty" json:"skills,omitempty"`
	DailyWage    float64            `bson:"daily_wage,omitempty" json:"daily_wage,omitempty"`
	Available    bool               `bson:"available" json:"available"`
	WorkRadiusKM float64            `bson:"work_radius_km,omitempty" json:"work_radius_km,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// RetailerProfile is the satellite document for retailer accounts.
// BusinessName and BusinessAddress are required at registration.
type RetailerProfile struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"-"`
	BusinessName    string             `bson:"business_name" json:"business_name"`
	BusinessAddress string             `bson:"business_address" json:"business_address"`
	LicenseNo       string             `bson:"license_no,omitempty" json:"license_no,omitempty"`
	GSTNo           string             `bson:"gst_no,omitempty" json:"gst_no,omitempty"`
	Categories      []string           `bson:"categories,omitempty" json:"categories,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// AdminProfile is the satellite document for admin accounts.
type AdminProfile struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"-"`
	Permissions  []string           `bson:"permissions,omitempty" json:"permissions,omitempty"`
	FailedLogins int                `bson:"failed_logins" json:"-"`
	LockedUntil  *time.Time         `bson:"locked_until,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
