// internal/domain/models/loginrecord.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoginRecord is one successful sign-in, kept as an audit trail behind
// the user's last_login_at field.
type LoginRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	IP        string             `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent string             `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
