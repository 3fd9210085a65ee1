package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PortalCredential is a role-scoped username/password login separate
// from the email accounts. Unique on (portal_key, username).
type PortalCredential struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PortalKey    string             `bson:"portal_key" json:"portalKey"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	IsActive     bool               `bson:"is_active" json:"isActive"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}
