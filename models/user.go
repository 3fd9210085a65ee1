package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleAdmin    = "admin"
	RoleDonor    = "donor"
	RoleField    = "field"
	RoleReceiver = "receiver"
)

// Registration states for receiver and field accounts. Both must be
// verified by an admin before they can submit projects or updates.
const (
	RegistrationPending  = "pending"
	RegistrationVerified = "verified"
)

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDonor, RoleField, RoleReceiver:
		return true
	}
	return false
}

type User struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email              string             `bson:"email" json:"email"`
	PasswordHash       string             `bson:"password_hash" json:"-"`
	Role               string             `bson:"role" json:"role"`
	Name               string             `bson:"name,omitempty" json:"name,omitempty"`
	FatherName         string             `bson:"father_name,omitempty" json:"fatherName,omitempty"`
	Phone              string             `bson:"phone,omitempty" json:"phone,omitempty"`
	City               string             `bson:"city,omitempty" json:"city,omitempty"`
	Address            string             `bson:"address,omitempty" json:"address,omitempty"`
	CNIC               string             `bson:"cnic,omitempty" json:"cnic,omitempty"`
	PhotoPath          string             `bson:"photo_path,omitempty" json:"photoPath,omitempty"`
	IsActive           bool               `bson:"is_active" json:"isActive"`
	RegistrationStatus string             `bson:"registration_status,omitempty" json:"registrationStatus,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Verified reports whether the account cleared admin verification.
// Donors and admins have no registration gate and always pass.
func (u *User) Verified() bool {
	if u.Role == RoleDonor || u.Role == RoleAdmin {
		return true
	}
	return u.RegistrationStatus == RegistrationVerified
}
