package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AppSettings holds the organization profile shown on the frontend.
// The collection effectively stores one document; readers take the
// newest.
type AppSettings struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Address   string             `bson:"address,omitempty" json:"address"`
	Phone     string             `bson:"phone,omitempty" json:"phone"`
	LogoPath  string             `bson:"logo_path,omitempty" json:"logoPath"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

func DefaultAppSettings() AppSettings {
	return AppSettings{Name: "DonateFlow"}
}
