package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification event types emitted by the approval workflow.
const (
	NotifyProjectApproved  = "project.approved"
	NotifyProjectRejected  = "project.rejected"
	NotifyDonationApproved = "donation.approved"
	NotifyDonationRejected = "donation.rejected"
	NotifyProgressApproved = "progress.approved"
	NotifyProgressRejected = "progress.rejected"
	NotifyReceiverVerified = "receiver.verified"
	NotifyFieldVerified    = "field.verified"
)

type Notification struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecipientID   primitive.ObjectID `bson:"recipient_id" json:"recipientId"`
	RecipientRole string             `bson:"recipient_role" json:"recipientRole"`
	Type          string             `bson:"type" json:"type"`
	Title         string             `bson:"title" json:"title"`
	Message       string             `bson:"message" json:"message"`
	EntityType    string             `bson:"entity_type,omitempty" json:"entityType,omitempty"`
	EntityID      string             `bson:"entity_id,omitempty" json:"entityId,omitempty"`
	ActorID       string             `bson:"actor_id,omitempty" json:"actorId,omitempty"`
	Data          map[string]any     `bson:"data,omitempty" json:"data,omitempty"`
	ReadAt        *time.Time         `bson:"read_at,omitempty" json:"readAt,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
}
