package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Work status reported by the field worker for one step.
const (
	WorkPending   = "pending"
	WorkOngoing   = "ongoing"
	WorkCompleted = "completed"
)

func ValidWorkStatus(s string) bool {
	return s == WorkPending || s == WorkOngoing || s == WorkCompleted
}

// Admin approval state for a progress update.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

type ProgressUpdate struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID       primitive.ObjectID `bson:"project_id" json:"projectId"`
	FieldWorkerID   primitive.ObjectID `bson:"field_worker_id" json:"fieldWorkerId"`
	StepKey         string             `bson:"step_key" json:"stepKey"`
	StepTitle       string             `bson:"step_title" json:"stepTitle"`
	WorkStatus      string             `bson:"work_status" json:"workStatus"`
	PercentComplete float64            `bson:"percent_complete" json:"percentComplete"`
	AmountUsed      float64            `bson:"amount_used" json:"amountUsed"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	MediaPaths      []string           `bson:"media_paths" json:"mediaPaths"`
	ApprovalStatus  string             `bson:"approval_status" json:"approvalStatus"`
	AdminRemark     string             `bson:"admin_remark,omitempty" json:"adminRemark,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}
