package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project statuses. "completed" is a valid stored value but no route
// transitions into it.
const (
	ProjectStatusPending   = "pending"
	ProjectStatusApproved  = "approved"
	ProjectStatusRejected  = "rejected"
	ProjectStatusCompleted = "completed"
)

const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

var ProjectCategories = []string{"education", "medical", "food", "construction", "emergency", "other"}

func ValidCategory(c string) bool {
	for _, v := range ProjectCategories {
		if v == c {
			return true
		}
	}
	return false
}

func ValidUrgency(u string) bool {
	return u == UrgencyLow || u == UrgencyMedium || u == UrgencyHigh
}

type ReceiverDetails struct {
	FullName        string `bson:"full_name,omitempty" json:"fullName,omitempty"`
	FatherOrOrgName string `bson:"father_or_org_name,omitempty" json:"fatherOrOrgName,omitempty"`
	CnicOrIDNumber  string `bson:"cnic_or_id_number,omitempty" json:"cnicOrIdNumber,omitempty"`
	Phone           string `bson:"phone,omitempty" json:"phone,omitempty"`
	AlternatePhone  string `bson:"alternate_phone,omitempty" json:"alternatePhone,omitempty"`
	City            string `bson:"city,omitempty" json:"city,omitempty"`
	FullAddress     string `bson:"full_address,omitempty" json:"fullAddress,omitempty"`
}

type ProjectStep struct {
	Key   string `bson:"key" json:"key"`
	Title string `bson:"title" json:"title"`
	Order int    `bson:"order" json:"order"`
}

type BankAccount struct {
	BankName          string `bson:"bank_name,omitempty" json:"bankName,omitempty"`
	AccountHolderName string `bson:"account_holder_name,omitempty" json:"accountHolderName,omitempty"`
	AccountNumber     string `bson:"account_number,omitempty" json:"accountNumber,omitempty"`
	IBAN              string `bson:"iban,omitempty" json:"iban,omitempty"`
}

type WalletAccount struct {
	AccountName  string `bson:"account_name,omitempty" json:"accountName,omitempty"`
	MobileNumber string `bson:"mobile_number,omitempty" json:"mobileNumber,omitempty"`
}

// PaymentAccounts holds the receiver's collection channels. Each block
// is optional but must be complete when enabled.
type PaymentAccounts struct {
	Bank      *BankAccount   `bson:"bank,omitempty" json:"bank,omitempty"`
	Jazzcash  *WalletAccount `bson:"jazzcash,omitempty" json:"jazzcash,omitempty"`
	Easypaisa *WalletAccount `bson:"easypaisa,omitempty" json:"easypaisa,omitempty"`
}

func (b *BankAccount) Complete() bool {
	return b != nil && b.BankName != "" && b.AccountHolderName != "" && b.AccountNumber != ""
}

func (w *WalletAccount) Complete() bool {
	return w != nil && w.AccountName != "" && w.MobileNumber != ""
}

// AnyEnabled reports whether at least one payment channel is usable.
func (p PaymentAccounts) AnyEnabled() bool {
	return p.Bank.Complete() || p.Jazzcash.Complete() || p.Easypaisa.Complete()
}

// Supports reports whether the project accepts the given offline method.
func (p PaymentAccounts) Supports(method DonationMethod) bool {
	switch method {
	case MethodBank:
		return p.Bank.Complete()
	case MethodJazzcash:
		return p.Jazzcash.Complete()
	case MethodEasypaisa:
		return p.Easypaisa.Complete()
	}
	return false
}

type Project struct {
	ID                     primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ReceiverID             primitive.ObjectID   `bson:"receiver_id" json:"receiverId"`
	ReceiverDetails        ReceiverDetails      `bson:"receiver_details,omitempty" json:"receiverDetails,omitempty"`
	Title                  string               `bson:"title" json:"title"`
	Purpose                string               `bson:"purpose" json:"purpose"`
	RequiredAmount         float64              `bson:"required_amount" json:"requiredAmount"`
	CollectedAmount        float64              `bson:"collected_amount" json:"collectedAmount"`
	SpentAmount            float64              `bson:"spent_amount" json:"spentAmount"`
	Category               string               `bson:"category" json:"category"`
	UrgencyLevel           string               `bson:"urgency_level" json:"urgencyLevel"`
	Description            string               `bson:"description" json:"description"`
	UsageBreakdown         string               `bson:"usage_breakdown,omitempty" json:"usageBreakdown,omitempty"`
	DurationText           string               `bson:"duration_text,omitempty" json:"durationText,omitempty"`
	VerificationMediaPaths []string             `bson:"verification_media_paths" json:"verificationMediaPaths"`
	TimelineStart          *time.Time           `bson:"timeline_start,omitempty" json:"timelineStart,omitempty"`
	TimelineEnd            *time.Time           `bson:"timeline_end,omitempty" json:"timelineEnd,omitempty"`
	Steps                  []ProjectStep        `bson:"steps" json:"steps"`
	PaymentAccounts        PaymentAccounts      `bson:"payment_accounts,omitempty" json:"paymentAccounts,omitempty"`
	Status                 string               `bson:"status" json:"status"`
	AdminRemark            string               `bson:"admin_remark,omitempty" json:"adminRemark,omitempty"`
	ApprovedAt             *time.Time           `bson:"approved_at,omitempty" json:"approvedAt,omitempty"`
	RejectedAt             *time.Time           `bson:"rejected_at,omitempty" json:"rejectedAt,omitempty"`
	PublishedAt            *time.Time           `bson:"published_at,omitempty" json:"publishedAt,omitempty"`
	AssignedFieldWorkerIDs []primitive.ObjectID `bson:"assigned_field_worker_ids" json:"assignedFieldWorkerIds"`
	ProgressPercent        float64              `bson:"progress_percent" json:"progressPercent"`
	CreatedAt              time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt              time.Time            `bson:"updated_at" json:"updatedAt"`
}

// StepByKey looks up one of the project's defined work steps.
func (p *Project) StepByKey(key string) (ProjectStep, bool) {
	for _, s := range p.Steps {
		if s.Key == key {
			return s, true
		}
	}
	return ProjectStep{}, false
}

// AssignedTo reports whether the field worker is on the project.
func (p *Project) AssignedTo(workerID primitive.ObjectID) bool {
	for _, id := range p.AssignedFieldWorkerIDs {
		if id == workerID {
			return true
		}
	}
	return false
}

// DefaultSteps is the template applied when a submission carries no
// custom step list.
func DefaultSteps() []ProjectStep {
	return []ProjectStep{
		{Key: "step-1", Title: "Step 1", Order: 1},
		{Key: "step-2", Title: "Step 2", Order: 2},
		{Key: "step-3", Title: "Step 3", Order: 3},
	}
}
