package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DonationMethod is a closed set; free strings from clients go through
// ParseDonationMethod so unsupported values never reach a handler.
type DonationMethod string

const (
	MethodPayPal    DonationMethod = "paypal"
	MethodCash      DonationMethod = "cash"
	MethodBank      DonationMethod = "bank"
	MethodJazzcash  DonationMethod = "jazzcash"
	MethodEasypaisa DonationMethod = "easypaisa"
)

func ParseDonationMethod(s string) (DonationMethod, error) {
	switch m := DonationMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodPayPal, MethodCash, MethodBank, MethodJazzcash, MethodEasypaisa:
		return m, nil
	default:
		return "", fmt.Errorf("unsupported payment method %q", s)
	}
}

// Payment lifecycle against the external provider.
const (
	PaymentInitiated = "initiated"
	PaymentPaid      = "paid"
	PaymentFailed    = "failed"
)

// Admin-visible verification state.
const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationFlagged  = "flagged"
)

// Receiver confirmation state. Only the receiver who owns the parent
// project moves a donation out of pending.
const (
	ReceiverPending  = "pending"
	ReceiverApproved = "approved"
	ReceiverRejected = "rejected"
)

const ProviderPayPal = "paypal"

type DonorPaymentDetails struct {
	DonorAccountName           string `bson:"donor_account_name,omitempty" json:"donorAccountName,omitempty"`
	DonorAccountNumberOrMobile string `bson:"donor_account_number_or_mobile,omitempty" json:"donorAccountNumberOrMobile,omitempty"`
	TransactionID              string `bson:"transaction_id,omitempty" json:"transactionId,omitempty"`
}

type PaymentProvider struct {
	Type      string `bson:"type,omitempty" json:"type,omitempty"`
	OrderID   string `bson:"order_id,omitempty" json:"orderId,omitempty"`
	CaptureID string `bson:"capture_id,omitempty" json:"captureId,omitempty"`
}

type Donation struct {
	ID                  primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ProjectID           primitive.ObjectID   `bson:"project_id" json:"projectId"`
	DonorID             primitive.ObjectID   `bson:"donor_id" json:"donorId"`
	Amount              float64              `bson:"amount" json:"amount"`
	PaidAmount          float64              `bson:"paid_amount,omitempty" json:"paidAmount,omitempty"`
	Method              DonationMethod       `bson:"method" json:"method"`
	PaymentStatus       string               `bson:"payment_status" json:"paymentStatus"`
	VerificationStatus  string               `bson:"verification_status" json:"verificationStatus"`
	ReceiverStatus      string               `bson:"receiver_status" json:"receiverStatus"`
	ReceiverRemark      string               `bson:"receiver_remark,omitempty" json:"receiverRemark,omitempty"`
	ReceiverActionAt    *time.Time           `bson:"receiver_action_at,omitempty" json:"receiverActionAt,omitempty"`
	DonorPaymentDetails *DonorPaymentDetails `bson:"donor_payment_details,omitempty" json:"donorPaymentDetails,omitempty"`
	ProofPaths          []string             `bson:"proof_paths" json:"proofPaths"`
	Provider            *PaymentProvider     `bson:"provider,omitempty" json:"provider,omitempty"`
	AdminRemark         string               `bson:"admin_remark,omitempty" json:"adminRemark,omitempty"`
	ReceiptNo           string               `bson:"receipt_no" json:"receiptNo"`
	CreatedAt           time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt           time.Time            `bson:"updated_at" json:"updatedAt"`
}

// HasProof reports whether at least one payment proof file is attached.
func (d *Donation) HasProof() bool {
	return len(d.ProofPaths) > 0
}
