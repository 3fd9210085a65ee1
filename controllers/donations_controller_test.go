package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/MJG-MindSpire/demodonation/models"
)

func TestNewOfflineDonationStartsInitiated(t *testing.T) {
	projectID := primitive.NewObjectID()
	donorID := primitive.NewObjectID()
	details := &models.DonorPaymentDetails{
		DonorAccountName:           "Ali Khan",
		DonorAccountNumberOrMobile: "0300-1234567",
		TransactionID:              "TX-99",
	}

	d := newOfflineDonation(projectID, donorID, 5000, models.MethodBank, details,
		[]string{"/uploads/donation-proofs/slip.jpg"})

	// paid only flips after gateway capture; offline records stay
	// initiated until the receiver confirms
	assert.Equal(t, models.PaymentInitiated, d.PaymentStatus)
	assert.Equal(t, float64(5000), d.Amount)
	assert.Equal(t, float64(5000), d.PaidAmount)

	assert.Equal(t, models.VerificationPending, d.VerificationStatus)
	assert.Equal(t, models.ReceiverPending, d.ReceiverStatus)
	assert.Equal(t, projectID, d.ProjectID)
	assert.Equal(t, donorID, d.DonorID)
	assert.Equal(t, details, d.DonorPaymentDetails)
	assert.Regexp(t, `^RCPT-[0-9A-Z]+-[0-9A-Z]{6}$`, d.ReceiptNo)
	assert.Len(t, d.ProofPaths, 1)
}

func TestNewOfflineDonationWithoutProof(t *testing.T) {
	d := newOfflineDonation(primitive.NewObjectID(), primitive.NewObjectID(), 200,
		models.MethodJazzcash, &models.DonorPaymentDetails{}, []string{})

	assert.Equal(t, models.PaymentInitiated, d.PaymentStatus)
	assert.False(t, d.HasProof())
}
