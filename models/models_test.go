package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseDonationMethod(t *testing.T) {
	for _, in := range []string{"paypal", " Bank ", "JAZZCASH", "easypaisa", "cash"} {
		m, err := ParseDonationMethod(in)
		require.NoError(t, err, "input %q", in)
		assert.NotEmpty(t, m)
	}

	for _, in := range []string{"", "bitcoin", "bank transfer", "pay-pal"} {
		_, err := ParseDonationMethod(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestPaymentAccountsComplete(t *testing.T) {
	var nilBank *BankAccount
	assert.False(t, nilBank.Complete())

	assert.False(t, (&BankAccount{BankName: "HBL"}).Complete())
	assert.True(t, (&BankAccount{BankName: "HBL", AccountHolderName: "Ali", AccountNumber: "123"}).Complete())

	var nilWallet *WalletAccount
	assert.False(t, nilWallet.Complete())
	assert.False(t, (&WalletAccount{AccountName: "Ali"}).Complete())
	assert.True(t, (&WalletAccount{AccountName: "Ali", MobileNumber: "0300"}).Complete())
}

func TestPaymentAccountsSupports(t *testing.T) {
	p := PaymentAccounts{
		Bank:     &BankAccount{BankName: "HBL", AccountHolderName: "Ali", AccountNumber: "123"},
		Jazzcash: &WalletAccount{AccountName: "Ali", MobileNumber: "0300"},
	}

	assert.True(t, p.AnyEnabled())
	assert.True(t, p.Supports(MethodBank))
	assert.True(t, p.Supports(MethodJazzcash))
	assert.False(t, p.Supports(MethodEasypaisa))
	assert.False(t, p.Supports(MethodPayPal))

	assert.False(t, PaymentAccounts{}.AnyEnabled())
}

func TestStepByKey(t *testing.T) {
	p := Project{Steps: DefaultSteps()}

	step, ok := p.StepByKey("step-2")
	require.True(t, ok)
	assert.Equal(t, "Step 2", step.Title)
	assert.Equal(t, 2, step.Order)

	_, ok = p.StepByKey("step-9")
	assert.False(t, ok)
}

func TestAssignedTo(t *testing.T) {
	worker := primitive.NewObjectID()
	p := Project{AssignedFieldWorkerIDs: []primitive.ObjectID{primitive.NewObjectID(), worker}}

	assert.True(t, p.AssignedTo(worker))
	assert.False(t, p.AssignedTo(primitive.NewObjectID()))
}

func TestUserVerified(t *testing.T) {
	assert.True(t, (&User{Role: RoleDonor}).Verified())
	assert.True(t, (&User{Role: RoleAdmin}).Verified())

	assert.False(t, (&User{Role: RoleReceiver, RegistrationStatus: RegistrationPending}).Verified())
	assert.True(t, (&User{Role: RoleReceiver, RegistrationStatus: RegistrationVerified}).Verified())
	assert.False(t, (&User{Role: RoleField}).Verified())
}

func TestDonationHasProof(t *testing.T) {
	assert.False(t, (&Donation{}).HasProof())
	assert.True(t, (&Donation{ProofPaths: []string{"/uploads/donation-proofs/a.jpg"}}).HasProof())
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidRole("donor"))
	assert.False(t, ValidRole("superuser"))

	assert.True(t, ValidCategory("medical"))
	assert.False(t, ValidCategory("crypto"))

	assert.True(t, ValidUrgency("high"))
	assert.False(t, ValidUrgency("urgent"))

	assert.True(t, ValidWorkStatus("ongoing"))
	assert.False(t, ValidWorkStatus("stalled"))
}
