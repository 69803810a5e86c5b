package billing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/azimystic/UTS-SMS-sub001/app/models"
)

func activeAccount() *models.OnlineAccount {
	return &models.OnlineAccount{
		ID:       "acct-1",
		Name:     "School Collections",
		Provider: "Stanbic",
		IsActive: true,
	}
}

func TestValidatePaymentSplitIdentity(t *testing.T) {
	in := PaymentInput{AmountPaid: dec("5000"), CashPaid: dec("3000"), OnlinePaid: dec("2000")}
	accountID := "acct-1"
	in.OnlineAccountID = &accountID

	assert.NoError(t, ValidatePayment(in, activeAccount()))

	in.CashPaid = dec("2999")
	assert.ErrorIs(t, ValidatePayment(in, activeAccount()), ErrPaymentSplitMismatch)
}

func TestValidatePaymentRejectsNegatives(t *testing.T) {
	in := PaymentInput{AmountPaid: dec("-1"), CashPaid: dec("-1"), OnlinePaid: dec("0")}
	assert.ErrorIs(t, ValidatePayment(in, nil), ErrInvalidAmount)
}

func TestValidatePaymentOnlineRequiresActiveAccount(t *testing.T) {
	accountID := "acct-1"
	in := PaymentInput{AmountPaid: dec("500"), OnlinePaid: dec("500"), CashPaid: dec("0")}

	// No account reference at all.
	assert.ErrorIs(t, ValidatePayment(in, nil), ErrMissingOnlineAccount)

	// Reference set but account inactive.
	in.OnlineAccountID = &accountID
	inactive := activeAccount()
	inactive.IsActive = false
	assert.ErrorIs(t, ValidatePayment(in, inactive), ErrMissingOnlineAccount)

	// Soft-deleted account.
	deleted := activeAccount()
	now := testClock()
	deleted.DeletedAt = &now
	assert.ErrorIs(t, ValidatePayment(in, deleted), ErrMissingOnlineAccount)

	assert.NoError(t, ValidatePayment(in, activeAccount()))
}

func TestNewTransactionFields(t *testing.T) {
	accountID := "acct-1"
	in := PaymentInput{
		AmountPaid:      dec("5000"),
		CashPaid:        dec("3000"),
		OnlinePaid:      dec("2000"),
		OnlineAccountID: &accountID,
		PaymentDate:     testClock(),
		ReceivedBy:      "Test Bursar",
	}

	txn := NewTransaction("rec-1", in, Period{Month: 3, Year: 2026})

	assert.NotEmpty(t, txn.ID)
	assert.Equal(t, "rec-1", txn.BillingRecordID)
	assert.True(t, txn.SalaryDeducted.IsZero())
	assert.True(t, txn.AmountPaid.Equal(txn.CashPaid.Add(txn.OnlinePaid).Add(txn.SalaryDeducted)))
	assert.True(t, strings.HasPrefix(txn.ReceiptNo, "RCT-202603-"))
}

func TestNewSalaryTransactionMirrorsDeduction(t *testing.T) {
	txn := NewSalaryTransaction("rec-1", dec("4000"), Period{Month: 3, Year: 2026}, testClock())

	assert.True(t, txn.CashPaid.IsZero())
	assert.True(t, txn.OnlinePaid.IsZero())
	assert.True(t, dec("4000").Equal(txn.SalaryDeducted))
	assert.True(t, dec("4000").Equal(txn.AmountPaid))
	assert.Equal(t, SystemSalaryReceiver, txn.ReceivedBy)
	assert.True(t, txn.AmountPaid.Equal(txn.CashPaid.Add(txn.OnlinePaid).Add(txn.SalaryDeducted)))
}

func TestReceiptReferenceFormat(t *testing.T) {
	ref := ReceiptReference(Period{Month: 7, Year: 2026})
	assert.True(t, strings.HasPrefix(ref, "RCT-202607-"))
	assert.Len(t, ref, len("RCT-202607-")+8)
	assert.NotEqual(t, ref, ReceiptReference(Period{Month: 7, Year: 2026}))
}
