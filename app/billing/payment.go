package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/azimystic/UTS-SMS-sub001/app/models"
)

// PaymentInput is the cashier-submitted payment portion of a billing submission.
// AmountPaid is the total the form claims; it must equal CashPaid + OnlinePaid
// exactly.
type PaymentInput struct {
	AmountPaid      decimal.Decimal
	CashPaid        decimal.Decimal
	OnlinePaid      decimal.Decimal
	OnlineAccountID *string
	PaymentDate     time.Time
	ReceivedBy      string
}

// ValidatePayment enforces the payment invariants: no negative amounts, the split
// must add up exactly, and any online portion requires an active receiving account.
// account may be nil when no online portion is present.
func ValidatePayment(in PaymentInput, account *models.OnlineAccount) error {
	if in.CashPaid.IsNegative() || in.OnlinePaid.IsNegative() || in.AmountPaid.IsNegative() {
		return fmt.Errorf("negative payment portion: %w", ErrInvalidAmount)
	}
	if !in.CashPaid.Add(in.OnlinePaid).Equal(in.AmountPaid) {
		return ErrPaymentSplitMismatch
	}
	if in.OnlinePaid.IsPositive() {
		if in.OnlineAccountID == nil || *in.OnlineAccountID == "" {
			return ErrMissingOnlineAccount
		}
		if account == nil || !account.IsActive || account.DeletedAt != nil {
			return ErrMissingOnlineAccount
		}
	}
	return nil
}

// NewTransaction builds the immutable payment transaction for a cashier payment.
func NewTransaction(recordID string, in PaymentInput, period Period) *models.PaymentTransaction {
	return &models.PaymentTransaction{
		ID:              uuid.NewString(),
		BillingRecordID: recordID,
		AmountPaid:      in.AmountPaid,
		CashPaid:        in.CashPaid,
		OnlinePaid:      in.OnlinePaid,
		SalaryDeducted:  decimal.Zero,
		OnlineAccountID: in.OnlineAccountID,
		ReceiptNo:       ReceiptReference(period),
		ReceivedBy:      in.ReceivedBy,
		PaymentDate:     in.PaymentDate,
		CreatedAt:       in.PaymentDate,
	}
}

// NewSalaryTransaction mirrors a salary deduction as a zero-cash transaction so the
// record's paid total stays consistent without double counting the staff pool.
func NewSalaryTransaction(recordID string, amount decimal.Decimal, period Period, at time.Time) *models.PaymentTransaction {
	return &models.PaymentTransaction{
		ID:              uuid.NewString(),
		BillingRecordID: recordID,
		AmountPaid:      amount,
		CashPaid:        decimal.Zero,
		OnlinePaid:      decimal.Zero,
		SalaryDeducted:  amount,
		ReceiptNo:       ReceiptReference(period),
		ReceivedBy:      SystemSalaryReceiver,
		PaymentDate:     at,
		CreatedAt:       at,
	}
}

// ReceiptReference builds a printable receipt number, unique per transaction.
func ReceiptReference(period Period) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("RCT-%04d%02d-%s", period.Year, period.Month, suffix)
}
