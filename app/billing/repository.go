package billing

import (
	"context"
	"time"

	"github.com/azimystic/UTS-SMS-sub001/app/models"
)

// Repository is the storage boundary for the billing engine. All reads and writes
// of one billing submission happen inside a single transaction; if any step fails
// the whole submission rolls back.
type Repository interface {
	// InTx runs fn inside one transaction, committing when fn returns nil and
	// rolling back otherwise.
	InTx(ctx context.Context, fn func(Tx) error) error
}

// Tx is the per-transaction storage surface. StudentSnapshot must take a row-level
// lock on the staff member's salary definition when the student has an active
// salary link, so sibling pool arithmetic cannot race.
type Tx interface {
	StudentSnapshot(studentID string, period Period) (*Snapshot, error)
	OnlineAccount(id string) (*models.OnlineAccount, error)
	UnpaidFines(studentID string) ([]*models.StudentFineCharge, error)
	LedgerHistory(studentID string, from, to time.Time) ([]*models.BillingRecord, error)

	// InsertBillingRecord returns ErrRecordExists when the unique
	// (student, month, year) index is violated.
	InsertBillingRecord(r *models.BillingRecord) error
	// UpdateBillingRecord persists the record's evolving fields: misc, fine, dues,
	// remarks. Tuition, admission and previous dues are never written back.
	UpdateBillingRecord(r *models.BillingRecord) error
	AnnotateBillingRecord(recordID, remark string) error
	InsertTransaction(t *models.PaymentTransaction) error
	InsertSalaryDeduction(d *models.SalaryDeductionRecord) error
	SettleFine(fineID, billingRecordID string, at time.Time) error
	InsertChargeHistory(h *models.ChargePaymentHistory) error
	MarkAdmissionFeePaid(studentID string) error
	InsertNotification(n *models.FeeNotification) error
}
