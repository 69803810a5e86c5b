package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/azimystic/UTS-SMS-sub001/app/models"
)

// Clock supplies the current time. Injected so period defaults, backfill and
// carry-forward arithmetic are deterministic in tests.
type Clock func() time.Time

// Engine is the tuition billing and dues-reconciliation engine. All computation is
// done by the pure functions in this package over a Snapshot; the engine only
// sequences them inside one repository transaction per submission.
type Engine struct {
	repo  Repository
	clock Clock
}

func NewEngine(repo Repository) *Engine {
	return &Engine{repo: repo, clock: time.Now}
}

func NewEngineWithClock(repo Repository, clock Clock) *Engine {
	return &Engine{repo: repo, clock: clock}
}

// BillDraft is the computed bill for one student and period, rendered by the
// billing form before any commit.
type BillDraft struct {
	StudentID        string           `json:"student_id"`
	StudentName      string           `json:"student_name"`
	Period           Period           `json:"period"`
	Tuition          decimal.Decimal  `json:"tuition"`
	Admission        decimal.Decimal  `json:"admission"`
	Charges          []ChargeLine     `json:"charges"`
	Miscellaneous    decimal.Decimal  `json:"miscellaneous"`
	Fine             decimal.Decimal  `json:"fine"`
	PreviousDues     decimal.Decimal  `json:"previous_dues"`
	PreviousRemark   string           `json:"previous_remark"`
	TotalPayable     decimal.Decimal  `json:"total_payable"`
	TotalPaid        decimal.Decimal  `json:"total_paid"`
	Dues             decimal.Decimal  `json:"dues"`
	SalaryDeduction  *DeductionResult `json:"salary_deduction,omitempty"`
	CashPayable      decimal.Decimal  `json:"cash_payable"`
	ExistingRecordID string           `json:"existing_record_id,omitempty"`
}

// ChargeItemInput is one extra-charge line submitted with a billing commit.
// ExtraChargeID links it back to the catalogue when it came from there.
type ChargeItemInput struct {
	ExtraChargeID string          `json:"extra_charge_id,omitempty"`
	Title         string          `json:"title"`
	Amount        decimal.Decimal `json:"amount"`
}

// CommitRequest is the create-or-update + pay operation input.
type CommitRequest struct {
	StudentID  string
	Period     Period
	Fine       decimal.Decimal
	ExtraItems []ChargeItemInput
	Payment    PaymentInput
}

// CommitResult reports what one billing submission persisted.
type CommitResult struct {
	BillingRecordID string          `json:"billing_record_id"`
	TransactionID   string          `json:"transaction_id,omitempty"`
	ReceiptNo       string          `json:"receipt_no,omitempty"`
	SalaryDeducted  decimal.Decimal `json:"salary_deducted"`
	BackfilledCount int             `json:"backfilled_count"`
	Updated         bool            `json:"updated"`
}

// ResolveBillingPreview computes the proposed bill for a student and period without
// writing anything.
func (e *Engine) ResolveBillingPreview(ctx context.Context, studentID string, period Period) (*BillDraft, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("period %d/%d: %w", period.Month, period.Year, ErrInvalidAmount)
	}

	var draft *BillDraft
	err := e.repo.InTx(ctx, func(tx Tx) error {
		snap, err := tx.StudentSnapshot(studentID, period)
		if err != nil {
			return err
		}
		draft, err = buildDraft(snap, period)
		return err
	})
	if err != nil {
		return nil, err
	}
	return draft, nil
}

// buildDraft assembles a BillDraft from a snapshot. When a record already exists
// for the period its stored figures are authoritative and the charge catalogue
// contributes nothing.
func buildDraft(snap *Snapshot, period Period) (*BillDraft, error) {
	draft := &BillDraft{
		StudentID:   snap.Student.ID,
		StudentName: snap.Student.FullName(),
		Period:      period,
	}

	if existing := snap.RecordFor(period); existing != nil {
		draft.ExistingRecordID = existing.ID
		draft.Tuition = existing.TuitionFee
		draft.Admission = existing.AdmissionFee
		draft.Miscellaneous = decimal.Zero
		draft.Fine = existing.Fine
		draft.PreviousDues = existing.PreviousDues
		draft.PreviousRemark = existing.Remarks
		draft.TotalPayable = existing.TotalPayable()
		draft.TotalPaid = existing.TotalPaid()
		draft.Dues = existing.Dues
		draft.CashPayable = existing.Dues
		if snap.DeductionForRecord(existing.ID) == nil {
			if ded := ComputeSalaryDeduction(snap, existing.TuitionFee, existing.AdmissionFee,
				existing.MiscellaneousCharges, existing.PreviousDues); ded != nil {
				CapDeductionAtDues(ded, existing.Dues)
				draft.SalaryDeduction = ded
				draft.CashPayable = ded.CashPayable
			}
		}
		return draft, nil
	}

	quote, err := ResolveFeeSchedule(snap, period)
	if err != nil {
		return nil, err
	}
	lines := AggregateExtraCharges(snap)
	misc := SumChargeLines(lines)
	prev := ResolvePreviousDues(snap, period, quote.Tuition, SumMonthlyChargeLines(lines))

	draft.Tuition = quote.Tuition
	draft.Admission = quote.Admission
	draft.Charges = lines
	draft.Miscellaneous = misc
	draft.PreviousDues = prev.Amount
	draft.PreviousRemark = prev.Remark
	draft.TotalPayable = quote.Tuition.Add(quote.Admission).Add(misc).Add(prev.Amount)
	draft.Dues = draft.TotalPayable
	draft.CashPayable = draft.TotalPayable
	if ded := ComputeSalaryDeduction(snap, quote.Tuition, quote.Admission, misc, prev.Amount); ded != nil {
		draft.SalaryDeduction = ded
		draft.CashPayable = ded.CashPayable
	}
	return draft, nil
}

// CommitBilling creates or updates the billing record for the requested period and
// records the submitted payment, all inside one transaction. Resubmission for an
// already-billed period takes the update path, so the operation is idempotent on
// (student, month, year): a create that loses the race to the unique index is
// retried once as an update.
func (e *Engine) CommitBilling(ctx context.Context, req CommitRequest) (*CommitResult, error) {
	if err := validateCommitRequest(req); err != nil {
		return nil, err
	}

	res, err := e.commitOnce(ctx, req)
	if errors.Is(err, ErrRecordExists) {
		// Concurrent creation for the same student and period: the record is there
		// now, so the update path applies.
		res, err = e.commitOnce(ctx, req)
	}
	return res, err
}

func validateCommitRequest(req CommitRequest) error {
	if !req.Period.Valid() {
		return fmt.Errorf("period %d/%d: %w", req.Period.Month, req.Period.Year, ErrInvalidAmount)
	}
	if req.Fine.IsNegative() {
		return fmt.Errorf("fine: %w", ErrInvalidAmount)
	}
	for _, it := range req.ExtraItems {
		if it.Amount.IsNegative() {
			return fmt.Errorf("charge item %q: %w", it.Title, ErrInvalidAmount)
		}
	}
	return nil
}

func (e *Engine) commitOnce(ctx context.Context, req CommitRequest) (*CommitResult, error) {
	var result *CommitResult
	err := e.repo.InTx(ctx, func(tx Tx) error {
		snap, err := tx.StudentSnapshot(req.StudentID, req.Period)
		if err != nil {
			return err
		}

		var account *models.OnlineAccount
		if req.Payment.OnlinePaid.IsPositive() && req.Payment.OnlineAccountID != nil && *req.Payment.OnlineAccountID != "" {
			account, err = tx.OnlineAccount(*req.Payment.OnlineAccountID)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return err
			}
		}
		if err := ValidatePayment(req.Payment, account); err != nil {
			return err
		}

		now := e.clock()
		payment := req.Payment
		if payment.PaymentDate.IsZero() {
			payment.PaymentDate = now
		}
		if payment.ReceivedBy == "" {
			payment.ReceivedBy = systemUser
		}

		if existing := snap.RecordFor(req.Period); existing != nil {
			result, err = e.updateExisting(tx, snap, existing, req, payment, now)
		} else {
			result, err = e.createNew(tx, snap, req, payment, now)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// createNew is the first-bill path for a period: freeze fees and previous dues,
// fold in catalogue charges and unpaid fines, record payments, then backfill any
// silent gap months.
func (e *Engine) createNew(tx Tx, snap *Snapshot, req CommitRequest, payment PaymentInput, now time.Time) (*CommitResult, error) {
	quote, err := ResolveFeeSchedule(snap, req.Period)
	if err != nil {
		return nil, err
	}

	lines := AggregateExtraCharges(snap)
	for _, it := range req.ExtraItems {
		lines = append(lines, ChargeLine{SourceID: it.ExtraChargeID, Title: it.Title, Amount: it.Amount})
	}
	misc := SumChargeLines(lines)
	monthlyMisc := SumMonthlyChargeLines(lines)
	prev := ResolvePreviousDues(snap, req.Period, quote.Tuition, monthlyMisc)

	record := &models.BillingRecord{
		ID:                   uuid.NewString(),
		StudentID:            snap.Student.ID,
		ForMonth:             req.Period.Month,
		ForYear:              req.Period.Year,
		TuitionFee:           quote.Tuition,
		AdmissionFee:         quote.Admission,
		Fine:                 req.Fine,
		MiscellaneousCharges: misc,
		PreviousDues:         prev.Amount,
		Remarks:              prev.Remark,
		CreatedBy:            payment.ReceivedBy,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	record.Dues = record.TotalPayable()

	if err := tx.InsertBillingRecord(record); err != nil {
		return nil, err
	}

	result := &CommitResult{BillingRecordID: record.ID, SalaryDeducted: decimal.Zero}
	totalPaid := decimal.Zero

	if ded := ComputeSalaryDeduction(snap, quote.Tuition, quote.Admission, misc, prev.Amount); ded != nil && ded.FinalDeduction.IsPositive() {
		totalPaid, err = e.applyDeduction(tx, record, ded, req.Period, now, totalPaid)
		if err != nil {
			return nil, err
		}
		result.SalaryDeducted = ded.FinalDeduction
	}

	if payment.AmountPaid.IsPositive() {
		txn := NewTransaction(record.ID, payment, req.Period)
		if err := tx.InsertTransaction(txn); err != nil {
			return nil, err
		}
		if err := SettleRecord(record, totalPaid, txn.AmountPaid); err != nil {
			return nil, err
		}
		totalPaid = totalPaid.Add(txn.AmountPaid)
		result.TransactionID = txn.ID
		result.ReceiptNo = txn.ReceiptNo
	}

	if err := tx.UpdateBillingRecord(record); err != nil {
		return nil, err
	}

	for _, line := range lines {
		if line.IsFine {
			if err := tx.SettleFine(line.SourceID, record.ID, now); err != nil {
				return nil, err
			}
		} else if line.SourceID != "" {
			err := tx.InsertChargeHistory(&models.ChargePaymentHistory{
				ID:              uuid.NewString(),
				StudentID:       snap.Student.ID,
				ExtraChargeID:   line.SourceID,
				ClassID:         snap.Student.ClassID,
				BillingRecordID: record.ID,
				Amount:          line.Amount,
				CreatedAt:       now,
			})
			if err != nil {
				return nil, err
			}
		}
	}

	if record.AdmissionFee.IsPositive() && !snap.Student.AdmissionFeePaid {
		if err := tx.MarkAdmissionFeePaid(snap.Student.ID); err != nil {
			return nil, err
		}
	}

	for _, rec := range PlanBackfill(snap, record, quote.Tuition, monthlyMisc, now) {
		rec.ID = uuid.NewString()
		if err := tx.InsertBillingRecord(rec); err != nil {
			return nil, err
		}
		result.BackfilledCount++
	}

	for _, rr := range CarryForwardRemarks(snap, record, totalPaid) {
		if err := tx.AnnotateBillingRecord(rr.RecordID, rr.Remark); err != nil {
			return nil, err
		}
	}

	if totalPaid.IsPositive() {
		if err := e.notifyFeeReceived(tx, snap, record, result.TransactionID, totalPaid, now); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// updateExisting is the resubmission path: strictly additive amendment of misc and
// fine, then a payment against the existing record. Frozen fields never change.
func (e *Engine) updateExisting(tx Tx, snap *Snapshot, record *models.BillingRecord, req CommitRequest, payment PaymentInput, now time.Time) (*CommitResult, error) {
	addMisc := decimal.Zero
	for _, it := range req.ExtraItems {
		addMisc = addMisc.Add(it.Amount)
	}
	hasNewCharges := addMisc.IsPositive() || req.Fine.IsPositive()

	if !record.Dues.IsPositive() && !hasNewCharges {
		return nil, fmt.Errorf("record %s for %s: %w", record.ID, RecordPeriod(record), ErrAlreadySettled)
	}

	if err := AmendRecord(record, addMisc, req.Fine); err != nil {
		return nil, err
	}

	result := &CommitResult{BillingRecordID: record.ID, SalaryDeducted: decimal.Zero, Updated: true}
	totalPaid := record.TotalPaid()

	if snap.DeductionForRecord(record.ID) == nil {
		if ded := ComputeSalaryDeduction(snap, record.TuitionFee, record.AdmissionFee,
			record.MiscellaneousCharges, record.PreviousDues); ded != nil {
			CapDeductionAtDues(ded, record.Dues)
			if ded.FinalDeduction.IsPositive() {
				var err error
				totalPaid, err = e.applyDeduction(tx, record, ded, req.Period, now, totalPaid)
				if err != nil {
					return nil, err
				}
				result.SalaryDeducted = ded.FinalDeduction
			}
		}
	}

	if payment.AmountPaid.IsPositive() {
		txn := NewTransaction(record.ID, payment, req.Period)
		if err := tx.InsertTransaction(txn); err != nil {
			return nil, err
		}
		if err := SettleRecord(record, totalPaid, txn.AmountPaid); err != nil {
			return nil, err
		}
		totalPaid = totalPaid.Add(txn.AmountPaid)
		result.TransactionID = txn.ID
		result.ReceiptNo = txn.ReceiptNo
	}

	record.UpdatedAt = now
	if err := tx.UpdateBillingRecord(record); err != nil {
		return nil, err
	}

	for _, it := range req.ExtraItems {
		if it.ExtraChargeID == "" {
			continue
		}
		err := tx.InsertChargeHistory(&models.ChargePaymentHistory{
			ID:              uuid.NewString(),
			StudentID:       snap.Student.ID,
			ExtraChargeID:   it.ExtraChargeID,
			ClassID:         snap.Student.ClassID,
			BillingRecordID: record.ID,
			Amount:          it.Amount,
			CreatedAt:       now,
		})
		if err != nil {
			return nil, err
		}
	}

	if payment.AmountPaid.IsPositive() || result.SalaryDeducted.IsPositive() {
		paid := payment.AmountPaid.Add(result.SalaryDeducted)
		if err := e.notifyFeeReceived(tx, snap, record, result.TransactionID, paid, now); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// applyDeduction persists a salary deduction record and its mirrored zero-cash
// transaction, settling the record by the deducted amount.
func (e *Engine) applyDeduction(tx Tx, record *models.BillingRecord, ded *DeductionResult, period Period, now time.Time, totalPaid decimal.Decimal) (decimal.Decimal, error) {
	err := tx.InsertSalaryDeduction(&models.SalaryDeductionRecord{
		ID:              uuid.NewString(),
		BillingRecordID: record.ID,
		StaffID:         ded.StaffID,
		StudentID:       record.StudentID,
		ForMonth:        period.Month,
		ForYear:         period.Year,
		Amount:          ded.FinalDeduction,
		CreatedAt:       now,
	})
	if err != nil {
		return totalPaid, err
	}
	mirror := NewSalaryTransaction(record.ID, ded.FinalDeduction, period, now)
	if err := tx.InsertTransaction(mirror); err != nil {
		return totalPaid, err
	}
	if err := SettleRecord(record, totalPaid, ded.FinalDeduction); err != nil {
		return totalPaid, err
	}
	return totalPaid.Add(ded.FinalDeduction), nil
}

func (e *Engine) notifyFeeReceived(tx Tx, snap *Snapshot, record *models.BillingRecord, transactionID string, paid decimal.Decimal, now time.Time) error {
	n := &models.FeeNotification{
		ID:              uuid.NewString(),
		StudentID:       snap.Student.ID,
		BillingRecordID: record.ID,
		Message: fmt.Sprintf("Fee of %s received for %s (%s). Outstanding dues: %s.",
			paid.StringFixed(2), snap.Student.FullName(), RecordPeriod(record), record.Dues.StringFixed(2)),
		Status:    models.NotificationPending,
		CreatedAt: now,
	}
	if transactionID != "" {
		n.TransactionID = &transactionID
	}
	return tx.InsertNotification(n)
}

// GetUnpaidFines lists the student's outstanding fine charges.
func (e *Engine) GetUnpaidFines(ctx context.Context, studentID string) ([]*models.StudentFineCharge, error) {
	var fines []*models.StudentFineCharge
	err := e.repo.InTx(ctx, func(tx Tx) error {
		var err error
		fines, err = tx.UnpaidFines(studentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return fines, nil
}

// GetLedgerHistory returns the student's billing records with linked transactions
// inside the date range, for reporting.
func (e *Engine) GetLedgerHistory(ctx context.Context, studentID string, from, to time.Time) ([]*models.BillingRecord, error) {
	var records []*models.BillingRecord
	err := e.repo.InTx(ctx, func(tx Tx) error {
		var err error
		records, err = tx.LedgerHistory(studentID, from, to)
		return err
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
