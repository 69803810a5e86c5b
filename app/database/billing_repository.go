package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/azimystic/UTS-SMS-sub001/app/billing"
	"github.com/azimystic/UTS-SMS-sub001/app/models"
)

// uniqueViolation is the Postgres error code raised by the unique
// (student, month, year) index when two submissions race on record creation.
const uniqueViolation = "23505"

// BillingRepository implements billing.Repository on Postgres. Every billing
// submission runs inside one database transaction; the snapshot load takes a row
// lock on the staff salary definition so sibling pool arithmetic cannot race.
type BillingRepository struct {
	db *sql.DB
}

func NewBillingRepository(db *sql.DB) *BillingRepository {
	return &BillingRepository{db: db}
}

func (r *BillingRepository) InTx(ctx context.Context, fn func(billing.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&billingTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

type billingTx struct {
	tx *sql.Tx
}

func (b *billingTx) StudentSnapshot(studentID string, period billing.Period) (*billing.Snapshot, error) {
	snap := &billing.Snapshot{}

	query := `SELECT id, student_no, first_name, last_name, gender, class_id, campus_id,
			  tuition_discount_percent, admission_discount_percent, admission_fee_paid,
			  registered_at, has_left, is_active, created_at, updated_at
			  FROM students WHERE id = $1 AND deleted_at IS NULL`
	s := &snap.Student
	err := b.tx.QueryRow(query, studentID).Scan(
		&s.ID, &s.StudentNo, &s.FirstName, &s.LastName, &s.Gender, &s.ClassID, &s.CampusID,
		&s.TuitionDiscountPercent, &s.AdmissionDiscountPercent, &s.AdmissionFeePaid,
		&s.RegisteredAt, &s.HasLeft, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("student %s: %w", studentID, billing.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	snap.FeeSchedule, err = b.feeSchedule(s.ClassID, s.CampusID)
	if err != nil {
		return nil, err
	}
	snap.History, err = b.historyWithTransactions(studentID)
	if err != nil {
		return nil, err
	}
	snap.Charges, err = b.chargeCatalogue(s.ClassID, s.CampusID)
	if err != nil {
		return nil, err
	}
	snap.UnpaidFines, err = b.UnpaidFines(studentID)
	if err != nil {
		return nil, err
	}
	snap.ChargeHistory, err = b.chargeHistory(studentID)
	if err != nil {
		return nil, err
	}

	snap.SalaryLink, err = b.activeSalaryLink(studentID)
	if err != nil {
		return nil, err
	}
	if snap.SalaryLink != nil {
		// FOR UPDATE on the salary definition serializes concurrent sibling
		// submissions against the same staff pool.
		snap.Salary, err = b.lockSalaryDefinition(snap.SalaryLink.StaffID)
		if err != nil {
			return nil, err
		}
		if snap.Salary != nil {
			snap.SiblingDeductions, err = b.periodDeductions(snap.SalaryLink.StaffID, period)
			if err != nil {
				return nil, err
			}
		}
	}
	return snap, nil
}

func (b *billingTx) feeSchedule(classID, campusID string) (*models.ClassFeeSchedule, error) {
	fs := &models.ClassFeeSchedule{}
	query := `SELECT id, class_id, campus_id, tuition_fee, admission_fee, created_at, updated_at
			  FROM class_fee_schedules WHERE class_id = $1 AND campus_id = $2`
	err := b.tx.QueryRow(query, classID, campusID).Scan(
		&fs.ID, &fs.ClassID, &fs.CampusID, &fs.TuitionFee, &fs.AdmissionFee,
		&fs.CreatedAt, &fs.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fs, nil
}

func (b *billingTx) historyWithTransactions(studentID string) ([]*models.BillingRecord, error) {
	query := `SELECT id, student_id, for_month, for_year, tuition_fee, admission_fee, fine,
			  miscellaneous_charges, previous_dues, dues, remarks, created_by, created_at, updated_at
			  FROM billing_records
			  WHERE student_id = $1
			  ORDER BY for_year, for_month`
	rows, err := b.tx.Query(query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.BillingRecord
	byID := map[string]*models.BillingRecord{}
	for rows.Next() {
		r := &models.BillingRecord{}
		err := rows.Scan(&r.ID, &r.StudentID, &r.ForMonth, &r.ForYear, &r.TuitionFee,
			&r.AdmissionFee, &r.Fine, &r.MiscellaneousCharges, &r.PreviousDues, &r.Dues,
			&r.Remarks, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
		byID[r.ID] = r
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	txnQuery := `SELECT t.id, t.billing_record_id, t.amount_paid, t.cash_paid, t.online_paid,
				 t.salary_deducted, t.online_account_id, t.receipt_no, t.received_by, t.payment_date, t.created_at
				 FROM payment_transactions t
				 JOIN billing_records r ON r.id = t.billing_record_id
				 WHERE r.student_id = $1
				 ORDER BY t.created_at`
	txnRows, err := b.tx.Query(txnQuery, studentID)
	if err != nil {
		return nil, err
	}
	defer txnRows.Close()

	for txnRows.Next() {
		t := &models.PaymentTransaction{}
		err := txnRows.Scan(&t.ID, &t.BillingRecordID, &t.AmountPaid, &t.CashPaid, &t.OnlinePaid,
			&t.SalaryDeducted, &t.OnlineAccountID, &t.ReceiptNo, &t.ReceivedBy, &t.PaymentDate, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		if r, ok := byID[t.BillingRecordID]; ok {
			r.Transactions = append(r.Transactions, t)
		}
	}
	return records, txnRows.Err()
}

func (b *billingTx) chargeCatalogue(classID, campusID string) ([]*models.ExtraCharge, error) {
	query := `SELECT id, name, amount, category, class_id, campus_id, is_active, created_at, updated_at
			  FROM extra_charges
			  WHERE deleted_at IS NULL AND is_active = true
			  AND (class_id = $1 OR (class_id IS NULL AND campus_id = $2))`
	rows, err := b.tx.Query(query, classID, campusID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charges []*models.ExtraCharge
	byID := map[string]*models.ExtraCharge{}
	for rows.Next() {
		c := &models.ExtraCharge{}
		err := rows.Scan(&c.ID, &c.Name, &c.Amount, &c.Category, &c.ClassID, &c.CampusID,
			&c.IsActive, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		charges = append(charges, c)
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(charges) == 0 {
		return charges, nil
	}

	targetQuery := `SELECT t.id, t.extra_charge_id, t.student_id, t.excluded, t.created_at
					FROM extra_charge_targets t
					JOIN extra_charges c ON c.id = t.extra_charge_id
					WHERE c.deleted_at IS NULL AND c.is_active = true
					AND (c.class_id = $1 OR (c.class_id IS NULL AND c.campus_id = $2))`
	targetRows, err := b.tx.Query(targetQuery, classID, campusID)
	if err != nil {
		return nil, err
	}
	defer targetRows.Close()

	for targetRows.Next() {
		t := &models.ExtraChargeTarget{}
		if err := targetRows.Scan(&t.ID, &t.ExtraChargeID, &t.StudentID, &t.Excluded, &t.CreatedAt); err != nil {
			return nil, err
		}
		if c, ok := byID[t.ExtraChargeID]; ok {
			c.Targets = append(c.Targets, t)
		}
	}
	return charges, targetRows.Err()
}

func (b *billingTx) chargeHistory(studentID string) ([]*models.ChargePaymentHistory, error) {
	query := `SELECT id, student_id, extra_charge_id, class_id, billing_record_id, amount, created_at
			  FROM charge_payment_history WHERE student_id = $1`
	rows, err := b.tx.Query(query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []*models.ChargePaymentHistory
	for rows.Next() {
		h := &models.ChargePaymentHistory{}
		err := rows.Scan(&h.ID, &h.StudentID, &h.ExtraChargeID, &h.ClassID,
			&h.BillingRecordID, &h.Amount, &h.CreatedAt)
		if err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

func (b *billingTx) activeSalaryLink(studentID string) (*models.StaffSalaryLink, error) {
	link := &models.StaffSalaryLink{}
	query := `SELECT id, student_id, staff_id, payment_mode, ratio_percent, is_active, created_at, updated_at
			  FROM staff_salary_links
			  WHERE student_id = $1 AND is_active = true
			  ORDER BY created_at DESC LIMIT 1`
	err := b.tx.QueryRow(query, studentID).Scan(
		&link.ID, &link.StudentID, &link.StaffID, &link.PaymentMode,
		&link.RatioPercent, &link.IsActive, &link.CreatedAt, &link.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return link, nil
}

func (b *billingTx) lockSalaryDefinition(staffID string) (*models.SalaryDefinition, error) {
	def := &models.SalaryDefinition{}
	query := `SELECT id, staff_id, net_salary, created_at, updated_at
			  FROM salary_definitions WHERE staff_id = $1 FOR UPDATE`
	err := b.tx.QueryRow(query, staffID).Scan(
		&def.ID, &def.StaffID, &def.NetSalary, &def.CreatedAt, &def.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return def, nil
}

func (b *billingTx) periodDeductions(staffID string, period billing.Period) ([]*models.SalaryDeductionRecord, error) {
	query := `SELECT id, billing_record_id, staff_id, student_id, for_month, for_year, amount, created_at
			  FROM salary_deduction_records
			  WHERE staff_id = $1 AND for_month = $2 AND for_year = $3`
	rows, err := b.tx.Query(query, staffID, period.Month, period.Year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deductions []*models.SalaryDeductionRecord
	for rows.Next() {
		d := &models.SalaryDeductionRecord{}
		err := rows.Scan(&d.ID, &d.BillingRecordID, &d.StaffID, &d.StudentID,
			&d.ForMonth, &d.ForYear, &d.Amount, &d.CreatedAt)
		if err != nil {
			return nil, err
		}
		deductions = append(deductions, d)
	}
	return deductions, rows.Err()
}

func (b *billingTx) OnlineAccount(id string) (*models.OnlineAccount, error) {
	a := &models.OnlineAccount{}
	query := `SELECT id, name, provider, account_number, is_active, created_at, updated_at
			  FROM online_accounts WHERE id = $1 AND deleted_at IS NULL`
	err := b.tx.QueryRow(query, id).Scan(
		&a.ID, &a.Name, &a.Provider, &a.AccountNumber, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("online account %s: %w", id, billing.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (b *billingTx) UnpaidFines(studentID string) ([]*models.StudentFineCharge, error) {
	query := `SELECT id, student_id, title, amount, is_paid, settled_at, billing_record_id,
			  is_active, created_at, updated_at
			  FROM student_fine_charges
			  WHERE student_id = $1 AND is_paid = false AND is_active = true AND deleted_at IS NULL
			  ORDER BY created_at`
	rows, err := b.tx.Query(query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fines []*models.StudentFineCharge
	for rows.Next() {
		f := &models.StudentFineCharge{}
		err := rows.Scan(&f.ID, &f.StudentID, &f.Title, &f.Amount, &f.IsPaid, &f.SettledAt,
			&f.BillingRecordID, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
		if err != nil {
			return nil, err
		}
		fines = append(fines, f)
	}
	return fines, rows.Err()
}

func (b *billingTx) LedgerHistory(studentID string, from, to time.Time) ([]*models.BillingRecord, error) {
	records, err := b.historyWithTransactions(studentID)
	if err != nil {
		return nil, err
	}
	if from.IsZero() && to.IsZero() {
		return records, nil
	}

	var filtered []*models.BillingRecord
	for _, r := range records {
		periodStart := time.Date(r.ForYear, time.Month(r.ForMonth), 1, 0, 0, 0, 0, time.UTC)
		if !from.IsZero() && periodStart.Before(from) {
			continue
		}
		if !to.IsZero() && periodStart.After(to) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered, nil
}

func (b *billingTx) InsertBillingRecord(r *models.BillingRecord) error {
	query := `INSERT INTO billing_records (id, student_id, for_month, for_year, tuition_fee,
			  admission_fee, fine, miscellaneous_charges, previous_dues, dues, remarks, created_by,
			  created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := b.tx.Exec(query, r.ID, r.StudentID, r.ForMonth, r.ForYear, r.TuitionFee,
		r.AdmissionFee, r.Fine, r.MiscellaneousCharges, r.PreviousDues, r.Dues, r.Remarks,
		r.CreatedBy, r.CreatedAt, r.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("student %s %d/%d: %w", r.StudentID, r.ForMonth, r.ForYear, billing.ErrRecordExists)
	}
	return err
}

func (b *billingTx) UpdateBillingRecord(r *models.BillingRecord) error {
	query := `UPDATE billing_records
			  SET fine = $1, miscellaneous_charges = $2, dues = $3, remarks = $4, updated_at = $5
			  WHERE id = $6`
	_, err := b.tx.Exec(query, r.Fine, r.MiscellaneousCharges, r.Dues, r.Remarks, r.UpdatedAt, r.ID)
	return err
}

func (b *billingTx) AnnotateBillingRecord(recordID, remark string) error {
	query := `UPDATE billing_records
			  SET remarks = CASE WHEN remarks = '' THEN $1 ELSE remarks || '; ' || $1 END,
			      updated_at = NOW()
			  WHERE id = $2`
	_, err := b.tx.Exec(query, remark, recordID)
	return err
}

func (b *billingTx) InsertTransaction(t *models.PaymentTransaction) error {
	query := `INSERT INTO payment_transactions (id, billing_record_id, amount_paid, cash_paid,
			  online_paid, salary_deducted, online_account_id, receipt_no, received_by, payment_date, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := b.tx.Exec(query, t.ID, t.BillingRecordID, t.AmountPaid, t.CashPaid, t.OnlinePaid,
		t.SalaryDeducted, t.OnlineAccountID, t.ReceiptNo, t.ReceivedBy, t.PaymentDate, t.CreatedAt)
	return err
}

func (b *billingTx) InsertSalaryDeduction(d *models.SalaryDeductionRecord) error {
	query := `INSERT INTO salary_deduction_records (id, billing_record_id, staff_id, student_id,
			  for_month, for_year, amount, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := b.tx.Exec(query, d.ID, d.BillingRecordID, d.StaffID, d.StudentID,
		d.ForMonth, d.ForYear, d.Amount, d.CreatedAt)
	return err
}

func (b *billingTx) SettleFine(fineID, billingRecordID string, at time.Time) error {
	query := `UPDATE student_fine_charges
			  SET is_paid = true, settled_at = $1, billing_record_id = $2, updated_at = $1
			  WHERE id = $3 AND is_paid = false`
	_, err := b.tx.Exec(query, at, billingRecordID, fineID)
	return err
}

func (b *billingTx) InsertChargeHistory(h *models.ChargePaymentHistory) error {
	query := `INSERT INTO charge_payment_history (id, student_id, extra_charge_id, class_id,
			  billing_record_id, amount, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := b.tx.Exec(query, h.ID, h.StudentID, h.ExtraChargeID, h.ClassID,
		h.BillingRecordID, h.Amount, h.CreatedAt)
	return err
}

func (b *billingTx) MarkAdmissionFeePaid(studentID string) error {
	query := `UPDATE students SET admission_fee_paid = true, updated_at = NOW() WHERE id = $1`
	_, err := b.tx.Exec(query, studentID)
	return err
}

func (b *billingTx) InsertNotification(n *models.FeeNotification) error {
	query := `INSERT INTO fee_notifications (id, student_id, billing_record_id, transaction_id,
			  message, status, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := b.tx.Exec(query, n.ID, n.StudentID, n.BillingRecordID, n.TransactionID,
		n.Message, n.Status, n.CreatedAt)
	return err
}
