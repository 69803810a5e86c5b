package billing

import (
	"github.com/azimystic/UTS-SMS-sub001/app/models"
)

// Snapshot is everything the engine needs to bill one student for one period,
// loaded in a single pass so every computation is a pure function over it.
type Snapshot struct {
	Student     models.Student
	FeeSchedule *models.ClassFeeSchedule

	// History holds every billing record for the student, transactions included,
	// ordered by (year, month) ascending.
	History []*models.BillingRecord

	// Charges is the active extra-charge catalogue for the student's class and
	// campus, targeting rows included.
	Charges []*models.ExtraCharge

	// UnpaidFines are the student's active, unsettled fine charges.
	UnpaidFines []*models.StudentFineCharge

	// ChargeHistory holds the student's settled non-fine charges, for the
	// once-per-lifetime and once-per-class eligibility checks.
	ChargeHistory []*models.ChargePaymentHistory

	// SalaryLink, Salary and SiblingDeductions are populated only when the student
	// has an active staff salary arrangement. SiblingDeductions holds every
	// deduction already recorded against the staff member's pool for the target
	// period, across all linked students.
	SalaryLink        *models.StaffSalaryLink
	Salary            *models.SalaryDefinition
	SiblingDeductions []*models.SalaryDeductionRecord
}

// RecordPeriod returns the billing period a record belongs to.
func RecordPeriod(r *models.BillingRecord) Period {
	return Period{Month: r.ForMonth, Year: r.ForYear}
}

// RecordFor returns the student's billing record for the given period, or nil.
func (s *Snapshot) RecordFor(p Period) *models.BillingRecord {
	for _, r := range s.History {
		if r.ForMonth == p.Month && r.ForYear == p.Year {
			return r
		}
	}
	return nil
}

// LatestRecordBefore returns the latest record strictly earlier than the given
// period, ordered by (year, month), or nil when the ledger has nothing earlier.
func (s *Snapshot) LatestRecordBefore(p Period) *models.BillingRecord {
	var latest *models.BillingRecord
	for _, r := range s.History {
		if !RecordPeriod(r).Before(p) {
			continue
		}
		if latest == nil || RecordPeriod(latest).Before(RecordPeriod(r)) {
			latest = r
		}
	}
	return latest
}

// LatestRecordExcept returns the student's latest record other than the one with
// the given id, or nil. The backfill planner walks from it to the new record.
func (s *Snapshot) LatestRecordExcept(recordID string) *models.BillingRecord {
	var latest *models.BillingRecord
	for _, r := range s.History {
		if r.ID == recordID {
			continue
		}
		if latest == nil || RecordPeriod(latest).Before(RecordPeriod(r)) {
			latest = r
		}
	}
	return latest
}

// DeductionForRecord returns the salary deduction already recorded against the
// given billing record, if any.
func (s *Snapshot) DeductionForRecord(recordID string) *models.SalaryDeductionRecord {
	for _, d := range s.SiblingDeductions {
		if d.BillingRecordID == recordID {
			return d
		}
	}
	return nil
}
