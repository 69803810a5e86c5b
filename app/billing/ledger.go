package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/azimystic/UTS-SMS-sub001/app/models"
)

const (
	remarkNoPreviousRecord = "no previous dues record found"
	remarkSyntheticMonth   = "system-generated missing month record"
	systemUser             = "System"
)

// PreviousDues is the carried-forward balance resolved for a new billing record,
// frozen into it at creation.
type PreviousDues struct {
	Amount    decimal.Decimal `json:"amount"`
	Remark    string          `json:"remark"`
	MonthsGap int             `json:"months_gap"`
}

// ResolvePreviousDues computes the balance carried into a new record for the target
// period: the leftover of the latest earlier record, plus one month of tuition and
// recurring monthly charges for every wholly unbilled month between that record and
// the target. One-shot charges and fines never multiply into the gap. When a record
// already exists for the target period its stored figures are reused verbatim.
func ResolvePreviousDues(snap *Snapshot, period Period, currentTuition, monthlyMisc decimal.Decimal) PreviousDues {
	if existing := snap.RecordFor(period); existing != nil {
		return PreviousDues{Amount: existing.PreviousDues, Remark: existing.Remarks}
	}

	last := snap.LatestRecordBefore(period)
	if last == nil {
		return PreviousDues{Amount: decimal.Zero, Remark: remarkNoPreviousRecord}
	}

	lastPayable := last.TotalPayable()
	lastPaid := last.TotalPaid()
	baseDues := lastPayable.Sub(lastPaid)

	monthsGap := period.MonthsSince(RecordPeriod(last)) - 1
	remark := fmt.Sprintf("dues of %s carried forward from %s", baseDues.StringFixed(2), RecordPeriod(last))
	if monthsGap > 0 {
		gapCharge := currentTuition.Add(monthlyMisc).Mul(decimal.NewFromInt(int64(monthsGap)))
		baseDues = baseDues.Add(gapCharge)
		remark = fmt.Sprintf("%s; %d unbilled month(s) added at %s each",
			remark, monthsGap, currentTuition.Add(monthlyMisc).StringFixed(2))
	}

	return PreviousDues{Amount: baseDues, Remark: remark, MonthsGap: monthsGap}
}

// PlanBackfill returns the synthetic records that plug every wholly unbilled month
// between the student's latest other record and a newly created record. Each carries
// the current tuition and recurring monthly charges with full dues outstanding;
// admission, one-shot charges and fines stay on the record that raised them. Only
// the create path plans backfill; edits never do.
func PlanBackfill(snap *Snapshot, newRecord *models.BillingRecord, tuition, monthlyMisc decimal.Decimal, now time.Time) []*models.BillingRecord {
	anchor := snap.LatestRecordExcept(newRecord.ID)
	if anchor == nil {
		return nil
	}

	from, to := RecordPeriod(anchor), RecordPeriod(newRecord)
	if to.Before(from) {
		from, to = to, from
	}

	var synthetic []*models.BillingRecord
	for p := from.Next(); p.Before(to); p = p.Next() {
		if snap.RecordFor(p) != nil {
			continue
		}
		rec := &models.BillingRecord{
			StudentID:            snap.Student.ID,
			ForMonth:             p.Month,
			ForYear:              p.Year,
			TuitionFee:           tuition,
			AdmissionFee:         decimal.Zero,
			Fine:                 decimal.Zero,
			MiscellaneousCharges: monthlyMisc,
			PreviousDues:         decimal.Zero,
			Remarks:              remarkSyntheticMonth,
			CreatedBy:            systemUser,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		rec.Dues = rec.TotalPayable()
		synthetic = append(synthetic, rec)
	}
	return synthetic
}

// RecordRemark is a bookkeeping annotation appended to an earlier record when its
// leftover balance was transferred forward. It never changes the old record's
// stored dues.
type RecordRemark struct {
	RecordID string
	Remark   string
}

// CarryForwardRemarks annotates every earlier record still showing dues once the
// new bill's payments cover the carried-forward balance.
func CarryForwardRemarks(snap *Snapshot, newRecord *models.BillingRecord, totalPaid decimal.Decimal) []RecordRemark {
	if totalPaid.LessThan(newRecord.PreviousDues) {
		return nil
	}

	target := RecordPeriod(newRecord)
	var remarks []RecordRemark
	for _, r := range snap.History {
		if r.ID == newRecord.ID || !RecordPeriod(r).Before(target) {
			continue
		}
		if !r.Dues.IsPositive() {
			continue
		}
		remarks = append(remarks, RecordRemark{
			RecordID: r.ID,
			Remark: fmt.Sprintf("dues of %s transferred to %s record",
				r.Dues.StringFixed(2), target),
		})
	}
	return remarks
}

// RecordState tracks the explicit billing record life cycle. A record is Created
// with frozen tuition/admission/previousDues, may be Amended by adding misc or fine
// charges, and becomes Settled when its dues reach zero. These three states and the
// two transition functions below are the only legal mutations.
type RecordState int

const (
	StateCreated RecordState = iota
	StateAmended
	StateSettled
)

func (s RecordState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateAmended:
		return "amended"
	case StateSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// StateOf derives the record's current state from its stored figures.
func StateOf(r *models.BillingRecord) RecordState {
	if !r.Dues.IsPositive() {
		return StateSettled
	}
	if r.MiscellaneousCharges.IsPositive() || r.Fine.IsPositive() {
		return StateAmended
	}
	return StateCreated
}

// AmendRecord is transition one: add misc and fine charges to an existing record.
// Strictly additive; tuition, admission and previous dues never change after
// creation. Dues grow by exactly the added amounts.
func AmendRecord(r *models.BillingRecord, addMisc, addFine decimal.Decimal) error {
	if addMisc.IsNegative() || addFine.IsNegative() {
		return fmt.Errorf("amendment must be additive: %w", ErrInvalidAmount)
	}
	r.MiscellaneousCharges = r.MiscellaneousCharges.Add(addMisc)
	r.Fine = r.Fine.Add(addFine)
	r.Dues = r.Dues.Add(addMisc).Add(addFine)
	return nil
}

// SettleRecord is transition two: apply a payment amount to the record's dues.
// totalAlreadyPaid is the sum of transactions linked before this payment, so the
// dues identity dues = totalPayable − sum(transactions) holds exactly.
func SettleRecord(r *models.BillingRecord, totalAlreadyPaid, payment decimal.Decimal) error {
	if payment.IsNegative() {
		return fmt.Errorf("payment cannot be negative: %w", ErrInvalidAmount)
	}
	r.Dues = r.TotalPayable().Sub(totalAlreadyPaid).Sub(payment)
	return nil
}
