package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FeeQuote is the resolved tuition and admission fee for one student and period.
// Frozen is true when the figures were read back from an existing billing record
// instead of being recomputed: once billed, fee schedule edits never retroactively
// alter a period.
type FeeQuote struct {
	Tuition   decimal.Decimal `json:"tuition"`
	Admission decimal.Decimal `json:"admission"`
	Frozen    bool            `json:"frozen"`
}

// ResolveFeeSchedule computes the current-month tuition and admission fee for the
// snapshot's student. When a billing record already exists for the period its stored
// values are authoritative. Returns ErrMissingFeeSchedule when the class has no fee
// schedule at all.
func ResolveFeeSchedule(snap *Snapshot, period Period) (FeeQuote, error) {
	if existing := snap.RecordFor(period); existing != nil {
		return FeeQuote{
			Tuition:   existing.TuitionFee,
			Admission: existing.AdmissionFee,
			Frozen:    true,
		}, nil
	}

	if snap.FeeSchedule == nil {
		return FeeQuote{}, fmt.Errorf("class %s: %w", snap.Student.ClassID, ErrMissingFeeSchedule)
	}

	tuition := applyPercentDiscount(snap.FeeSchedule.TuitionFee, snap.Student.TuitionDiscountPercent)

	admission := decimal.Zero
	if !snap.Student.AdmissionFeePaid {
		admission = applyPercentDiscount(snap.FeeSchedule.AdmissionFee, snap.Student.AdmissionDiscountPercent)
		if admission.IsNegative() {
			admission = decimal.Zero
		}
	}

	return FeeQuote{Tuition: tuition, Admission: admission}, nil
}

// applyPercentDiscount returns amount reduced by the given percentage, rounded to
// two decimal places.
func applyPercentDiscount(amount, percent decimal.Decimal) decimal.Decimal {
	if percent.IsZero() {
		return amount
	}
	discount := amount.Mul(percent).Div(hundred)
	return amount.Sub(discount).Round(2)
}
