package billing

import (
	"github.com/shopspring/decimal"

	"github.com/azimystic/UTS-SMS-sub001/app/models"
)

// ChargeLine is one extra-charge or fine line item on a proposed bill.
type ChargeLine struct {
	SourceID string                `json:"source_id"`
	Title    string                `json:"title"`
	Category models.ChargeCategory `json:"category"`
	Amount   decimal.Decimal       `json:"amount"`
	// IsFine marks lines that came from the student's unpaid fine charges; these
	// settle the fine row when the bill is paid.
	IsFine bool `json:"is_fine"`
}

// SumChargeLines totals the amounts of the given lines.
func SumChargeLines(lines []ChargeLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}

// SumMonthlyChargeLines totals only the recurring monthly catalogue lines. One-shot
// charges, fines and ad hoc items belong to the month that raised them, so this is
// the misc figure that repeats into unbilled gap months.
func SumMonthlyChargeLines(lines []ChargeLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if l.IsFine || l.Category != models.ChargeMonthly {
			continue
		}
		total = total.Add(l.Amount)
	}
	return total
}

// AggregateExtraCharges resolves which catalogue charges and unpaid fines apply to
// the snapshot's student for a new bill. When a billing record already exists for
// the period the caller must not invoke this: charges were frozen into that record
// and this component contributes zero.
func AggregateExtraCharges(snap *Snapshot) []ChargeLine {
	var lines []ChargeLine

	for _, c := range snap.Charges {
		if !chargeTargetsStudent(c, snap.Student.ID, snap.Student.ClassID, snap.Student.CampusID) {
			continue
		}
		if !chargeCategoryEligible(c, snap) {
			continue
		}
		lines = append(lines, ChargeLine{
			SourceID: c.ID,
			Title:    c.Name,
			Category: c.Category,
			Amount:   c.Amount,
		})
	}

	// Unpaid fines are always folded in, regardless of category rules.
	for _, f := range snap.UnpaidFines {
		lines = append(lines, ChargeLine{
			SourceID: f.ID,
			Title:    f.Title,
			Category: models.ChargeFine,
			Amount:   f.Amount,
			IsFine:   true,
		})
	}

	return lines
}

// chargeTargetsStudent applies class/campus scoping and the inclusion/exclusion
// targeting rows.
func chargeTargetsStudent(c *models.ExtraCharge, studentID, classID, campusID string) bool {
	if !c.IsActive || c.DeletedAt != nil {
		return false
	}
	if c.ClassID != nil {
		if *c.ClassID != classID {
			return false
		}
	} else if c.CampusID != campusID {
		return false
	}

	hasInclusions := false
	for _, t := range c.Targets {
		if t.Excluded {
			if t.StudentID == studentID {
				return false
			}
			continue
		}
		hasInclusions = true
		if t.StudentID == studentID {
			return true
		}
	}
	return !hasInclusions
}

// chargeCategoryEligible enforces the recurrence rule for a charge category:
// monthly charges always apply, once-per-lifetime applies until the student has
// ever settled the charge, once-per-class applies until the student has settled it
// while enrolled in the current class.
func chargeCategoryEligible(c *models.ExtraCharge, snap *Snapshot) bool {
	switch c.Category {
	case models.ChargeMonthly:
		return true
	case models.ChargeOncePerLifetime:
		for _, h := range snap.ChargeHistory {
			if h.ExtraChargeID == c.ID {
				return false
			}
		}
		return true
	case models.ChargeOncePerClass:
		for _, h := range snap.ChargeHistory {
			if h.ExtraChargeID == c.ID && h.ClassID == snap.Student.ClassID {
				return false
			}
		}
		return true
	default:
		// Catalogue fines are ad hoc; they reach the bill through StudentFineCharge
		// rows, never through the schedule.
		return false
	}
}
