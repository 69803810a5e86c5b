package billing

import (
	"github.com/shopspring/decimal"

	"github.com/azimystic/UTS-SMS-sub001/app/models"
)

// SystemSalaryReceiver names the mirrored zero-cash transaction that keeps the
// ledger's paid totals consistent when a bill is offset against a staff salary.
const SystemSalaryReceiver = "System-SalaryDeduction"

// DeductionResult is the outcome of capping a bill against a staff parent's salary
// pool for one period.
type DeductionResult struct {
	StaffID            string          `json:"staff_id"`
	NetSalary          decimal.Decimal `json:"net_salary"`
	UsedSalary         decimal.Decimal `json:"used_salary"`
	AvailableSalary    decimal.Decimal `json:"available_salary"`
	RequestedDeduction decimal.Decimal `json:"requested_deduction"`
	FinalDeduction     decimal.Decimal `json:"final_deduction"`
	CashPayable        decimal.Decimal `json:"cash_payable"`
	Note               string          `json:"note,omitempty"`
}

// ComputeSalaryDeduction caps the current period's tuition+admission+misc against
// the staff member's remaining salary pool. Pool usage is whatever the staff
// member's other linked students have already consumed this period. Previous dues
// are never salary-covered; they stay in the cash-payable portion. Returns nil when
// the student has no active salary arrangement or the staff member has no salary
// definition.
func ComputeSalaryDeduction(snap *Snapshot, tuition, admission, misc, previousDues decimal.Decimal) *DeductionResult {
	link := snap.SalaryLink
	if link == nil || !link.IsActive || snap.Salary == nil {
		return nil
	}

	used := decimal.Zero
	for _, d := range snap.SiblingDeductions {
		used = used.Add(d.Amount)
	}
	available := snap.Salary.NetSalary.Sub(used)

	ratio := hundred
	if link.PaymentMode == models.PayModeCustomRatio {
		ratio = link.RatioPercent
	}
	currentBill := tuition.Add(admission).Add(misc)
	requested := currentBill.Mul(ratio).Div(hundred).Round(2)

	res := &DeductionResult{
		StaffID:            link.StaffID,
		NetSalary:          snap.Salary.NetSalary,
		UsedSalary:         used,
		AvailableSalary:    available,
		RequestedDeduction: requested,
	}

	switch {
	case !available.IsPositive():
		res.FinalDeduction = decimal.Zero
		res.Note = "salary pool exhausted by other linked students for this period"
	case requested.GreaterThan(available):
		res.FinalDeduction = available
		res.Note = "deduction capped at remaining salary pool"
	default:
		res.FinalDeduction = requested
	}

	res.CashPayable = currentBill.Sub(res.FinalDeduction).Add(previousDues)
	return res
}

// CapDeductionAtDues trims a deduction computed against a record's full charges down
// to what the record still owes. Cash and online payments already applied must not be
// deducted from the salary pool a second time.
func CapDeductionAtDues(res *DeductionResult, dues decimal.Decimal) {
	if res == nil {
		return
	}
	if dues.IsNegative() {
		dues = decimal.Zero
	}
	if res.FinalDeduction.GreaterThan(dues) {
		res.FinalDeduction = dues
		res.Note = "deduction capped at remaining record dues"
	}
	res.CashPayable = dues.Sub(res.FinalDeduction)
}
