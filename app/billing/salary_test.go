package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azimystic/UTS-SMS-sub001/app/models"
)

func salarySnapshot(netSalary string) *Snapshot {
	snap := baseSnapshot()
	snap.SalaryLink = &models.StaffSalaryLink{
		ID:          "link-1",
		StudentID:   "student-1",
		StaffID:     "staff-1",
		PaymentMode: models.PayModeCutFromSalary,
		IsActive:    true,
	}
	snap.Salary = &models.SalaryDefinition{
		ID:        "salary-1",
		StaffID:   "staff-1",
		NetSalary: dec(netSalary),
	}
	return snap
}

func TestComputeSalaryDeductionNoArrangement(t *testing.T) {
	snap := baseSnapshot()
	assert.Nil(t, ComputeSalaryDeduction(snap, dec("5000"), dec("0"), dec("0"), dec("0")))

	snap = salarySnapshot("10000")
	snap.SalaryLink.IsActive = false
	assert.Nil(t, ComputeSalaryDeduction(snap, dec("5000"), dec("0"), dec("0"), dec("0")))

	snap = salarySnapshot("10000")
	snap.Salary = nil
	assert.Nil(t, ComputeSalaryDeduction(snap, dec("5000"), dec("0"), dec("0"), dec("0")))
}

func TestComputeSalaryDeductionFullCoverage(t *testing.T) {
	snap := salarySnapshot("10000")

	res := ComputeSalaryDeduction(snap, dec("5000"), dec("1000"), dec("300"), dec("0"))
	require.NotNil(t, res)

	assert.True(t, dec("6300").Equal(res.RequestedDeduction))
	assert.True(t, dec("6300").Equal(res.FinalDeduction))
	assert.True(t, res.CashPayable.IsZero(), "cash payable = %s", res.CashPayable)
	assert.Empty(t, res.Note)
}

func TestComputeSalaryDeductionCustomRatio(t *testing.T) {
	snap := salarySnapshot("10000")
	snap.SalaryLink.PaymentMode = models.PayModeCustomRatio
	snap.SalaryLink.RatioPercent = dec("40")

	res := ComputeSalaryDeduction(snap, dec("5000"), dec("0"), dec("0"), dec("0"))
	require.NotNil(t, res)

	assert.True(t, dec("2000").Equal(res.FinalDeduction))
	assert.True(t, dec("3000").Equal(res.CashPayable))
}

func TestComputeSalaryDeductionSiblingPoolCap(t *testing.T) {
	// netSalary 10000, first sibling already took 6000: second bill of 6000 is
	// capped at the remaining 4000.
	snap := salarySnapshot("10000")
	snap.SiblingDeductions = []*models.SalaryDeductionRecord{
		{ID: "ded-1", BillingRecordID: "rec-sibling", StaffID: "staff-1",
			StudentID: "student-2", ForMonth: 3, ForYear: 2026, Amount: dec("6000")},
	}

	res := ComputeSalaryDeduction(snap, dec("6000"), dec("0"), dec("0"), dec("0"))
	require.NotNil(t, res)

	assert.True(t, dec("4000").Equal(res.AvailableSalary))
	assert.True(t, dec("4000").Equal(res.FinalDeduction))
	assert.True(t, dec("2000").Equal(res.CashPayable))
	assert.Equal(t, "deduction capped at remaining salary pool", res.Note)
}

func TestComputeSalaryDeductionPoolExhausted(t *testing.T) {
	snap := salarySnapshot("10000")
	snap.SiblingDeductions = []*models.SalaryDeductionRecord{
		{ID: "ded-1", BillingRecordID: "rec-a", StaffID: "staff-1", Amount: dec("7000")},
		{ID: "ded-2", BillingRecordID: "rec-b", StaffID: "staff-1", Amount: dec("3000")},
	}

	res := ComputeSalaryDeduction(snap, dec("5000"), dec("0"), dec("0"), dec("0"))
	require.NotNil(t, res)

	assert.True(t, res.FinalDeduction.IsZero())
	assert.True(t, dec("5000").Equal(res.CashPayable))
	assert.Equal(t, "salary pool exhausted by other linked students for this period", res.Note)
}

func TestComputeSalaryDeductionPreviousDuesStayCash(t *testing.T) {
	snap := salarySnapshot("20000")

	res := ComputeSalaryDeduction(snap, dec("5000"), dec("0"), dec("0"), dec("1500"))
	require.NotNil(t, res)

	// The whole current bill is salary-covered, but carried dues stay payable in cash.
	assert.True(t, dec("5000").Equal(res.FinalDeduction))
	assert.True(t, dec("1500").Equal(res.CashPayable))
}

func TestCapDeductionAtDues(t *testing.T) {
	snap := salarySnapshot("100000")

	// Bill of 5000, but cash payments already brought the record down to 2000.
	res := ComputeSalaryDeduction(snap, dec("5000"), dec("0"), dec("0"), dec("0"))
	require.NotNil(t, res)
	CapDeductionAtDues(res, dec("2000"))

	assert.True(t, dec("2000").Equal(res.FinalDeduction), "deduction = %s", res.FinalDeduction)
	assert.True(t, res.CashPayable.IsZero())
	assert.Equal(t, "deduction capped at remaining record dues", res.Note)

	// A deduction already within the dues is left alone, cash figure aside.
	res = ComputeSalaryDeduction(snap, dec("5000"), dec("0"), dec("0"), dec("0"))
	CapDeductionAtDues(res, dec("8000"))
	assert.True(t, dec("5000").Equal(res.FinalDeduction))
	assert.True(t, dec("3000").Equal(res.CashPayable))
	assert.Empty(t, res.Note)
}
