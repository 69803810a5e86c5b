package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFeeScheduleAppliesDiscounts(t *testing.T) {
	snap := baseSnapshot()
	snap.Student.AdmissionFeePaid = false
	snap.Student.TuitionDiscountPercent = dec("10")
	snap.Student.AdmissionDiscountPercent = dec("50")

	quote, err := ResolveFeeSchedule(snap, Period{Month: 3, Year: 2026})
	require.NoError(t, err)

	assert.True(t, dec("4500").Equal(quote.Tuition), "tuition = %s", quote.Tuition)
	assert.True(t, dec("750").Equal(quote.Admission), "admission = %s", quote.Admission)
	assert.False(t, quote.Frozen)
}

func TestResolveFeeScheduleSkipsAdmissionWhenAlreadyPaid(t *testing.T) {
	snap := baseSnapshot()
	snap.Student.AdmissionFeePaid = true

	quote, err := ResolveFeeSchedule(snap, Period{Month: 3, Year: 2026})
	require.NoError(t, err)

	assert.True(t, quote.Admission.IsZero())
	assert.True(t, dec("5000").Equal(quote.Tuition))
}

func TestResolveFeeScheduleFrozenByExistingRecord(t *testing.T) {
	snap := baseSnapshot()
	period := Period{Month: 3, Year: 2026}
	snap.History = append(snap.History, recordFor("rec-1", period, "4000", "0", "0", "4000"))
	// Fee schedule has since been raised; the stored figures must win.
	snap.FeeSchedule = baseSchedule("9999", "9999")

	quote, err := ResolveFeeSchedule(snap, period)
	require.NoError(t, err)

	assert.True(t, quote.Frozen)
	assert.True(t, dec("4000").Equal(quote.Tuition))
	assert.True(t, quote.Admission.IsZero())
}

func TestResolveFeeScheduleMissingSchedule(t *testing.T) {
	snap := baseSnapshot()
	snap.FeeSchedule = nil

	_, err := ResolveFeeSchedule(snap, Period{Month: 3, Year: 2026})
	assert.ErrorIs(t, err, ErrMissingFeeSchedule)
}

func TestApplyPercentDiscountRounds(t *testing.T) {
	// 3333 at 15% → 2833.05
	got := applyPercentDiscount(dec("3333"), dec("15"))
	assert.True(t, dec("2833.05").Equal(got), "got %s", got)

	// Zero percent leaves the amount untouched.
	assert.True(t, dec("3333").Equal(applyPercentDiscount(dec("3333"), dec("0"))))
}
