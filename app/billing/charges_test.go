package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/azimystic/UTS-SMS-sub001/app/models"
)

func catalogueCharge(id string, category models.ChargeCategory, amount string) *models.ExtraCharge {
	return &models.ExtraCharge{
		ID:       id,
		Name:     "Charge " + id,
		Amount:   dec(amount),
		Category: category,
		CampusID: "campus-1",
		IsActive: true,
	}
}

func TestAggregateExtraChargesMonthlyAlwaysApplies(t *testing.T) {
	snap := baseSnapshot()
	snap.Charges = []*models.ExtraCharge{catalogueCharge("lunch", models.ChargeMonthly, "300")}
	snap.ChargeHistory = []*models.ChargePaymentHistory{
		{ExtraChargeID: "lunch", ClassID: "class-1"},
	}

	lines := AggregateExtraCharges(snap)
	assert.Len(t, lines, 1)
	assert.True(t, dec("300").Equal(SumChargeLines(lines)))
}

func TestAggregateExtraChargesOncePerLifetime(t *testing.T) {
	snap := baseSnapshot()
	snap.Charges = []*models.ExtraCharge{catalogueCharge("uniform", models.ChargeOncePerLifetime, "800")}

	assert.Len(t, AggregateExtraCharges(snap), 1)

	// Settled once anywhere, never again.
	snap.ChargeHistory = []*models.ChargePaymentHistory{
		{ExtraChargeID: "uniform", ClassID: "old-class"},
	}
	assert.Empty(t, AggregateExtraCharges(snap))
}

func TestAggregateExtraChargesOncePerClass(t *testing.T) {
	snap := baseSnapshot()
	snap.Charges = []*models.ExtraCharge{catalogueCharge("books", models.ChargeOncePerClass, "600")}

	// Settled in a previous class: applies again in the current class.
	snap.ChargeHistory = []*models.ChargePaymentHistory{
		{ExtraChargeID: "books", ClassID: "old-class"},
	}
	assert.Len(t, AggregateExtraCharges(snap), 1)

	// Settled in the current class: no longer applies.
	snap.ChargeHistory = append(snap.ChargeHistory,
		&models.ChargePaymentHistory{ExtraChargeID: "books", ClassID: "class-1"})
	assert.Empty(t, AggregateExtraCharges(snap))
}

func TestAggregateExtraChargesTargeting(t *testing.T) {
	excluded := catalogueCharge("trip", models.ChargeMonthly, "500")
	excluded.Targets = []*models.ExtraChargeTarget{
		{ExtraChargeID: "trip", StudentID: "student-1", Excluded: true},
	}

	included := catalogueCharge("club", models.ChargeMonthly, "200")
	included.Targets = []*models.ExtraChargeTarget{
		{ExtraChargeID: "club", StudentID: "someone-else"},
	}

	snap := baseSnapshot()
	snap.Charges = []*models.ExtraCharge{excluded, included}

	// Excluded by name on one, not on the inclusion list of the other.
	assert.Empty(t, AggregateExtraCharges(snap))

	included.Targets = append(included.Targets,
		&models.ExtraChargeTarget{ExtraChargeID: "club", StudentID: "student-1"})
	lines := AggregateExtraCharges(snap)
	assert.Len(t, lines, 1)
	assert.Equal(t, "club", lines[0].SourceID)
}

func TestAggregateExtraChargesClassScoping(t *testing.T) {
	otherClass := "class-2"
	charge := catalogueCharge("lab", models.ChargeMonthly, "400")
	charge.ClassID = &otherClass

	snap := baseSnapshot()
	snap.Charges = []*models.ExtraCharge{charge}
	assert.Empty(t, AggregateExtraCharges(snap))

	thisClass := "class-1"
	charge.ClassID = &thisClass
	assert.Len(t, AggregateExtraCharges(snap), 1)
}

func TestAggregateExtraChargesFoldsUnpaidFines(t *testing.T) {
	snap := baseSnapshot()
	snap.UnpaidFines = []*models.StudentFineCharge{
		{ID: "fine-1", StudentID: "student-1", Title: "Broken window", Amount: dec("200"), IsActive: true},
	}

	lines := AggregateExtraCharges(snap)
	assert.Len(t, lines, 1)
	assert.True(t, lines[0].IsFine)
	assert.Equal(t, "fine-1", lines[0].SourceID)
	assert.True(t, dec("200").Equal(lines[0].Amount))
}

func TestAggregateExtraChargesSkipsCatalogueFines(t *testing.T) {
	snap := baseSnapshot()
	snap.Charges = []*models.ExtraCharge{catalogueCharge("late", models.ChargeFine, "100")}

	assert.Empty(t, AggregateExtraCharges(snap))
}

func TestSumMonthlyChargeLines(t *testing.T) {
	lines := []ChargeLine{
		{SourceID: "lunch", Category: models.ChargeMonthly, Amount: dec("300")},
		{SourceID: "uniform", Category: models.ChargeOncePerLifetime, Amount: dec("800")},
		{SourceID: "fine-1", Category: models.ChargeFine, Amount: dec("200"), IsFine: true},
	}

	assert.True(t, dec("1300").Equal(SumChargeLines(lines)))
	assert.True(t, dec("300").Equal(SumMonthlyChargeLines(lines)))
}
