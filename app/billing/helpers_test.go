package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/azimystic/UTS-SMS-sub001/app/models"
)

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

var testClock = func() time.Time {
	return time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
}

func baseStudent() models.Student {
	return models.Student{
		ID:               "student-1",
		StudentNo:        "S-001",
		FirstName:        "Amina",
		LastName:         "Kato",
		ClassID:          "class-1",
		CampusID:         "campus-1",
		AdmissionFeePaid: true,
		IsActive:         true,
	}
}

func baseSchedule(tuition, admission string) *models.ClassFeeSchedule {
	return &models.ClassFeeSchedule{
		ID:           "schedule-1",
		ClassID:      "class-1",
		CampusID:     "campus-1",
		TuitionFee:   dec(tuition),
		AdmissionFee: dec(admission),
	}
}

func baseSnapshot() *Snapshot {
	return &Snapshot{
		Student:     baseStudent(),
		FeeSchedule: baseSchedule("5000", "1500"),
	}
}

func recordFor(id string, p Period, tuition, misc, prevDues, dues string) *models.BillingRecord {
	return &models.BillingRecord{
		ID:                   id,
		StudentID:            "student-1",
		ForMonth:             p.Month,
		ForYear:              p.Year,
		TuitionFee:           dec(tuition),
		AdmissionFee:         decimal.Zero,
		Fine:                 decimal.Zero,
		MiscellaneousCharges: dec(misc),
		PreviousDues:         dec(prevDues),
		Dues:                 dec(dues),
		CreatedBy:            "Test Bursar",
	}
}

func paidTransaction(recordID, amount string) *models.PaymentTransaction {
	return &models.PaymentTransaction{
		ID:              "txn-" + recordID,
		BillingRecordID: recordID,
		AmountPaid:      dec(amount),
		CashPaid:        dec(amount),
		ReceivedBy:      "Test Bursar",
	}
}
