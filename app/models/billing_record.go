package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingRecord is the per-student ledger entry for one billing period. Uniquely
// identified by (student, for_month, for_year); enforced by a unique index.
// TuitionFee, AdmissionFee and PreviousDues are frozen at creation; only
// MiscellaneousCharges, Fine and Dues evolve afterwards. Records are never deleted,
// only annotated through Remarks.
type BillingRecord struct {
	ID                   string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID            string          `json:"student_id" gorm:"not null;uniqueIndex:idx_student_period;type:uuid" validate:"required,uuid"`
	ForMonth             int             `json:"for_month" gorm:"not null;uniqueIndex:idx_student_period" validate:"required,min=1,max=12"`
	ForYear              int             `json:"for_year" gorm:"not null;uniqueIndex:idx_student_period" validate:"required"`
	TuitionFee           decimal.Decimal `json:"tuition_fee" gorm:"not null;type:numeric(12,2)"`
	AdmissionFee         decimal.Decimal `json:"admission_fee" gorm:"not null;type:numeric(12,2);default:0"`
	Fine                 decimal.Decimal `json:"fine" gorm:"not null;type:numeric(12,2);default:0"`
	MiscellaneousCharges decimal.Decimal `json:"miscellaneous_charges" gorm:"not null;type:numeric(12,2);default:0"`
	PreviousDues         decimal.Decimal `json:"previous_dues" gorm:"not null;type:numeric(12,2);default:0"`
	Dues                 decimal.Decimal `json:"dues" gorm:"not null;type:numeric(12,2);default:0"`
	Remarks              string          `json:"remarks" gorm:"type:text"`
	CreatedBy            string          `json:"created_by" gorm:"not null;default:'System'"`
	CreatedAt            time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt            time.Time       `json:"updated_at" gorm:"autoUpdateTime"`

	Transactions []*PaymentTransaction `json:"transactions,omitempty" gorm:"foreignKey:BillingRecordID;references:ID"`
}

// TotalPayable returns tuition + admission + fine + misc + previous dues.
func (r *BillingRecord) TotalPayable() decimal.Decimal {
	return r.TuitionFee.
		Add(r.AdmissionFee).
		Add(r.Fine).
		Add(r.MiscellaneousCharges).
		Add(r.PreviousDues)
}

// TotalPaid sums the amount paid across the record's loaded transactions.
func (r *BillingRecord) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, t := range r.Transactions {
		total = total.Add(t.AmountPaid)
	}
	return total
}
