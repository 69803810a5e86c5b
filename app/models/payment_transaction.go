package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentTransaction records one payment event against a billing record. Immutable
// once created. AmountPaid = CashPaid + OnlinePaid + SalaryDeducted, exactly; for
// payments submitted by a cashier SalaryDeducted is zero, and for the mirrored
// salary-deduction entry cash and online are both zero.
type PaymentTransaction struct {
	ID              string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	BillingRecordID string          `json:"billing_record_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	AmountPaid      decimal.Decimal `json:"amount_paid" gorm:"not null;type:numeric(12,2)"`
	CashPaid        decimal.Decimal `json:"cash_paid" gorm:"not null;type:numeric(12,2);default:0"`
	OnlinePaid      decimal.Decimal `json:"online_paid" gorm:"not null;type:numeric(12,2);default:0"`
	SalaryDeducted  decimal.Decimal `json:"salary_deducted" gorm:"not null;type:numeric(12,2);default:0"`
	OnlineAccountID *string         `json:"online_account_id,omitempty" gorm:"index;type:uuid"`
	ReceiptNo       string          `json:"receipt_no" gorm:"uniqueIndex;not null"`
	ReceivedBy      string          `json:"received_by" gorm:"not null"`
	PaymentDate     time.Time       `json:"payment_date" gorm:"not null;index"`
	CreatedAt       time.Time       `json:"created_at" gorm:"autoCreateTime"`

	OnlineAccount *OnlineAccount `json:"online_account,omitempty" gorm:"foreignKey:OnlineAccountID;references:ID"`
}
