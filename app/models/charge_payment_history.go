package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChargePaymentHistory records that a student settled a non-fine extra charge. The
// once-per-lifetime and once-per-class eligibility checks read these rows; ClassID is
// the class the student was enrolled in when the charge was settled.
type ChargePaymentHistory struct {
	ID              string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID       string          `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	ExtraChargeID   string          `json:"extra_charge_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	ClassID         string          `json:"class_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	BillingRecordID string          `json:"billing_record_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Amount          decimal.Decimal `json:"amount" gorm:"not null;type:numeric(12,2)"`
	CreatedAt       time.Time       `json:"created_at" gorm:"autoCreateTime"`
}
