package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StudentFineCharge is an ad hoc unpaid charge or fine raised against a student
// outside the normal schedule. Once settled it is stamped with the billing record
// the payment landed on.
type StudentFineCharge struct {
	ID              string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID       string          `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Title           string          `json:"title" gorm:"not null" validate:"required"`
	Amount          decimal.Decimal `json:"amount" gorm:"not null;type:numeric(12,2)" validate:"required"`
	IsPaid          bool            `json:"is_paid" gorm:"default:false;index"`
	SettledAt       *time.Time      `json:"settled_at,omitempty"`
	BillingRecordID *string         `json:"billing_record_id,omitempty" gorm:"index;type:uuid"`
	IsActive        bool            `json:"is_active" gorm:"default:true;index"`
	CreatedAt       time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt       *time.Time      `json:"deleted_at,omitempty" gorm:"index"`
}
