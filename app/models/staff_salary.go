package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StaffSalaryLink associates a student with a staff parent whose salary covers part
// or all of the student's bill. Only consulted while IsActive.
type StaffSalaryLink struct {
	ID           string            `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID    string            `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	StaffID      string            `json:"staff_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	PaymentMode  SalaryPaymentMode `json:"payment_mode" gorm:"not null;type:varchar(30)" validate:"required,oneof=cut_from_salary custom_ratio"`
	RatioPercent decimal.Decimal   `json:"ratio_percent" gorm:"not null;type:numeric(5,2);default:100"`
	IsActive     bool              `json:"is_active" gorm:"default:true;index"`
	CreatedAt    time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
}

// SalaryDefinition is a staff member's net salary figure, the shared pool against
// which all of that staff member's linked students are deducted in a period.
type SalaryDefinition struct {
	ID        string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StaffID   string          `json:"staff_id" gorm:"uniqueIndex;not null;type:uuid" validate:"required,uuid"`
	NetSalary decimal.Decimal `json:"net_salary" gorm:"not null;type:numeric(12,2)" validate:"required"`
	CreatedAt time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// SalaryDeductionRecord is the amount actually taken from a staff member's pool for
// one billing record. One row per (billing record, staff member); the month/year are
// denormalized so sibling pool usage can be summed per period.
type SalaryDeductionRecord struct {
	ID              string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	BillingRecordID string          `json:"billing_record_id" gorm:"not null;uniqueIndex:idx_record_staff;type:uuid" validate:"required,uuid"`
	StaffID         string          `json:"staff_id" gorm:"not null;uniqueIndex:idx_record_staff;index;type:uuid" validate:"required,uuid"`
	StudentID       string          `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	ForMonth        int             `json:"for_month" gorm:"not null"`
	ForYear         int             `json:"for_year" gorm:"not null"`
	Amount          decimal.Decimal `json:"amount" gorm:"not null;type:numeric(12,2)"`
	CreatedAt       time.Time       `json:"created_at" gorm:"autoCreateTime"`
}
