package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExtraCharge is a named charge beyond tuition/admission. Its category controls how
// often it applies; targeting rows narrow or widen the students it covers. A nil
// ClassID means the charge is campus-wide.
type ExtraCharge struct {
	ID        string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	Name      string          `json:"name" gorm:"not null" validate:"required"`
	Amount    decimal.Decimal `json:"amount" gorm:"not null;type:numeric(12,2)" validate:"required"`
	Category  ChargeCategory  `json:"category" gorm:"not null;type:varchar(30)" validate:"required,oneof=monthly_charges once_per_lifetime once_per_class fine"`
	ClassID   *string         `json:"class_id,omitempty" gorm:"index;type:uuid" validate:"omitempty,uuid"`
	CampusID  string          `json:"campus_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	IsActive  bool            `json:"is_active" gorm:"default:true;index"`
	CreatedAt time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt *time.Time      `json:"deleted_at,omitempty" gorm:"index"`

	Targets []*ExtraChargeTarget `json:"targets,omitempty" gorm:"foreignKey:ExtraChargeID;references:ID"`
}

// ExtraChargeTarget includes or excludes a specific student for an extra charge.
// When a charge has any inclusion rows, only the included students are billed.
type ExtraChargeTarget struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	ExtraChargeID string    `json:"extra_charge_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	StudentID     string    `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Excluded      bool      `json:"excluded" gorm:"default:false"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}
