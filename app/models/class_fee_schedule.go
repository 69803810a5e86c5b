package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClassFeeSchedule holds the base tuition and admission fee for a class on a campus.
// One row per (class, campus); edited only by administrators. Billing cannot proceed
// for a class without one.
type ClassFeeSchedule struct {
	ID           string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	ClassID      string          `json:"class_id" gorm:"not null;uniqueIndex:idx_class_campus;type:uuid" validate:"required,uuid"`
	CampusID     string          `json:"campus_id" gorm:"not null;uniqueIndex:idx_class_campus;type:uuid" validate:"required,uuid"`
	TuitionFee   decimal.Decimal `json:"tuition_fee" gorm:"not null;type:numeric(12,2)" validate:"required"`
	AdmissionFee decimal.Decimal `json:"admission_fee" gorm:"not null;type:numeric(12,2);default:0"`
	CreatedAt    time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `json:"updated_at" gorm:"autoUpdateTime"`

	Class *Class `json:"class,omitempty" gorm:"foreignKey:ClassID;references:ID"`
}
