package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Student represents an enrolled student. Enrollment/registration owns these rows;
// the billing engine only reads them (and flips AdmissionFeePaid after the first
// admission fee is billed).
type Student struct {
	ID                       string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentNo                string          `json:"student_no" gorm:"uniqueIndex;not null" validate:"required"`
	FirstName                string          `json:"first_name" gorm:"not null" validate:"required"`
	LastName                 string          `json:"last_name" gorm:"not null" validate:"required"`
	Gender                   Gender          `json:"gender" gorm:"type:varchar(10)"`
	ClassID                  string          `json:"class_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	CampusID                 string          `json:"campus_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	TuitionDiscountPercent   decimal.Decimal `json:"tuition_discount_percent" gorm:"type:numeric(5,2);default:0"`
	AdmissionDiscountPercent decimal.Decimal `json:"admission_discount_percent" gorm:"type:numeric(5,2);default:0"`
	AdmissionFeePaid         bool            `json:"admission_fee_paid" gorm:"default:false"`
	RegisteredAt             time.Time       `json:"registered_at" gorm:"not null"`
	HasLeft                  bool            `json:"has_left" gorm:"default:false;index"`
	IsActive                 bool            `json:"is_active" gorm:"default:true;index"`
	CreatedAt                time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt                time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt                *time.Time      `json:"deleted_at,omitempty" gorm:"index"`

	Class *Class `json:"class,omitempty" gorm:"foreignKey:ClassID;references:ID"`
}

// FullName returns the student's display name.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
