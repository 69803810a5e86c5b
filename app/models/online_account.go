package models

import "time"

// OnlineAccount is a bank or mobile-money account that receives online fee payments.
// A payment with an online portion must reference an active account.
type OnlineAccount struct {
	ID            string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	Name          string     `json:"name" gorm:"not null" validate:"required"`
	Provider      string     `json:"provider" gorm:"not null" validate:"required"`
	AccountNumber string     `json:"account_number" gorm:"not null" validate:"required"`
	IsActive      bool       `json:"is_active" gorm:"default:true;index"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}
