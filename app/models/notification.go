package models

import "time"

// FeeNotification is a pending "fee received" event written in the same transaction
// as the payment it announces. A background worker drains pending rows; the delivery
// transport lives outside this service.
type FeeNotification struct {
	ID              string             `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID       string             `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	BillingRecordID string             `json:"billing_record_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	TransactionID   *string            `json:"transaction_id,omitempty" gorm:"index;type:uuid"`
	Message         string             `json:"message" gorm:"not null;type:text"`
	Status          NotificationStatus `json:"status" gorm:"not null;default:'pending';index;type:varchar(20)"`
	CreatedAt       time.Time          `json:"created_at" gorm:"autoCreateTime"`
	SentAt          *time.Time         `json:"sent_at,omitempty"`
}
