package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Payment records a registration-fee payment. The gateway integration is a
// stub: rows are written as completed by a mock provider.
type Payment struct {
	PaymentID       string     `gorm:"primaryKey;column:payment_id;type:varchar(36)" json:"payment_id"`
	UserID          string     `gorm:"column:user_id;type:varchar(36);index" json:"user_id"`
	Amount          float64    `gorm:"column:amount" json:"amount"`
	Currency        string     `gorm:"column:currency;default:USD" json:"currency"`
	Status          string     `gorm:"column:status;default:pending" json:"status"`
	PaymentProvider *string    `gorm:"column:payment_provider" json:"payment_provider,omitempty"`
	TransactionID   *string    `gorm:"column:transaction_id" json:"transaction_id,omitempty"`
	Description     *string    `gorm:"column:description" json:"description,omitempty"`
	PaidAt          *time.Time `gorm:"column:paid_at" json:"paid_at,omitempty"`
	CreateAt        time.Time  `gorm:"column:create_at;autoCreateTime" json:"create_at"`
	UpdateAt        time.Time  `gorm:"column:update_at;autoUpdateTime" json:"update_at"`
}

func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == "" {
		p.PaymentID = uuid.NewString()
	}
	return nil
}
