package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	NotificationID string    `gorm:"primaryKey;column:notification_id;type:varchar(36)" json:"notification_id"`
	UserID         string    `gorm:"column:user_id;type:varchar(36);index" json:"user_id"`
	Title          string    `gorm:"column:title" json:"title"`
	Message        string    `gorm:"column:message" json:"message"`
	Type           string    `gorm:"column:type" json:"type"` // info|success|warning|error
	EntityType     *string   `gorm:"column:entity_type" json:"entity_type,omitempty"`
	EntityID       *string   `gorm:"column:entity_id;type:varchar(36)" json:"entity_id,omitempty"`
	IsRead         bool      `gorm:"column:is_read" json:"is_read"`
	ReadAt         *time.Time `gorm:"column:read_at" json:"read_at,omitempty"`
	EmailSent      bool      `gorm:"column:email_sent" json:"email_sent"`
	EmailSentAt    *time.Time `gorm:"column:email_sent_at" json:"email_sent_at,omitempty"`
	CreateAt       time.Time `gorm:"column:create_at;autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.NotificationID == "" {
		n.NotificationID = uuid.NewString()
	}
	return nil
}
