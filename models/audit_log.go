package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog is an append-only record of state-changing actions. Rows are
// created inside the transaction that applies the change and never updated.
type AuditLog struct {
	AuditID     string    `gorm:"primaryKey;column:audit_id;type:varchar(36)" json:"audit_id"`
	UserID      string    `gorm:"column:user_id;type:varchar(36);index" json:"user_id"`
	Action      string    `gorm:"column:action" json:"action"` // create|update|approve|reject|reapply|payment|document_verify
	EntityType  string    `gorm:"column:entity_type" json:"entity_type"`
	EntityID    *string   `gorm:"column:entity_id;type:varchar(36)" json:"entity_id,omitempty"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	Metadata    *string   `gorm:"column:metadata" json:"metadata,omitempty"` // JSON snapshot of the transition
	IPAddress   string    `gorm:"column:ip_address" json:"ip_address"`
	UserAgent   *string   `gorm:"column:user_agent" json:"user_agent,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.AuditID == "" {
		a.AuditID = uuid.NewString()
	}
	return nil
}
