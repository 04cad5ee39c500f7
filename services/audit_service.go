package services

import (
	"encoding/json"
	"strings"

	"drone-permit-api/models"

	"gorm.io/gorm"
)

// Actor identifies who is performing an operation, plus the request context
// captured for the audit trail.
type Actor struct {
	UserID    string
	Role      string
	IPAddress string
	UserAgent string
}

// writeAudit appends an audit row inside the caller's transaction so the
// entry commits atomically with the state change it records.
func writeAudit(tx *gorm.DB, actor Actor, action, entityType string, entityID, description string, metadata map[string]interface{}) error {
	audit := models.AuditLog{
		UserID:     actor.UserID,
		Action:     action,
		EntityType: entityType,
		IPAddress:  actor.IPAddress,
	}
	if entityID != "" {
		id := entityID
		audit.EntityID = &id
	}
	if description != "" {
		desc := description
		audit.Description = &desc
	}
	if len(metadata) > 0 {
		serialized, _ := json.Marshal(metadata)
		meta := string(serialized)
		audit.Metadata = &meta
	}
	if ua := strings.TrimSpace(actor.UserAgent); ua != "" {
		audit.UserAgent = &ua
	}
	return tx.Create(&audit).Error
}
