package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document types accepted from pilots.
const (
	DocNationalID        = "national_id"
	DocInsurance         = "insurance"
	DocDroneRegistration = "drone_registration"
	DocFlightPlan        = "flight_plan"
	DocOther             = "other"
)

// Document scan statuses. The actual content scan is an external concern;
// reviewers record its outcome here.
const (
	ScanPending  = "pending"
	ScanVerified = "verified"
	ScanRejected = "rejected"
)

// ValidDocumentType reports whether s is an accepted document type.
func ValidDocumentType(s string) bool {
	switch s {
	case DocNationalID, DocInsurance, DocDroneRegistration, DocFlightPlan, DocOther:
		return true
	}
	return false
}

// Document is an uploaded supporting file. The file body lives in object
// storage under ObjectKey; this row records metadata and verification.
type Document struct {
	DocumentID   string  `gorm:"primaryKey;column:document_id;type:varchar(36)" json:"document_id"`
	UserID       string  `gorm:"column:user_id;type:varchar(36);index" json:"user_id"`
	DocumentType string  `gorm:"column:document_type" json:"document_type"`
	FileName     string  `gorm:"column:file_name" json:"file_name"`
	ObjectKey    string  `gorm:"column:object_key" json:"-"`
	FileSize     int64   `gorm:"column:file_size" json:"file_size"`
	MimeType     string  `gorm:"column:mime_type" json:"mime_type"`
	Description  *string `gorm:"column:description" json:"description,omitempty"`

	ScanStatus string     `gorm:"column:scan_status;default:pending" json:"scan_status"`
	ScanDate   *time.Time `gorm:"column:scan_date" json:"scan_date,omitempty"`

	UploadedAt time.Time `gorm:"column:uploaded_at;autoCreateTime" json:"uploaded_at"`
	CreateAt   time.Time `gorm:"column:create_at;autoCreateTime" json:"create_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Document) TableName() string {
	return "documents"
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.DocumentID == "" {
		d.DocumentID = uuid.NewString()
	}
	return nil
}

// IsValidUploadType limits uploads to images and PDF documents.
func (d *Document) IsValidUploadType() bool {
	validTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"application/pdf",
	}
	for _, validType := range validTypes {
		if d.MimeType == validType {
			return true
		}
	}
	return false
}
