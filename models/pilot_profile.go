package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PilotProfile is a pilot's registration application. It carries the full
// three-department review state; a pilot may not register drones or request
// flights until the profile is overall approved.
type PilotProfile struct {
	ProfileID  string  `gorm:"primaryKey;column:profile_id;type:varchar(36)" json:"profile_id"`
	UserID     string  `gorm:"column:user_id;type:varchar(36);uniqueIndex" json:"user_id"`
	Address    string  `gorm:"column:address" json:"address"`
	City       string  `gorm:"column:city" json:"city"`
	Country    string  `gorm:"column:country" json:"country"`
	PostalCode *string `gorm:"column:postal_code" json:"postal_code,omitempty"`

	ReviewState `gorm:"embedded"`

	CreateAt time.Time `gorm:"column:create_at;autoCreateTime" json:"create_at"`
	UpdateAt time.Time `gorm:"column:update_at" json:"update_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (PilotProfile) TableName() string {
	return "pilot_profiles"
}

func (p *PilotProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ProfileID == "" {
		p.ProfileID = uuid.NewString()
	}
	return nil
}

func (p *PilotProfile) EntityType() string  { return "pilot_profile" }
func (p *PilotProfile) GetID() string       { return p.ProfileID }
func (p *PilotProfile) State() *ReviewState { return &p.ReviewState }
func (p *PilotProfile) Touch(now time.Time) { p.UpdateAt = now }
