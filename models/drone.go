package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Drone is a registered aircraft owned by a pilot profile. Registration is
// subject to the same three-department review as the profile itself.
type Drone struct {
	DroneID      string `gorm:"primaryKey;column:drone_id;type:varchar(36)" json:"drone_id"`
	PilotID      string `gorm:"column:pilot_id;type:varchar(36);index" json:"pilot_id"`
	Manufacturer string `gorm:"column:manufacturer" json:"manufacturer"`
	Model        string `gorm:"column:model" json:"model"`
	SerialNumber string `gorm:"column:serial_number;unique" json:"serial_number"`

	WeightKg     float64 `gorm:"column:weight_kg" json:"weight_kg"`
	MaxAltitudeM float64 `gorm:"column:max_altitude_m" json:"max_altitude_m"`
	MaxSpeedKmh  float64 `gorm:"column:max_speed_kmh" json:"max_speed_kmh"`

	HasCamera         bool    `gorm:"column:has_camera" json:"has_camera"`
	CameraResolution  *string `gorm:"column:camera_resolution" json:"camera_resolution,omitempty"`
	HasThermalImaging bool    `gorm:"column:has_thermal_imaging" json:"has_thermal_imaging"`

	RegistrationNumber *string    `gorm:"column:registration_number" json:"registration_number,omitempty"`
	RegistrationDate   *time.Time `gorm:"column:registration_date" json:"registration_date,omitempty"`
	RegistrationExpiry *time.Time `gorm:"column:registration_expiry" json:"registration_expiry,omitempty"`

	ReviewState `gorm:"embedded"`

	CreateAt time.Time `gorm:"column:create_at;autoCreateTime" json:"create_at"`
	UpdateAt time.Time `gorm:"column:update_at" json:"update_at"`

	Pilot *PilotProfile `gorm:"foreignKey:PilotID" json:"pilot,omitempty"`
}

func (Drone) TableName() string {
	return "drones"
}

func (d *Drone) BeforeCreate(tx *gorm.DB) error {
	if d.DroneID == "" {
		d.DroneID = uuid.NewString()
	}
	return nil
}

func (d *Drone) EntityType() string  { return "drone" }
func (d *Drone) GetID() string       { return d.DroneID }
func (d *Drone) State() *ReviewState { return &d.ReviewState }
func (d *Drone) Touch(now time.Time) { d.UpdateAt = now }
