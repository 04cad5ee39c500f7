package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OperationalStatus is the flight-only sub-lifecycle layered on top of the
// approval state. It only progresses after the flight is overall approved;
// the department triples stay frozen at approved once flying starts.
type OperationalStatus string

const (
	OpPending   OperationalStatus = "pending"
	OpActive    OperationalStatus = "active"
	OpCompleted OperationalStatus = "completed"
)

// Flight is a flight authorization request plus, after approval, the live
// flight record with its last-known position.
type Flight struct {
	FlightID     string  `gorm:"primaryKey;column:flight_id;type:varchar(36)" json:"flight_id"`
	PilotID      string  `gorm:"column:pilot_id;type:varchar(36);index" json:"pilot_id"`
	DroneID      string  `gorm:"column:drone_id;type:varchar(36);index" json:"drone_id"`
	FlightNumber string  `gorm:"column:flight_number;unique" json:"flight_number"`
	Purpose      string  `gorm:"column:purpose" json:"purpose"`
	Description  *string `gorm:"column:description" json:"description,omitempty"`

	DepartureLocation   string   `gorm:"column:departure_location" json:"departure_location"`
	DepartureLat        float64  `gorm:"column:departure_lat" json:"departure_lat"`
	DepartureLng        float64  `gorm:"column:departure_lng" json:"departure_lng"`
	DestinationLocation *string  `gorm:"column:destination_location" json:"destination_location,omitempty"`
	DestinationLat      *float64 `gorm:"column:destination_lat" json:"destination_lat,omitempty"`
	DestinationLng      *float64 `gorm:"column:destination_lng" json:"destination_lng,omitempty"`

	ScheduledStart           time.Time `gorm:"column:scheduled_start" json:"scheduled_start"`
	ScheduledEnd             time.Time `gorm:"column:scheduled_end" json:"scheduled_end"`
	MaxAltitudeM             float64   `gorm:"column:max_altitude_m" json:"max_altitude_m"`
	EstimatedDurationMinutes int       `gorm:"column:estimated_duration_minutes" json:"estimated_duration_minutes"`

	ReviewState     `gorm:"embedded"`
	FinalApprovedAt *time.Time `gorm:"column:final_approved_at" json:"final_approved_at,omitempty"`

	OperationalStatus OperationalStatus `gorm:"column:operational_status;default:pending" json:"operational_status"`
	ActualStart       *time.Time        `gorm:"column:actual_start" json:"actual_start,omitempty"`
	ActualEnd         *time.Time        `gorm:"column:actual_end" json:"actual_end,omitempty"`

	// Last-known position only; position history is not retained.
	CurrentLat       *float64   `gorm:"column:current_lat" json:"current_lat,omitempty"`
	CurrentLng       *float64   `gorm:"column:current_lng" json:"current_lng,omitempty"`
	CurrentAltitudeM *float64   `gorm:"column:current_altitude_m" json:"current_altitude_m,omitempty"`
	LastGPSUpdate    *time.Time `gorm:"column:last_gps_update" json:"last_gps_update,omitempty"`

	CreateAt time.Time `gorm:"column:create_at;autoCreateTime" json:"create_at"`
	UpdateAt time.Time `gorm:"column:update_at" json:"update_at"`

	Pilot *PilotProfile `gorm:"foreignKey:PilotID" json:"pilot,omitempty"`
	Drone *Drone        `gorm:"foreignKey:DroneID" json:"drone,omitempty"`
}

func (Flight) TableName() string {
	return "flights"
}

func (f *Flight) BeforeCreate(tx *gorm.DB) error {
	if f.FlightID == "" {
		f.FlightID = uuid.NewString()
	}
	return nil
}

func (f *Flight) EntityType() string  { return "flight" }
func (f *Flight) GetID() string       { return f.FlightID }
func (f *Flight) State() *ReviewState { return &f.ReviewState }
func (f *Flight) Touch(now time.Time) { f.UpdateAt = now }
