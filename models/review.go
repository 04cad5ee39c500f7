package models

import "time"

// ApprovalStatus is the per-department and aggregate review status domain.
type ApprovalStatus string

const (
	StatusPending     ApprovalStatus = "pending"
	StatusUnderReview ApprovalStatus = "under_review"
	StatusApproved    ApprovalStatus = "approved"
	StatusRejected    ApprovalStatus = "rejected"
)

// Department identifies one of the three reviewing parties. A reviewer
// account's role string equals its department, so the same constants gate
// who may write which review triple.
type Department string

const (
	DeptAirDefense   Department = "air_defense"
	DeptLogistics    Department = "logistics"
	DeptIntelligence Department = "intelligence"
)

// Departments returns the fixed review departments in canonical order.
func Departments() []Department {
	return []Department{DeptAirDefense, DeptLogistics, DeptIntelligence}
}

// ParseDepartment validates a department identifier.
func ParseDepartment(s string) (Department, bool) {
	switch Department(s) {
	case DeptAirDefense, DeptLogistics, DeptIntelligence:
		return Department(s), true
	}
	return "", false
}

// DisplayName is the human-facing department name used in notifications.
func (d Department) DisplayName() string {
	switch d {
	case DeptAirDefense:
		return "Air Defense"
	case DeptLogistics:
		return "Logistics"
	case DeptIntelligence:
		return "Intelligence"
	}
	return string(d)
}

// DepartmentReview is one department's review triple on a reviewable entity.
type DepartmentReview struct {
	Status     ApprovalStatus `gorm:"column:status;default:pending" json:"status"`
	ReviewedBy *string        `gorm:"column:reviewed_by;type:varchar(36)" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time     `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	Notes      *string        `gorm:"column:notes" json:"notes,omitempty"`
}

// Reset returns the triple to its fresh pending state.
func (r *DepartmentReview) Reset() {
	r.Status = StatusPending
	r.ReviewedBy = nil
	r.ReviewedAt = nil
	r.Notes = nil
}

// ReviewState is the full approval state embedded in every reviewable
// entity. The database keeps the flat per-department columns
// (air_defense_status, logistics_status, ...); code addresses them through
// the Department enum instead of building column names from strings.
type ReviewState struct {
	AirDefense    DepartmentReview `gorm:"embedded;embeddedPrefix:air_defense_" json:"air_defense"`
	Logistics     DepartmentReview `gorm:"embedded;embeddedPrefix:logistics_" json:"logistics"`
	Intelligence  DepartmentReview `gorm:"embedded;embeddedPrefix:intelligence_" json:"intelligence"`
	OverallStatus ApprovalStatus   `gorm:"column:overall_status;default:pending" json:"overall_status"`
}

// Review returns the triple owned by the given department.
func (s *ReviewState) Review(d Department) *DepartmentReview {
	switch d {
	case DeptAirDefense:
		return &s.AirDefense
	case DeptLogistics:
		return &s.Logistics
	case DeptIntelligence:
		return &s.Intelligence
	}
	return nil
}

// Statuses returns the three department statuses in canonical order.
func (s *ReviewState) Statuses() []ApprovalStatus {
	return []ApprovalStatus{s.AirDefense.Status, s.Logistics.Status, s.Intelligence.Status}
}

// ResetAll returns every department triple to pending.
func (s *ReviewState) ResetAll() {
	s.AirDefense.Reset()
	s.Logistics.Reset()
	s.Intelligence.Reset()
	s.OverallStatus = StatusPending
}

// Reviewable is the shape shared by pilot profiles, drones and flights:
// anything the three departments vote on.
type Reviewable interface {
	EntityType() string
	GetID() string
	State() *ReviewState
	Touch(now time.Time)
}
