package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles. Department reviewer roles reuse the Department constants so
// role checks and review-triple ownership share one vocabulary.
const (
	RolePilot        = "pilot"
	RoleAirDefense   = string(DeptAirDefense)
	RoleLogistics    = string(DeptLogistics)
	RoleIntelligence = string(DeptIntelligence)
	RoleAdmin        = "admin"
)

// ValidRole reports whether s is an assignable account role.
func ValidRole(s string) bool {
	switch s {
	case RolePilot, RoleAirDefense, RoleLogistics, RoleIntelligence, RoleAdmin:
		return true
	}
	return false
}

// ReviewerRole reports whether the role may sit on a department review queue.
func ReviewerRole(role string) bool {
	if role == RoleAdmin {
		return true
	}
	_, ok := ParseDepartment(role)
	return ok
}

type User struct {
	UserID   string     `gorm:"primaryKey;column:user_id;type:varchar(36)" json:"user_id"`
	Email    string     `gorm:"column:email;unique" json:"email"`
	Password string     `gorm:"column:password" json:"-"`
	FullName string     `gorm:"column:full_name" json:"full_name"`
	Phone    *string    `gorm:"column:phone" json:"phone,omitempty"`
	Role     string     `gorm:"column:role;default:pilot" json:"role"`
	CreateAt time.Time  `gorm:"column:create_at;autoCreateTime" json:"create_at"`
	UpdateAt time.Time  `gorm:"column:update_at;autoUpdateTime" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	return nil
}
