package entities

import (
	"time"

	"gorm.io/gorm"
)

// UserRole mirrors the original userType column: regular members browse and
// manage their own library, admins additionally manage the shared catalog.
type UserRole string

const (
	UserRoleMember UserRole = "member"
	UserRoleAdmin  UserRole = "admin"
)

type User struct {
	ID           uint           `gorm:"primaryKey;column:user_id" json:"user_id"`
	Username     string         `gorm:"uniqueIndex;size:100" json:"username"`
	PasswordHash string         `gorm:"size:128" json:"-"`
	Role         UserRole       `gorm:"size:16;default:'member'" json:"role"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`

	// Failed-login lockout state.
	FailedLoginCount int        `gorm:"default:0" json:"-"`
	LockedUntil      *time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
