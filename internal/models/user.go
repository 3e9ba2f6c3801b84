package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

type User struct {
	ID                  uint64         `gorm:"primarykey" json:"id"`
	Username            string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email               string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FullName            string         `gorm:"type:varchar(100)" json:"full_name"`
	PasswordHash        string         `gorm:"type:varchar(255);not null" json:"-"`
	Role                UserRole       `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	// No default tags on the flag columns: GORM skips zero values on insert
	// when a default is declared, which would turn IsActive:false into true.
	IsActive            bool           `json:"is_active"`
	IsVerified          bool           `json:"is_verified"`
	FailedLoginAttempts int            `json:"-"`
	LockedUntil         *time.Time     `json:"-"`
	LastLogin           *time.Time     `json:"last_login"`
	CustomerID          uint64         `gorm:"not null;index" json:"customer_id"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Customer    Customer         `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Assignments []GoalAssignment `gorm:"foreignKey:UserID" json:"-"`
}

// IsLocked reports whether the account is currently locked out.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}
