package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer is a tenant company. Every user belongs to exactly one customer.
type Customer struct {
	ID                    uint64         `gorm:"primarykey" json:"id"`
	CompanyName           string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"company_name"`
	CompanyEmail          string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"company_email"`
	ContactPerson         string         `gorm:"type:varchar(255)" json:"contact_person"`
	PhoneNumber           string         `gorm:"type:varchar(50)" json:"phone_number"`
	Address               string         `gorm:"type:text" json:"address"`
	SubscriptionPlan      string         `gorm:"type:varchar(50);not null;default:'basic'" json:"subscription_plan"`
	MaxUsers              int            `gorm:"not null;default:50" json:"max_users"`
	IsActive              bool           `json:"is_active"`
	IsVerified            bool           `json:"is_verified"`
	SubscriptionExpiresAt *time.Time     `json:"subscription_expires_at"`
	AdminUsername         string         `gorm:"type:varchar(100);not null" json:"admin_username"`
	AdminEmail            string         `gorm:"type:varchar(255);not null" json:"admin_email"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Users []User `gorm:"foreignKey:CustomerID" json:"users,omitempty"`
}

// IsSubscriptionActive reports whether the subscription is still valid.
// A customer without an expiry date never expires.
func (c *Customer) IsSubscriptionActive(now time.Time) bool {
	if c.SubscriptionExpiresAt == nil {
		return true
	}
	return now.Before(*c.SubscriptionExpiresAt)
}
