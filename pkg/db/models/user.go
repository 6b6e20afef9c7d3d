package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a customer account created on first OTP login.
type User struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string     `gorm:"column:name" json:"name"`
	Phone       string     `gorm:"column:phone;type:text;not null;uniqueIndex" json:"phone"`
	Email       *string    `gorm:"column:email;type:text;uniqueIndex" json:"email,omitempty"`
	IsActive    bool       `gorm:"column:is_active;not null;default:true" json:"isActive"`
	LastLoginAt *time.Time `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
