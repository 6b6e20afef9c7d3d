package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/swifthaul/swifthaul-backend/pkg/enums"
)

// DeviceToken registers a push target for a user or driver.
type DeviceToken struct {
	ID         uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID           `gorm:"column:user_id;type:uuid;index" json:"userId,omitempty"`
	DriverID   *uuid.UUID           `gorm:"column:driver_id;type:uuid;index" json:"driverId,omitempty"`
	Token      string               `gorm:"column:token;type:text;not null;uniqueIndex" json:"token"`
	Platform   enums.DevicePlatform `gorm:"column:platform;type:text;not null" json:"platform"`
	Active     bool                 `gorm:"column:active;not null;default:true" json:"active"`
	LastSeenAt *time.Time           `gorm:"column:last_seen_at" json:"lastSeenAt,omitempty"`
	CreatedAt  time.Time            `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
