package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/swifthaul/swifthaul-backend/pkg/enums"
)

// Notification is an append-only log row for a status-change alert.
// Exactly one of UserID or DriverID is populated.
type Notification struct {
	ID         uuid.UUID                  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID                 `gorm:"column:user_id;type:uuid;index" json:"userId,omitempty"`
	DriverID   *uuid.UUID                 `gorm:"column:driver_id;type:uuid;index" json:"driverId,omitempty"`
	ShipmentID *uuid.UUID                 `gorm:"column:shipment_id;type:uuid;index" json:"shipmentId,omitempty"`
	Type       enums.NotificationType     `gorm:"column:type;type:text;not null" json:"type"`
	Title      string                     `gorm:"column:title;not null" json:"title"`
	Body       string                     `gorm:"column:body;not null" json:"body"`
	Data       json.RawMessage            `gorm:"column:data;type:jsonb" json:"data,omitempty"`
	Channels   json.RawMessage            `gorm:"column:channels;type:jsonb" json:"channels,omitempty"`
	Status     enums.NotificationStatus   `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	Priority   enums.NotificationPriority `gorm:"column:priority;type:text;not null;default:'normal'" json:"priority"`
	SentAt     *time.Time                 `gorm:"column:sent_at" json:"sentAt,omitempty"`
	ReadAt     *time.Time                 `gorm:"column:read_at" json:"readAt,omitempty"`
	Error      *string                    `gorm:"column:error" json:"error,omitempty"`
	CreatedAt  time.Time                  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
