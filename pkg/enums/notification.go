package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypeShipmentCreated    NotificationType = "shipment_created"
	NotificationTypeShipmentAssigned   NotificationType = "shipment_assigned"
	NotificationTypeShipmentPickedUp   NotificationType = "shipment_picked_up"
	NotificationTypeShipmentOutForDel  NotificationType = "shipment_out_for_delivery"
	NotificationTypeShipmentDelivered  NotificationType = "shipment_delivered"
	NotificationTypeShipmentFailed     NotificationType = "shipment_failed"
	NotificationTypeShipmentCancelled  NotificationType = "shipment_cancelled"
	NotificationTypePaymentReceived    NotificationType = "payment_received"
	NotificationTypePaymentFailed      NotificationType = "payment_failed"
	NotificationTypeDocumentSubmitted  NotificationType = "document_submitted"
	NotificationTypeDocumentVerified   NotificationType = "document_verified"
	NotificationTypeDocumentRejected   NotificationType = "document_rejected"
	NotificationTypeDriverActivated    NotificationType = "driver_activated"
	NotificationTypeDriverDeactivated  NotificationType = "driver_deactivated"
	NotificationTypeAdminAnnouncement  NotificationType = "admin_announcement"
	NotificationTypeSystemAlert        NotificationType = "system_alert"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeShipmentCreated,
	NotificationTypeShipmentAssigned,
	NotificationTypeShipmentPickedUp,
	NotificationTypeShipmentOutForDel,
	NotificationTypeShipmentDelivered,
	NotificationTypeShipmentFailed,
	NotificationTypeShipmentCancelled,
	NotificationTypePaymentReceived,
	NotificationTypePaymentFailed,
	NotificationTypeDocumentSubmitted,
	NotificationTypeDocumentVerified,
	NotificationTypeDocumentRejected,
	NotificationTypeDriverActivated,
	NotificationTypeDriverDeactivated,
	NotificationTypeAdminAnnouncement,
	NotificationTypeSystemAlert,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}

// NotificationStatus tracks delivery state of a notification record.
type NotificationStatus string

const (
	NotificationStatusPending   NotificationStatus = "pending"
	NotificationStatusSent      NotificationStatus = "sent"
	NotificationStatusDelivered NotificationStatus = "delivered"
	NotificationStatusFailed    NotificationStatus = "failed"
	NotificationStatusRead      NotificationStatus = "read"
)

var validNotificationStatuses = []NotificationStatus{
	NotificationStatusPending,
	NotificationStatusSent,
	NotificationStatusDelivered,
	NotificationStatusFailed,
	NotificationStatusRead,
}

// IsValid reports whether the value is a known NotificationStatus.
func (n NotificationStatus) IsValid() bool {
	for _, candidate := range validNotificationStatuses {
		if candidate == n {
			return true
		}
	}
	return false
}

// NotificationPriority orders client-side presentation of notifications.
type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityNormal NotificationPriority = "normal"
	NotificationPriorityHigh   NotificationPriority = "high"
	NotificationPriorityUrgent NotificationPriority = "urgent"
)

var validNotificationPriorities = []NotificationPriority{
	NotificationPriorityLow,
	NotificationPriorityNormal,
	NotificationPriorityHigh,
	NotificationPriorityUrgent,
}

// IsValid reports whether the value is a known NotificationPriority.
func (n NotificationPriority) IsValid() bool {
	for _, candidate := range validNotificationPriorities {
		if candidate == n {
			return true
		}
	}
	return false
}
