package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swifthaul/swifthaul-backend/pkg/db/models"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
	pkgerrors "github.com/swifthaul/swifthaul-backend/pkg/errors"
	"github.com/swifthaul/swifthaul-backend/pkg/logger"
	"github.com/swifthaul/swifthaul-backend/pkg/pagination"
)

// defaultChannels is the delivery channel set recorded on every row.
// Actual push delivery runs out of process; rows stay pending until a
// sender picks them up.
var defaultChannels = json.RawMessage(`["push"]`)

// Service defines notification list/read operations plus the event hooks
// the shipment lifecycle calls after commit.
type Service interface {
	List(ctx context.Context, recipient Recipient, params ListParams) (*ListResult, error)
	MarkRead(ctx context.Context, recipient Recipient, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipient Recipient) (int64, error)
	RegisterDevice(ctx context.Context, recipient Recipient, input RegisterDeviceInput) error
	UnregisterDevice(ctx context.Context, recipient Recipient, token string) error

	ShipmentBooked(ctx context.Context, shipment *models.Shipment)
	ShipmentAssigned(ctx context.Context, shipment *models.Shipment, driver *models.Driver)
	ShipmentStatusChanged(ctx context.Context, shipment *models.Shipment, previous enums.ShipmentStatus)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// ListParams configures pagination for the notification feed.
type ListParams struct {
	Limit      int
	Cursor     string
	UnreadOnly bool
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []models.Notification `json:"items"`
	Cursor string                `json:"cursor"`
}

// RegisterDeviceInput carries a push token registration.
type RegisterDeviceInput struct {
	Token    string
	Platform enums.DevicePlatform
}

// NewService wires notification dependencies.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) List(ctx context.Context, recipient Recipient, params ListParams) (*ListResult, error) {
	if recipient.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "principal identity missing")
	}

	query := listParams{
		Recipient:  recipient,
		Limit:      params.Limit,
		UnreadOnly: params.UnreadOnly,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) MarkRead(ctx context.Context, recipient Recipient, notificationID uuid.UUID) error {
	if recipient.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "principal identity missing")
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, recipient, notificationID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, recipient Recipient) (int64, error) {
	if recipient.ID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "principal identity missing")
	}
	count, err := s.repo.MarkAllRead(ctx, recipient, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}

func (s *service) RegisterDevice(ctx context.Context, recipient Recipient, input RegisterDeviceInput) error {
	if recipient.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "principal identity missing")
	}
	token := strings.TrimSpace(input.Token)
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "token is required")
	}
	if !input.Platform.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown platform").
			WithDetails(map[string]any{"platform": input.Platform})
	}

	row := &models.DeviceToken{Token: token, Platform: input.Platform}
	switch recipient.Role {
	case enums.PrincipalRoleDriver:
		row.DriverID = &recipient.ID
	default:
		row.UserID = &recipient.ID
	}

	if err := s.repo.UpsertDeviceToken(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register device token")
	}
	return nil
}

func (s *service) UnregisterDevice(ctx context.Context, recipient Recipient, token string) error {
	if recipient.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "principal identity missing")
	}
	if strings.TrimSpace(token) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "token is required")
	}

	found, err := s.repo.DeactivateDeviceToken(ctx, recipient, strings.TrimSpace(token))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unregister device token")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "device token not found")
	}
	return nil
}

// ShipmentBooked records the booking alert for the customer. Guest
// bookings have no principal to notify and are skipped.
func (s *service) ShipmentBooked(ctx context.Context, shipment *models.Shipment) {
	if shipment == nil || shipment.UserID == nil {
		return
	}
	s.record(ctx, &models.Notification{
		UserID:     shipment.UserID,
		ShipmentID: &shipment.ID,
		Type:       enums.NotificationTypeShipmentCreated,
		Title:      "Booking confirmed",
		Body:       fmt.Sprintf("Your shipment %s has been booked.", shipment.TrackingNumber),
		Priority:   enums.NotificationPriorityNormal,
	}, shipment)
}

func (s *service) ShipmentAssigned(ctx context.Context, shipment *models.Shipment, driver *models.Driver) {
	if shipment == nil || driver == nil {
		return
	}
	driverID := driver.ID
	s.record(ctx, &models.Notification{
		DriverID:   &driverID,
		ShipmentID: &shipment.ID,
		Type:       enums.NotificationTypeShipmentAssigned,
		Title:      "New shipment assigned",
		Body:       fmt.Sprintf("Shipment %s has been assigned to you.", shipment.TrackingNumber),
		Priority:   enums.NotificationPriorityHigh,
	}, shipment)

	if shipment.UserID != nil {
		s.record(ctx, &models.Notification{
			UserID:     shipment.UserID,
			ShipmentID: &shipment.ID,
			Type:       enums.NotificationTypeShipmentAssigned,
			Title:      "Driver assigned",
			Body:       fmt.Sprintf("%s will handle your shipment %s.", driver.FullName(), shipment.TrackingNumber),
			Priority:   enums.NotificationPriorityNormal,
		}, shipment)
	}
}

func (s *service) ShipmentStatusChanged(ctx context.Context, shipment *models.Shipment, previous enums.ShipmentStatus) {
	if shipment == nil || shipment.UserID == nil {
		return
	}
	notifType, title, body := statusNotification(shipment)
	if notifType == "" {
		return
	}
	s.record(ctx, &models.Notification{
		UserID:     shipment.UserID,
		ShipmentID: &shipment.ID,
		Type:       notifType,
		Title:      title,
		Body:       body,
		Priority:   enums.NotificationPriorityNormal,
	}, shipment)
}

func (s *service) record(ctx context.Context, notification *models.Notification, shipment *models.Shipment) {
	notification.Status = enums.NotificationStatusPending
	notification.Channels = defaultChannels
	if data, err := json.Marshal(map[string]any{
		"shipmentId":     shipment.ID,
		"trackingNumber": shipment.TrackingNumber,
		"status":         shipment.Status,
	}); err == nil {
		notification.Data = data
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		ctx = s.logg.WithShipmentID(ctx, shipment.ID.String())
		s.logg.Error(ctx, "notification.record.failed", err)
	}
}

func statusNotification(shipment *models.Shipment) (enums.NotificationType, string, string) {
	tn := shipment.TrackingNumber
	switch shipment.Status {
	case enums.ShipmentStatusInTransit:
		return enums.NotificationTypeShipmentPickedUp, "Shipment picked up",
			fmt.Sprintf("Shipment %s is on its way.", tn)
	case enums.ShipmentStatusOutForDelivery:
		return enums.NotificationTypeShipmentOutForDel, "Out for delivery",
			fmt.Sprintf("Shipment %s is out for delivery.", tn)
	case enums.ShipmentStatusDelivered:
		return enums.NotificationTypeShipmentDelivered, "Delivered",
			fmt.Sprintf("Shipment %s has been delivered.", tn)
	case enums.ShipmentStatusFailed:
		return enums.NotificationTypeShipmentFailed, "Delivery failed",
			fmt.Sprintf("Delivery of shipment %s failed.", tn)
	case enums.ShipmentStatusCancelled:
		return enums.NotificationTypeShipmentCancelled, "Shipment cancelled",
			fmt.Sprintf("Shipment %s has been cancelled.", tn)
	default:
		return "", "", ""
	}
}
