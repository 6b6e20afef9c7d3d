package notifications

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/swifthaul/swifthaul-backend/pkg/db/models"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
	pkgerrors "github.com/swifthaul/swifthaul-backend/pkg/errors"
	"github.com/swifthaul/swifthaul-backend/pkg/logger"
	"github.com/swifthaul/swifthaul-backend/pkg/pagination"
)

type stubRepo struct {
	created []models.Notification
	tokens  map[string]*models.DeviceToken
	marked  []uuid.UUID
}

func newStubRepo() *stubRepo {
	return &stubRepo{tokens: map[string]*models.DeviceToken{}}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = uuid.New()
	s.created = append(s.created, *notification)
	return nil
}

func (s *stubRepo) List(ctx context.Context, params listParams) ([]models.Notification, *pagination.Cursor, error) {
	var rows []models.Notification
	for _, n := range s.created {
		if params.Recipient.Role == enums.PrincipalRoleDriver {
			if n.DriverID == nil || *n.DriverID != params.Recipient.ID {
				continue
			}
		} else if n.UserID == nil || *n.UserID != params.Recipient.ID {
			continue
		}
		if params.UnreadOnly && n.ReadAt != nil {
			continue
		}
		rows = append(rows, n)
	}
	return rows, nil, nil
}

func (s *stubRepo) MarkRead(ctx context.Context, recipient Recipient, notificationID uuid.UUID, now time.Time) (markResult, error) {
	for i := range s.created {
		if s.created[i].ID == notificationID {
			s.created[i].ReadAt = &now
			s.marked = append(s.marked, notificationID)
			return markResult{Updated: true, Found: true}, nil
		}
	}
	return markResult{}, nil
}

func (s *stubRepo) MarkAllRead(ctx context.Context, recipient Recipient, now time.Time) (int64, error) {
	var count int64
	for i := range s.created {
		if s.created[i].ReadAt == nil {
			s.created[i].ReadAt = &now
			count++
		}
	}
	return count, nil
}

func (s *stubRepo) UpsertDeviceToken(ctx context.Context, token *models.DeviceToken) error {
	token.Active = true
	s.tokens[token.Token] = token
	return nil
}

func (s *stubRepo) DeactivateDeviceToken(ctx context.Context, recipient Recipient, token string) (bool, error) {
	if t, ok := s.tokens[token]; ok {
		t.Active = false
		return true, nil
	}
	return false, nil
}

func newTestService(t *testing.T, repo *stubRepo) Service {
	t.Helper()
	svc, err := NewService(repo, logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestShipmentBookedRecordsUserNotification(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	userID := uuid.New()
	shipment := &models.Shipment{
		ID:             uuid.New(),
		UserID:         &userID,
		TrackingNumber: "SH-20250901-AB23CD",
		Status:         enums.ShipmentStatusPending,
	}
	svc.ShipmentBooked(context.Background(), shipment)

	if len(repo.created) != 1 {
		t.Fatalf("expected one record, got %d", len(repo.created))
	}
	row := repo.created[0]
	if row.Type != enums.NotificationTypeShipmentCreated {
		t.Fatalf("unexpected type %s", row.Type)
	}
	if row.Status != enums.NotificationStatusPending {
		t.Fatalf("records must start pending, got %s", row.Status)
	}
	if string(row.Channels) != `["push"]` {
		t.Fatalf("unexpected channels %s", row.Channels)
	}

	// guest bookings have no principal and produce no record
	guest := &models.Shipment{ID: uuid.New(), TrackingNumber: "SH-20250901-GGGGGG"}
	svc.ShipmentBooked(context.Background(), guest)
	if len(repo.created) != 1 {
		t.Fatalf("guest booking should not record a notification")
	}
}

func TestShipmentAssignedNotifiesDriverAndCustomer(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	userID := uuid.New()
	driver := &models.Driver{ID: uuid.New(), FirstName: "Maya", LastName: "Okafor"}
	shipment := &models.Shipment{
		ID:             uuid.New(),
		UserID:         &userID,
		TrackingNumber: "SH-20250901-AB23CD",
		Status:         enums.ShipmentStatusPending,
	}
	svc.ShipmentAssigned(context.Background(), shipment, driver)

	if len(repo.created) != 2 {
		t.Fatalf("expected driver and customer records, got %d", len(repo.created))
	}
	if repo.created[0].DriverID == nil || *repo.created[0].DriverID != driver.ID {
		t.Fatalf("driver record missing")
	}
	if repo.created[1].UserID == nil || *repo.created[1].UserID != userID {
		t.Fatalf("customer record missing")
	}
}

func TestShipmentStatusChangedMapsTypes(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	userID := uuid.New()
	shipment := &models.Shipment{
		ID:             uuid.New(),
		UserID:         &userID,
		TrackingNumber: "SH-20250901-AB23CD",
	}

	cases := map[enums.ShipmentStatus]enums.NotificationType{
		enums.ShipmentStatusInTransit:      enums.NotificationTypeShipmentPickedUp,
		enums.ShipmentStatusOutForDelivery: enums.NotificationTypeShipmentOutForDel,
		enums.ShipmentStatusDelivered:      enums.NotificationTypeShipmentDelivered,
		enums.ShipmentStatusCancelled:      enums.NotificationTypeShipmentCancelled,
	}
	for status, want := range cases {
		repo.created = nil
		shipment.Status = status
		svc.ShipmentStatusChanged(context.Background(), shipment, enums.ShipmentStatusPending)
		if len(repo.created) != 1 || repo.created[0].Type != want {
			t.Fatalf("status %s: expected type %s, got %+v", status, want, repo.created)
		}
	}
}

func TestListScopesToRecipient(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	userID := uuid.New()
	otherID := uuid.New()
	shipment := &models.Shipment{ID: uuid.New(), UserID: &userID, TrackingNumber: "SH-1"}
	other := &models.Shipment{ID: uuid.New(), UserID: &otherID, TrackingNumber: "SH-2"}
	svc.ShipmentBooked(context.Background(), shipment)
	svc.ShipmentBooked(context.Background(), other)

	result, err := svc.List(context.Background(), Recipient{Role: enums.PrincipalRoleUser, ID: userID}, ListParams{Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected one scoped item, got %d", len(result.Items))
	}

	if _, err := svc.List(context.Background(), Recipient{Role: enums.PrincipalRoleUser}, ListParams{}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for missing identity, got %v", err)
	}
}

func TestMarkReadNotFound(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	err := svc.MarkRead(context.Background(), Recipient{Role: enums.PrincipalRoleUser, ID: uuid.New()}, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeviceTokenLifecycle(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	recipient := Recipient{Role: enums.PrincipalRoleDriver, ID: uuid.New()}
	err := svc.RegisterDevice(context.Background(), recipient, RegisterDeviceInput{
		Token:    "fcm-token-1",
		Platform: enums.DevicePlatformAndroid,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	stored := repo.tokens["fcm-token-1"]
	if stored == nil || stored.DriverID == nil || *stored.DriverID != recipient.ID {
		t.Fatalf("token not bound to driver: %+v", stored)
	}

	if err := svc.RegisterDevice(context.Background(), recipient, RegisterDeviceInput{Token: "x", Platform: "blackberry"}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad platform, got %v", err)
	}

	if err := svc.UnregisterDevice(context.Background(), recipient, "fcm-token-1"); err != nil {
		t.Fatalf("unregister: %v", err)
	}
	if stored.Active {
		t.Fatalf("token should be deactivated")
	}

	if err := svc.UnregisterDevice(context.Background(), recipient, "unknown"); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
