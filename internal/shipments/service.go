package shipments

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swifthaul/swifthaul-backend/pkg/db"
	"github.com/swifthaul/swifthaul-backend/pkg/db/models"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
	pkgerrors "github.com/swifthaul/swifthaul-backend/pkg/errors"
	"github.com/swifthaul/swifthaul-backend/pkg/pagination"
)

const (
	trackingPrefix      = "SH"
	trackingSuffixLen   = 6
	trackingMaxAttempts = 5
)

var trackingCharset = []byte("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type catalogSource interface {
	FindByVehicleType(ctx context.Context, vehicleType string) (*models.VehicleType, error)
}

type driverSource interface {
	FindWithDocument(ctx context.Context, id uuid.UUID) (*models.Driver, error)
}

type vehicleSource interface {
	FindByDriver(ctx context.Context, driverID uuid.UUID) (*models.Vehicle, error)
}

// Notifier receives lifecycle events after they are committed. A nil
// notifier disables delivery without changing booking behavior.
type Notifier interface {
	ShipmentBooked(ctx context.Context, shipment *models.Shipment)
	ShipmentAssigned(ctx context.Context, shipment *models.Shipment, driver *models.Driver)
	ShipmentStatusChanged(ctx context.Context, shipment *models.Shipment, previous enums.ShipmentStatus)
}

// Service defines shipment booking and lifecycle operations.
type Service interface {
	Book(ctx context.Context, input BookInput) (*models.Shipment, error)
	Track(ctx context.Context, trackingNumber string) (*TrackingView, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Shipment, error)
	ListAll(ctx context.Context, params pagination.Params, filters Filters) (*List, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*List, error)
	ListForDriver(ctx context.Context, driverID uuid.UUID, params pagination.Params) (*List, error)
	Assign(ctx context.Context, input AssignInput) (*models.Shipment, error)
	AdvanceStatus(ctx context.Context, input StatusInput) (*models.Shipment, error)
	CancelForUser(ctx context.Context, userID, shipmentID uuid.UUID) (*models.Shipment, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	catalog  catalogSource
	drivers  driverSource
	vehicles vehicleSource
	notifier Notifier
}

// NewService builds a shipment service with the required dependencies.
// The notifier is optional.
func NewService(repo Repository, tx txRunner, catalog catalogSource, drivers driverSource, vehicles vehicleSource, notifier Notifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shipments repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("vehicle type catalog required")
	}
	if drivers == nil {
		return nil, fmt.Errorf("driver source required")
	}
	if vehicles == nil {
		return nil, fmt.Errorf("vehicle source required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		catalog:  catalog,
		drivers:  drivers,
		vehicles: vehicles,
		notifier: notifier,
	}, nil
}

func (s *service) Book(ctx context.Context, input BookInput) (*models.Shipment, error) {
	if strings.TrimSpace(input.PickupAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pickup address required")
	}
	if strings.TrimSpace(input.DeliveryAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address required")
	}
	if input.Weight <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight must be positive")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Distance != nil && *input.Distance < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "distance must be at least 1 km")
	}

	userType := enums.BookingUserTypeAuthenticated
	if input.UserID == nil {
		userType = enums.BookingUserTypeGuest
		if strings.TrimSpace(input.GuestName) == "" || strings.TrimSpace(input.GuestPhone) == "" ||
			strings.TrimSpace(input.GuestEmail) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest bookings require a name, phone number, and email")
		}
	}

	vehicleType, err := s.catalog.FindByVehicleType(ctx, input.VehicleType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown vehicle type").
				WithDetails(map[string]any{"vehicleType": input.VehicleType})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle type")
	}
	if !vehicleType.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle type is not bookable").
			WithDetails(map[string]any{"vehicleType": input.VehicleType})
	}

	shipment := &models.Shipment{
		Status:                enums.ShipmentStatusPending,
		PickupAddress:         strings.TrimSpace(input.PickupAddress),
		DeliveryAddress:       strings.TrimSpace(input.DeliveryAddress),
		PickupLat:             input.PickupLat,
		PickupLng:             input.PickupLng,
		DeliveryLat:           input.DeliveryLat,
		DeliveryLng:           input.DeliveryLng,
		ScheduledPickupDate:   input.ScheduledPickupDate,
		EstimatedDeliveryDate: input.EstimatedDeliveryDate,
		Weight:                input.Weight,
		Dimensions:            input.Dimensions,
		SpecialInstructions:   input.SpecialInstructions,
		UserID:                input.UserID,
		Price:                 input.Price,
		PaymentStatus:         enums.PaymentStatusPending,
		UserType:              userType,
		VehicleType:           vehicleType.VehicleType,
		Distance:              input.Distance,
		Notes:                 input.Notes,
	}
	if userType == enums.BookingUserTypeGuest {
		name := strings.TrimSpace(input.GuestName)
		phone := strings.TrimSpace(input.GuestPhone)
		email := strings.TrimSpace(input.GuestEmail)
		shipment.GuestName = &name
		shipment.GuestPhone = &phone
		shipment.GuestEmail = &email
	}

	created, err := s.createWithTrackingNumber(ctx, shipment)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.ShipmentBooked(ctx, created)
	}
	return created, nil
}

// createWithTrackingNumber retries on tracking collisions. Collisions are
// rare but possible; the unique index is the arbiter.
func (s *service) createWithTrackingNumber(ctx context.Context, shipment *models.Shipment) (*models.Shipment, error) {
	for attempt := 0; attempt < trackingMaxAttempts; attempt++ {
		number, err := generateTrackingNumber(time.Now().UTC())
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate tracking number")
		}
		shipment.TrackingNumber = number

		created, err := s.repo.Create(ctx, shipment)
		if err == nil {
			return created, nil
		}
		if !db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shipment")
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "could not allocate a unique tracking number")
}

func (s *service) Track(ctx context.Context, trackingNumber string) (*TrackingView, error) {
	trackingNumber = strings.ToUpper(strings.TrimSpace(trackingNumber))
	if trackingNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking number required")
	}
	shipment, err := s.repo.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find shipment")
	}
	view := NewTrackingView(shipment)
	return &view, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Shipment, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipment id required")
	}
	shipment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find shipment")
	}
	return shipment, nil
}

func (s *service) ListAll(ctx context.Context, params pagination.Params, filters Filters) (*List, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shipments")
	}
	return list, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*List, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return s.ListAll(ctx, params, Filters{UserID: &userID})
}

func (s *service) ListForDriver(ctx context.Context, driverID uuid.UUID, params pagination.Params) (*List, error) {
	if driverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "driver identity missing")
	}
	return s.ListAll(ctx, params, Filters{DriverID: &driverID})
}

// Assign binds a driver to a shipment inside a single transaction. The row
// is locked before re-checking assignment so two dispatchers racing on the
// same shipment cannot both win.
func (s *service) Assign(ctx context.Context, input AssignInput) (*models.Shipment, error) {
	if input.ShipmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipment id required")
	}
	if input.DriverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "driver id required")
	}

	var assigned *models.Shipment
	var driver *models.Driver

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		shipment, err := repo.FindByIDForUpdate(ctx, input.ShipmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock shipment")
		}

		if shipment.Assigned() {
			return pkgerrors.New(pkgerrors.CodeConflict, "shipment already assigned").
				WithDetails(map[string]any{"driverId": shipment.DriverID})
		}
		if shipment.Status != enums.ShipmentStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending shipments can be assigned").
				WithDetails(map[string]any{"status": shipment.Status})
		}

		driver, err = s.drivers.FindWithDocument(ctx, input.DriverID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "driver not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load driver")
		}
		if !driver.Active {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "driver account is deactivated")
		}
		if !driver.IsVerified() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "driver documents are not verified")
		}
		if driver.AvailabilityStatus != enums.DriverAvailabilityOnline {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "driver is offline")
		}
		if driver.VehicleType != shipment.VehicleType {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "driver vehicle type does not match the booking").
				WithDetails(map[string]any{
					"required": shipment.VehicleType,
					"actual":   driver.VehicleType,
				})
		}

		updates := map[string]any{"driver_id": input.DriverID}

		// Drivers registered with a fleet vehicle get it bound on
		// assignment. Drivers using their own vehicle have no row here.
		vehicle, err := s.vehicles.FindByDriver(ctx, input.DriverID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve fleet vehicle")
		}
		if vehicle != nil {
			updates["vehicle_id"] = vehicle.ID
			shipment.VehicleID = &vehicle.ID
		}

		if input.EstimatedDeliveryDate != nil {
			updates["estimated_delivery_date"] = *input.EstimatedDeliveryDate
			shipment.EstimatedDeliveryDate = input.EstimatedDeliveryDate
		}
		if input.Notes != nil && strings.TrimSpace(*input.Notes) != "" {
			note := appendNote(shipment.Notes, *input.Notes)
			updates["notes"] = note
			shipment.Notes = &note
		}

		if err := repo.Update(ctx, shipment.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign shipment")
		}

		shipment.DriverID = &input.DriverID
		assigned = shipment
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.ShipmentAssigned(ctx, assigned, driver)
	}
	return assigned, nil
}

func (s *service) AdvanceStatus(ctx context.Context, input StatusInput) (*models.Shipment, error) {
	if input.ShipmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipment id required")
	}
	if !input.Next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid shipment status").
			WithDetails(map[string]any{"status": input.Next})
	}

	var updated *models.Shipment
	var previous enums.ShipmentStatus

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		shipment, err := repo.FindByIDForUpdate(ctx, input.ShipmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock shipment")
		}

		if input.DriverID != nil {
			if shipment.DriverID == nil || *shipment.DriverID != *input.DriverID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "shipment is not assigned to this driver")
			}
		}

		if !shipment.Status.CanTransitionTo(input.Next) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "invalid status transition").
				WithDetails(map[string]any{
					"from": shipment.Status,
					"to":   input.Next,
				})
		}

		now := time.Now().UTC()
		updates := map[string]any{"status": input.Next}
		switch input.Next {
		case enums.ShipmentStatusInTransit:
			if shipment.DriverID == nil {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot start transit without an assigned driver")
			}
			updates["actual_pickup_date"] = now
			shipment.ActualPickupDate = &now
		case enums.ShipmentStatusDelivered:
			updates["actual_delivery_date"] = now
			shipment.ActualDeliveryDate = &now
		}

		if err := repo.Update(ctx, shipment.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shipment status")
		}

		previous = shipment.Status
		shipment.Status = input.Next
		updated = shipment
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.ShipmentStatusChanged(ctx, updated, previous)
	}
	return updated, nil
}

// CancelForUser lets a customer cancel their own shipment while it is
// still pending and unassigned.
func (s *service) CancelForUser(ctx context.Context, userID, shipmentID uuid.UUID) (*models.Shipment, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var cancelled *models.Shipment
	var previous enums.ShipmentStatus

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		shipment, err := repo.FindByIDForUpdate(ctx, shipmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock shipment")
		}
		if shipment.UserID == nil || *shipment.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "shipment does not belong to this user")
		}
		if shipment.Status != enums.ShipmentStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending shipments can be cancelled").
				WithDetails(map[string]any{"status": shipment.Status})
		}

		if err := repo.Update(ctx, shipment.ID, map[string]any{"status": enums.ShipmentStatusCancelled}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel shipment")
		}

		previous = shipment.Status
		shipment.Status = enums.ShipmentStatusCancelled
		cancelled = shipment
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.ShipmentStatusChanged(ctx, cancelled, previous)
	}
	return cancelled, nil
}

func appendNote(existing *string, note string) string {
	note = strings.TrimSpace(note)
	if existing == nil || strings.TrimSpace(*existing) == "" {
		return note
	}
	return *existing + "\n" + note
}

func generateTrackingNumber(now time.Time) (string, error) {
	buf := make([]byte, trackingSuffixLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = trackingCharset[int(b)%len(trackingCharset)]
	}
	return fmt.Sprintf("%s-%s-%s", trackingPrefix, now.Format("20060102"), buf), nil
}
