package drivers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swifthaul/swifthaul-backend/pkg/db/models"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
	pkgerrors "github.com/swifthaul/swifthaul-backend/pkg/errors"
	"github.com/swifthaul/swifthaul-backend/pkg/pagination"
)

type stubRepo struct {
	drivers   map[uuid.UUID]*models.Driver
	byPhone   map[string]*models.Driver
	updates   map[uuid.UUID]map[string]any
	createErr error
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		drivers: map[uuid.UUID]*models.Driver{},
		byPhone: map[string]*models.Driver{},
		updates: map[uuid.UUID]map[string]any{},
	}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, driver *models.Driver) (*models.Driver, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	driver.ID = uuid.New()
	s.drivers[driver.ID] = driver
	s.byPhone[driver.Phone] = driver
	return driver, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	return s.FindWithDocument(ctx, id)
}

func (s *stubRepo) FindWithDocument(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	if d, ok := s.drivers[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) FindByPhone(ctx context.Context, phone string) (*models.Driver, error) {
	if d, ok := s.byPhone[phone]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates[id] = updates
	return nil
}

func (s *stubRepo) List(ctx context.Context, params pagination.OffsetParams, filters ListFilters) (*List, error) {
	var rows []models.Driver
	for _, d := range s.drivers {
		rows = append(rows, *d)
	}
	return &List{Drivers: rows, Total: int64(len(rows))}, nil
}

func (s *stubRepo) Available(ctx context.Context, vehicleType string, onlineOnly bool) ([]models.Driver, error) {
	var rows []models.Driver
	for _, d := range s.drivers {
		if !d.Active || !d.IsVerified() || d.VehicleType != vehicleType {
			continue
		}
		if onlineOnly && d.AvailabilityStatus != enums.DriverAvailabilityOnline {
			continue
		}
		rows = append(rows, *d)
	}
	return rows, nil
}

type stubCatalog struct {
	types map[string]*models.VehicleType
}

func (s *stubCatalog) FindByVehicleType(ctx context.Context, vehicleType string) (*models.VehicleType, error) {
	if vt, ok := s.types[vehicleType]; ok {
		return vt, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestService(t *testing.T, repo *stubRepo) Service {
	t.Helper()
	catalog := &stubCatalog{types: map[string]*models.VehicleType{
		"truck": {VehicleType: "truck", IsActive: true},
		"bike":  {VehicleType: "bike", IsActive: true},
	}}
	svc, err := NewService(repo, catalog)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRegister(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	driver, err := svc.Register(context.Background(), RegisterInput{
		FirstName:   "Maya",
		LastName:    "Okafor",
		Email:       "Maya.Okafor@Example.com",
		Phone:       "+15550002222",
		VehicleType: "truck",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if driver.Email != "maya.okafor@example.com" {
		t.Fatalf("email not normalized, got %q", driver.Email)
	}
	if !driver.Active {
		t.Fatalf("new driver should be active")
	}
	if driver.AvailabilityStatus != enums.DriverAvailabilityOffline {
		t.Fatalf("new driver should start offline, got %s", driver.AvailabilityStatus)
	}
	if driver.IsVerified() {
		t.Fatalf("new driver must not be verified")
	}
}

func TestRegisterRejectsUnknownVehicleType(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName:   "Maya",
		LastName:    "Okafor",
		Email:       "maya@example.com",
		Phone:       "+15550002222",
		VehicleType: "hovercraft",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	driver := &models.Driver{ID: uuid.New(), FirstName: "Maya", LastName: "Okafor", Active: true}
	repo.drivers[driver.ID] = driver

	first := "Amara"
	vehicleType := "bike"
	_, err := svc.UpdateProfile(context.Background(), driver.ID, UpdateProfileInput{
		FirstName:   &first,
		VehicleType: &vehicleType,
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}

	updates := repo.updates[driver.ID]
	if updates["first_name"] != "Amara" {
		t.Fatalf("first name not updated: %v", updates)
	}
	if updates["vehicle_type"] != "bike" {
		t.Fatalf("vehicle type not updated: %v", updates)
	}

	bad := "hovercraft"
	if _, err := svc.UpdateProfile(context.Background(), driver.ID, UpdateProfileInput{VehicleType: &bad}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown type, got %v", err)
	}
}

func TestSetAvailability(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	driver := &models.Driver{ID: uuid.New(), Active: true, AvailabilityStatus: enums.DriverAvailabilityOffline}
	repo.drivers[driver.ID] = driver

	updated, err := svc.SetAvailability(context.Background(), driver.ID, enums.DriverAvailabilityOnline)
	if err != nil {
		t.Fatalf("set availability: %v", err)
	}
	if updated.AvailabilityStatus != enums.DriverAvailabilityOnline {
		t.Fatalf("status not applied")
	}

	if _, err := svc.SetAvailability(context.Background(), driver.ID, "napping"); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad status, got %v", err)
	}

	deactivated := &models.Driver{ID: uuid.New(), Active: false}
	repo.drivers[deactivated.ID] = deactivated
	if _, err := svc.SetAvailability(context.Background(), deactivated.ID, enums.DriverAvailabilityOnline); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for deactivated driver, got %v", err)
	}
}

func TestSetActiveForcesOffline(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	driver := &models.Driver{ID: uuid.New(), Active: true, AvailabilityStatus: enums.DriverAvailabilityOnline}
	repo.drivers[driver.ID] = driver

	if err := svc.SetActive(context.Background(), driver.ID, false); err != nil {
		t.Fatalf("set active: %v", err)
	}
	updates := repo.updates[driver.ID]
	if updates["active"] != false {
		t.Fatalf("active flag not updated: %v", updates)
	}
	if updates["availability_status"] != enums.DriverAvailabilityOffline {
		t.Fatalf("deactivation should force offline: %v", updates)
	}
}

func TestAvailableRequiresVehicleType(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	if _, err := svc.Available(context.Background(), "  ", false); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
