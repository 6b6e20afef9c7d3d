package fleet

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swifthaul/swifthaul-backend/pkg/db/models"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
	pkgerrors "github.com/swifthaul/swifthaul-backend/pkg/errors"
)

type stubRepo struct {
	vehicles map[uuid.UUID]*models.Vehicle
	byDriver map[uuid.UUID]*models.Vehicle
	updates  map[uuid.UUID]map[string]any
	deleted  []uuid.UUID
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		vehicles: map[uuid.UUID]*models.Vehicle{},
		byDriver: map[uuid.UUID]*models.Vehicle{},
		updates:  map[uuid.UUID]map[string]any{},
	}
}

func (s *stubRepo) Create(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	vehicle.ID = uuid.New()
	s.vehicles[vehicle.ID] = vehicle
	if vehicle.DriverID != nil {
		s.byDriver[*vehicle.DriverID] = vehicle
	}
	return vehicle, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	if v, ok := s.vehicles[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) FindByDriver(ctx context.Context, driverID uuid.UUID) (*models.Vehicle, error) {
	if v, ok := s.byDriver[driverID]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) List(ctx context.Context, status *enums.VehicleStatus) ([]models.Vehicle, error) {
	var rows []models.Vehicle
	for _, v := range s.vehicles {
		if status != nil && v.Status != *status {
			continue
		}
		rows = append(rows, *v)
	}
	return rows, nil
}

func (s *stubRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates[id] = updates
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	delete(s.vehicles, id)
	return nil
}

type stubDrivers struct {
	known map[uuid.UUID]bool
}

func (s *stubDrivers) FindByID(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	if s.known[id] {
		return &models.Driver{ID: id}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestService(t *testing.T, repo *stubRepo, drivers *stubDrivers) Service {
	t.Helper()
	if drivers == nil {
		drivers = &stubDrivers{known: map[uuid.UUID]bool{}}
	}
	svc, err := NewService(repo, drivers)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateVehicle(t *testing.T) {
	repo := newStubRepo()
	driverID := uuid.New()
	drivers := &stubDrivers{known: map[uuid.UUID]bool{driverID: true}}
	svc := newTestService(t, repo, drivers)

	vehicle, err := svc.Create(context.Background(), CreateInput{
		VehicleNumber: "SH-TRK-001",
		Type:          "truck",
		Model:         "Tata 407",
		LicensePlate:  "KA01AB1234",
		DriverID:      &driverID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if vehicle.Status != enums.VehicleStatusAvailable {
		t.Fatalf("new vehicles should be available, got %s", vehicle.Status)
	}

	byDriver, err := svc.FindByDriver(context.Background(), driverID)
	if err != nil {
		t.Fatalf("find by driver: %v", err)
	}
	if byDriver.ID != vehicle.ID {
		t.Fatalf("driver binding lost")
	}
}

func TestCreateVehicleRejectsUnknownDriver(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, nil)

	ghost := uuid.New()
	_, err := svc.Create(context.Background(), CreateInput{
		VehicleNumber: "SH-TRK-002",
		Type:          "truck",
		LicensePlate:  "KA01AB5678",
		DriverID:      &ghost,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateVehicleStatusAndDriver(t *testing.T) {
	repo := newStubRepo()
	driverID := uuid.New()
	drivers := &stubDrivers{known: map[uuid.UUID]bool{driverID: true}}
	svc := newTestService(t, repo, drivers)

	vehicle := &models.Vehicle{ID: uuid.New(), VehicleNumber: "SH-VAN-001", Status: enums.VehicleStatusAvailable}
	repo.vehicles[vehicle.ID] = vehicle

	status := enums.VehicleStatusMaintenance
	if _, err := svc.Update(context.Background(), vehicle.ID, UpdateInput{Status: &status, DriverID: &driverID}); err != nil {
		t.Fatalf("update: %v", err)
	}
	updates := repo.updates[vehicle.ID]
	if updates["status"] != enums.VehicleStatusMaintenance {
		t.Fatalf("status not updated: %v", updates)
	}
	if updates["driver_id"] != driverID {
		t.Fatalf("driver not bound: %v", updates)
	}

	if _, err := svc.Update(context.Background(), vehicle.ID, UpdateInput{ClearDriver: true}); err != nil {
		t.Fatalf("clear driver: %v", err)
	}
	if repo.updates[vehicle.ID]["driver_id"] != nil {
		t.Fatalf("driver not cleared: %v", repo.updates[vehicle.ID])
	}

	bad := enums.VehicleStatus("flying")
	if _, err := svc.Update(context.Background(), vehicle.ID, UpdateInput{Status: &bad}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteVehicle(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, nil)

	inUse := &models.Vehicle{ID: uuid.New(), Status: enums.VehicleStatusInUse}
	idle := &models.Vehicle{ID: uuid.New(), Status: enums.VehicleStatusAvailable}
	repo.vehicles[inUse.ID] = inUse
	repo.vehicles[idle.ID] = idle

	if err := svc.Delete(context.Background(), inUse.ID); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for in-use vehicle, got %v", err)
	}
	if err := svc.Delete(context.Background(), idle.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != idle.ID {
		t.Fatalf("wrong deletion set: %v", repo.deleted)
	}
}
