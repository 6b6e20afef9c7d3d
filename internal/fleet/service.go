package fleet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swifthaul/swifthaul-backend/pkg/db"
	"github.com/swifthaul/swifthaul-backend/pkg/db/models"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
	pkgerrors "github.com/swifthaul/swifthaul-backend/pkg/errors"
)

type driverSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Driver, error)
}

// Service exposes fleet vehicle management for admins.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Vehicle, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	FindByDriver(ctx context.Context, driverID uuid.UUID) (*models.Vehicle, error)
	List(ctx context.Context, status *enums.VehicleStatus) ([]models.Vehicle, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Vehicle, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo    Repository
	drivers driverSource
}

// NewService builds a fleet service with the required dependencies.
func NewService(repo Repository, drivers driverSource) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("fleet repository required")
	}
	if drivers == nil {
		return nil, fmt.Errorf("driver source required")
	}
	return &service{repo: repo, drivers: drivers}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Vehicle, error) {
	number := strings.TrimSpace(input.VehicleNumber)
	plate := strings.TrimSpace(input.LicensePlate)
	if number == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicleNumber is required")
	}
	if plate == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "licensePlate is required")
	}
	if strings.TrimSpace(input.Type) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "type is required")
	}
	if input.DriverID != nil {
		if err := s.checkDriver(ctx, *input.DriverID); err != nil {
			return nil, err
		}
	}

	vehicle := &models.Vehicle{
		VehicleNumber: number,
		Type:          strings.TrimSpace(input.Type),
		Model:         strings.TrimSpace(input.Model),
		LicensePlate:  plate,
		Capacity:      input.Capacity,
		MaxWeight:     input.MaxWeight,
		Status:        enums.VehicleStatusAvailable,
		DriverID:      input.DriverID,
	}

	created, err := s.repo.Create(ctx, vehicle)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "vehicle number or license plate already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vehicle")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	return s.findByID(ctx, id)
}

func (s *service) FindByDriver(ctx context.Context, driverID uuid.UUID) (*models.Vehicle, error) {
	return s.repo.FindByDriver(ctx, driverID)
}

func (s *service) List(ctx context.Context, status *enums.VehicleStatus) ([]models.Vehicle, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid vehicle status").
			WithDetails(map[string]any{"status": *status})
	}
	rows, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vehicles")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Vehicle, error) {
	if _, err := s.findByID(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Type != nil {
		updates["type"] = strings.TrimSpace(*input.Type)
	}
	if input.Model != nil {
		updates["model"] = strings.TrimSpace(*input.Model)
	}
	if input.LicensePlate != nil {
		plate := strings.TrimSpace(*input.LicensePlate)
		if plate == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "licensePlate cannot be empty")
		}
		updates["license_plate"] = plate
	}
	if input.Capacity != nil {
		updates["capacity"] = *input.Capacity
	}
	if input.MaxWeight != nil {
		updates["max_weight"] = *input.MaxWeight
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid vehicle status")
		}
		updates["status"] = *input.Status
	}
	if input.ClearDriver {
		updates["driver_id"] = nil
	} else if input.DriverID != nil {
		if err := s.checkDriver(ctx, *input.DriverID); err != nil {
			return nil, err
		}
		updates["driver_id"] = *input.DriverID
	}
	if input.CurrentLat != nil {
		updates["current_lat"] = *input.CurrentLat
	}
	if input.CurrentLng != nil {
		updates["current_lng"] = *input.CurrentLng
	}
	if len(updates) == 0 {
		return s.findByID(ctx, id)
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "license plate already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vehicle")
	}
	return s.findByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	vehicle, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}
	if vehicle.Status == enums.VehicleStatusInUse {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "vehicle is in use")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete vehicle")
	}
	return nil
}

func (s *service) findByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id required")
	}
	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}
	return vehicle, nil
}

func (s *service) checkDriver(ctx context.Context, driverID uuid.UUID) error {
	if _, err := s.drivers.FindByID(ctx, driverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "driver not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load driver")
	}
	return nil
}
