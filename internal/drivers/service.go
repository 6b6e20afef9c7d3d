package drivers

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
	"github.com/swifthaul/swifthaul-backend/pkg/pagination"
)

type catalogSource interface {
	FindByVehicleType(ctx context.Context, vehicleType string) (*models.VehicleType, error)
}

// Service exposes driver account operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.Driver, error)
	Get(ctx context.Context, id uuid.UUID) (*ProfileView, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*ProfileView, error)
	SetAvailability(ctx context.Context, id uuid.UUID, status enums.DriverAvailability) (*models.Driver, error)
	Available(ctx context.Context, vehicleType string, onlineOnly bool) ([]models.Driver, error)
	AdminList(ctx context.Context, params pagination.OffsetParams, filters ListFilters) (*List, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type service struct {
	repo    Repository
	catalog catalogSource
}

// NewService builds a driver service with the required dependencies.
func NewService(repo Repository, catalog catalogSource) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("drivers repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("vehicle type catalog required")
	}
	return &service{repo: repo, catalog: catalog}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.Driver, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	phone := strings.TrimSpace(input.Phone)

	if firstName == "" || lastName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first and last name required")
	}
	if !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone number required")
	}
	if err := s.validateVehicleType(ctx, input.VehicleType); err != nil {
		return nil, err
	}

	driver := &models.Driver{
		FirstName:          firstName,
		LastName:           lastName,
		Email:              email,
		Phone:              phone,
		Active:             true,
		AvailabilityStatus: enums.DriverAvailabilityOffline,
		VehicleType:        input.VehicleType,
		VehicleCapacity:    input.VehicleCapacity,
		VehicleNumber:      input.VehicleNumber,
	}

	created, err := s.repo.Create(ctx, driver)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a driver with this phone, email, or vehicle number already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create driver")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProfileView, error) {
	driver, err := s.findWithDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewProfileView(driver)
	return &view, nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*ProfileView, error) {
	if _, err := s.findWithDocument(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.FirstName != nil {
		if strings.TrimSpace(*input.FirstName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "first name cannot be empty")
		}
		updates["first_name"] = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		if strings.TrimSpace(*input.LastName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "last name cannot be empty")
		}
		updates["last_name"] = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if !strings.Contains(email, "@") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
		}
		updates["email"] = email
	}
	if input.ProfilePicture != nil {
		updates["profile_picture"] = *input.ProfilePicture
	}
	if input.VehicleType != nil {
		if err := s.validateVehicleType(ctx, *input.VehicleType); err != nil {
			return nil, err
		}
		updates["vehicle_type"] = *input.VehicleType
	}
	if input.VehicleCapacity != nil {
		updates["vehicle_capacity"] = *input.VehicleCapacity
	}
	if input.VehicleNumber != nil {
		updates["vehicle_number"] = *input.VehicleNumber
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email or vehicle number already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update driver")
	}
	return s.Get(ctx, id)
}

func (s *service) SetAvailability(ctx context.Context, id uuid.UUID, status enums.DriverAvailability) (*models.Driver, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid availability status").
			WithDetails(map[string]any{"status": status})
	}

	driver, err := s.findWithDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if !driver.Active {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "driver account is deactivated")
	}

	if err := s.repo.Update(ctx, id, map[string]any{"availability_status": status}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update availability")
	}
	driver.AvailabilityStatus = status
	return driver, nil
}

func (s *service) Available(ctx context.Context, vehicleType string, onlineOnly bool) ([]models.Driver, error) {
	if strings.TrimSpace(vehicleType) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicleType is required")
	}
	drivers, err := s.repo.Available(ctx, vehicleType, onlineOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list available drivers")
	}
	return drivers, nil
}

func (s *service) AdminList(ctx context.Context, params pagination.OffsetParams, filters ListFilters) (*List, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list drivers")
	}
	return list, nil
}

// SetActive flips the admin kill switch. Deactivation does not touch
// existing assignments; the assignment path checks Active at assign time.
func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if _, err := s.findWithDocument(ctx, id); err != nil {
		return err
	}
	updates := map[string]any{"active": active}
	if !active {
		updates["availability_status"] = enums.DriverAvailabilityOffline
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update driver")
	}
	return nil
}

func (s *service) findWithDocument(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "driver id required")
	}
	driver, err := s.repo.FindWithDocument(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "driver not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load driver")
	}
	return driver, nil
}

func (s *service) validateVehicleType(ctx context.Context, vehicleType string) error {
	if strings.TrimSpace(vehicleType) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "vehicle type required")
	}
	if _, err := s.catalog.FindByVehicleType(ctx, vehicleType); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown vehicle type").
				WithDetails(map[string]any{"vehicleType": vehicleType})
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle type")
	}
	return nil
}
