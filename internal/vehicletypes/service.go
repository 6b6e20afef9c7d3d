package vehicletypes

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

// Service exposes the vehicle type catalog. Catalog edits never rewrite
// historical shipments; bookings snapshot the vehicle_type string.
type Service interface {
	PublicList(ctx context.Context) ([]CatalogItem, error)
	AdminList(ctx context.Context) ([]models.VehicleType, error)
	FindByVehicleType(ctx context.Context, vehicleType string) (*models.VehicleType, error)
	Create(ctx context.Context, input CreateInput) (*models.VehicleType, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.VehicleType, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vehicle types repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) PublicList(ctx context.Context) ([]CatalogItem, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vehicle types")
	}
	items := make([]CatalogItem, len(rows))
	for i := range rows {
		items[i] = NewCatalogItem(&rows[i])
	}
	return items, nil
}

func (s *service) AdminList(ctx context.Context) ([]models.VehicleType, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vehicle types")
	}
	return rows, nil
}

func (s *service) FindByVehicleType(ctx context.Context, vehicleType string) (*models.VehicleType, error) {
	return s.repo.FindByVehicleType(ctx, vehicleType)
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.VehicleType, error) {
	key := strings.ToLower(strings.TrimSpace(input.VehicleType))
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicleType is required")
	}
	if strings.TrimSpace(input.Label) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "label is required")
	}
	if input.BasePrice.IsNegative() || input.PricePerKm.IsNegative() || input.StartingPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices cannot be negative")
	}

	iconKey := input.IconKey
	if iconKey == "" {
		iconKey = enums.VehicleIconDefault
	}
	if !iconKey.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown icon key").
			WithDetails(map[string]any{"iconKey": iconKey})
	}

	vt := &models.VehicleType{
		VehicleType:   key,
		Label:         strings.TrimSpace(input.Label),
		Capacity:      strings.TrimSpace(input.Capacity),
		BasePrice:     input.BasePrice,
		PricePerKm:    input.PricePerKm,
		StartingPrice: input.StartingPrice,
		IconKey:       iconKey,
		IsActive:      true,
	}

	created, err := s.repo.Create(ctx, vt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "vehicle type already exists").
				WithDetails(map[string]any{"vehicleType": key})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vehicle type")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.VehicleType, error) {
	vt, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Label != nil {
		if strings.TrimSpace(*input.Label) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "label cannot be empty")
		}
		updates["label"] = strings.TrimSpace(*input.Label)
	}
	if input.Capacity != nil {
		updates["capacity"] = strings.TrimSpace(*input.Capacity)
	}
	if input.BasePrice != nil {
		if input.BasePrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "basePrice cannot be negative")
		}
		updates["base_price"] = *input.BasePrice
	}
	if input.PricePerKm != nil {
		if input.PricePerKm.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "pricePerKm cannot be negative")
		}
		updates["price_per_km"] = *input.PricePerKm
	}
	if input.StartingPrice != nil {
		if input.StartingPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "startingPrice cannot be negative")
		}
		updates["starting_price"] = *input.StartingPrice
	}
	if input.IconKey != nil {
		if !input.IconKey.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown icon key")
		}
		updates["icon_key"] = *input.IconKey
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return vt, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vehicle type")
	}
	return s.findByID(ctx, id)
}

// Deactivate hides the entry from the public catalog and from new
// bookings. Existing shipments keep their snapshotted vehicle type.
func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, map[string]any{"is_active": false}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate vehicle type")
	}
	return nil
}

func (s *service) findByID(ctx context.Context, id uuid.UUID) (*models.VehicleType, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle type id required")
	}
	vt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle type not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle type")
	}
	return vt, nil
}
