package vehicletypes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swifthaul/swifthaul-backend/pkg/db/models"
)

// Repository defines persistence operations for the vehicle type catalog.
type Repository interface {
	Create(ctx context.Context, vt *models.VehicleType) (*models.VehicleType, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.VehicleType, error)
	FindByVehicleType(ctx context.Context, vehicleType string) (*models.VehicleType, error)
	ListActive(ctx context.Context) ([]models.VehicleType, error)
	ListAll(ctx context.Context) ([]models.VehicleType, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, vt *models.VehicleType) (*models.VehicleType, error) {
	if err := r.db.WithContext(ctx).Create(vt).Error; err != nil {
		return nil, err
	}
	return vt, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.VehicleType, error) {
	var vt models.VehicleType
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&vt).Error
	if err != nil {
		return nil, err
	}
	return &vt, nil
}

func (r *repository) FindByVehicleType(ctx context.Context, vehicleType string) (*models.VehicleType, error) {
	var vt models.VehicleType
	err := r.db.WithContext(ctx).
		Where("vehicle_type = ?", vehicleType).
		First(&vt).Error
	if err != nil {
		return nil, err
	}
	return &vt, nil
}

func (r *repository) ListActive(ctx context.Context) ([]models.VehicleType, error) {
	var rows []models.VehicleType
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("starting_price ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.VehicleType, error) {
	var rows []models.VehicleType
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.VehicleType{}).
		Where("id = ?", id).
		Updates(updates).Error
}
