package drivers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swifthaul/swifthaul-backend/pkg/db/models"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
	"github.com/swifthaul/swifthaul-backend/pkg/pagination"
)

// Repository defines persistence operations for driver accounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, driver *models.Driver) (*models.Driver, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	FindWithDocument(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	FindByPhone(ctx context.Context, phone string) (*models.Driver, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	List(ctx context.Context, params pagination.OffsetParams, filters ListFilters) (*List, error)
	Available(ctx context.Context, vehicleType string, onlineOnly bool) ([]models.Driver, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a drivers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, driver *models.Driver) (*models.Driver, error) {
	if err := r.db.WithContext(ctx).Create(driver).Error; err != nil {
		return nil, err
	}
	return driver, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	var driver models.Driver
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&driver).Error
	if err != nil {
		return nil, err
	}
	return &driver, nil
}

func (r *repository) FindWithDocument(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	var driver models.Driver
	err := r.db.WithContext(ctx).
		Preload("Document").
		Where("id = ?", id).
		First(&driver).Error
	if err != nil {
		return nil, err
	}
	return &driver, nil
}

func (r *repository) FindByPhone(ctx context.Context, phone string) (*models.Driver, error) {
	var driver models.Driver
	err := r.db.WithContext(ctx).
		Preload("Document").
		Where("phone = ?", phone).
		First(&driver).Error
	if err != nil {
		return nil, err
	}
	return &driver, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Driver{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) List(ctx context.Context, params pagination.OffsetParams, filters ListFilters) (*List, error) {
	page, limit, offset := params.Normalize()

	query := r.db.WithContext(ctx).Model(&models.Driver{})
	if filters.Active != nil {
		query = query.Where("active = ?", *filters.Active)
	}
	if filters.Status != nil {
		query = query.Where("availability_status = ?", *filters.Status)
	}
	if filters.Query != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filters.Query)) + "%"
		query = query.Where(
			"(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?)",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.Driver
	err := query.
		Preload("Document").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return &List{Drivers: rows, Total: total, Page: page, Limit: limit}, nil
}

// Available returns active, document-verified drivers registered for the
// vehicle type. onlineOnly additionally requires availability online.
func (r *repository) Available(ctx context.Context, vehicleType string, onlineOnly bool) ([]models.Driver, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Driver{}).
		Preload("Document").
		Where("active = ?", true).
		Where("vehicle_type = ?", vehicleType).
		Where(
			"EXISTS (SELECT 1 FROM driver_documents dd WHERE dd.driver_id = drivers.id AND dd.status = ?)",
			enums.DocumentStatusVerified,
		)
	if onlineOnly {
		query = query.Where("availability_status = ?", enums.DriverAvailabilityOnline)
	}

	var rows []models.Driver
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
