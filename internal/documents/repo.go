package documents

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swifthaul/swifthaul-backend/pkg/db/models"
	"github.com/swifthaul/swifthaul-backend/pkg/pagination"
)

// Repository defines persistence operations for driver document records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, doc *models.DriverDocument) (*models.DriverDocument, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.DriverDocument, error)
	FindByDriver(ctx context.Context, driverID uuid.UUID) (*models.DriverDocument, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	List(ctx context.Context, params pagination.OffsetParams, filters ListFilters) (*List, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a documents repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, doc *models.DriverDocument) (*models.DriverDocument, error) {
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.DriverDocument, error) {
	var doc models.DriverDocument
	err := r.db.WithContext(ctx).
		Preload("Driver").
		Where("id = ?", id).
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *repository) FindByDriver(ctx context.Context, driverID uuid.UUID) (*models.DriverDocument, error) {
	var doc models.DriverDocument
	err := r.db.WithContext(ctx).
		Where("driver_id = ?", driverID).
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.DriverDocument{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// List returns the admin review queue. Search matches the owning driver's
// name, email, or phone via a join on the drivers table.
func (r *repository) List(ctx context.Context, params pagination.OffsetParams, filters ListFilters) (*List, error) {
	page, limit, offset := params.Normalize()

	query := r.db.WithContext(ctx).Model(&models.DriverDocument{})
	if filters.Status != nil && *filters.Status != "" {
		query = query.Where("driver_documents.status = ?", *filters.Status)
	}
	if filters.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filters.Search)) + "%"
		query = query.
			Joins("JOIN drivers ON drivers.id = driver_documents.driver_id").
			Where(
				"(LOWER(drivers.first_name) LIKE ? OR LOWER(drivers.last_name) LIKE ? OR LOWER(drivers.email) LIKE ? OR drivers.phone LIKE ?)",
				pattern, pattern, pattern, pattern,
			)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.DriverDocument
	err := query.
		Preload("Driver").
		Order("driver_documents.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return &List{Documents: rows, Total: total, Page: page, Limit: limit}, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.DriverDocument{}).Error
}
