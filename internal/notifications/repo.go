package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swifthaul/swifthaul-backend/pkg/db/models"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
	"github.com/swifthaul/swifthaul-backend/pkg/pagination"
)

// Recipient scopes notification rows to a user or driver principal.
type Recipient struct {
	Role enums.PrincipalRole
	ID   uuid.UUID
}

func (r Recipient) column() string {
	if r.Role == enums.PrincipalRoleDriver {
		return "driver_id"
	}
	return "user_id"
}

// Repository exposes persistence helpers for notifications and device
// tokens.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context, params listParams) ([]models.Notification, *pagination.Cursor, error)
	MarkRead(ctx context.Context, recipient Recipient, notificationID uuid.UUID, now time.Time) (markResult, error)
	MarkAllRead(ctx context.Context, recipient Recipient, now time.Time) (int64, error)
	UpsertDeviceToken(ctx context.Context, token *models.DeviceToken) error
	DeactivateDeviceToken(ctx context.Context, recipient Recipient, token string) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a notifications repository bound to the provided
// database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listParams struct {
	Recipient  Recipient
	Limit      int
	Cursor     *pagination.Cursor
	UnreadOnly bool
}

type markResult struct {
	Updated bool
	Found   bool
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *repositoryImpl) List(ctx context.Context, params listParams) ([]models.Notification, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where(params.Recipient.column()+" = ?", params.Recipient.ID)
	if params.UnreadOnly {
		query = query.Where("read_at IS NULL")
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&notifications).Error; err != nil {
		return nil, nil, err
	}

	if len(notifications) > normalized {
		notifications = notifications[:normalized]
		last := notifications[normalized-1]
		return notifications, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return notifications, nil, nil
}

func (r *repositoryImpl) MarkRead(ctx context.Context, recipient Recipient, notificationID uuid.UUID, now time.Time) (markResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND "+recipient.column()+" = ? AND read_at IS NULL", notificationID, recipient.ID).
		UpdateColumn("read_at", now)
	if result.Error != nil {
		return markResult{}, result.Error
	}

	mark := markResult{Updated: result.RowsAffected > 0}
	if result.RowsAffected > 0 {
		mark.Found = true
		return mark, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND "+recipient.column()+" = ?", notificationID, recipient.ID).
		Count(&count).Error; err != nil {
		return markResult{}, err
	}
	mark.Found = count > 0
	return mark, nil
}

func (r *repositoryImpl) MarkAllRead(ctx context.Context, recipient Recipient, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where(recipient.column()+" = ? AND read_at IS NULL", recipient.ID).
		UpdateColumn("read_at", now)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// UpsertDeviceToken re-activates and re-binds an existing token row so a
// device moving between accounts follows its current owner.
func (r *repositoryImpl) UpsertDeviceToken(ctx context.Context, token *models.DeviceToken) error {
	now := time.Now().UTC()
	var existing models.DeviceToken
	err := r.db.WithContext(ctx).
		Where("token = ?", token.Token).
		First(&existing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			token.Active = true
			token.LastSeenAt = &now
			return r.db.WithContext(ctx).Create(token).Error
		}
		return err
	}

	return r.db.WithContext(ctx).
		Model(&models.DeviceToken{}).
		Where("id = ?", existing.ID).
		Updates(map[string]any{
			"user_id":      token.UserID,
			"driver_id":    token.DriverID,
			"platform":     token.Platform,
			"active":       true,
			"last_seen_at": now,
		}).Error
}

func (r *repositoryImpl) DeactivateDeviceToken(ctx context.Context, recipient Recipient, token string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.DeviceToken{}).
		Where("token = ? AND "+recipient.column()+" = ?", token, recipient.ID).
		Update("active", false)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
