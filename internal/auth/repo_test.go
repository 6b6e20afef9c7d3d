package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/swifthaul/swifthaul-backend/pkg/db/models"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT,
  phone TEXT NOT NULL UNIQUE,
  email TEXT UNIQUE,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	admins := `
CREATE TABLE IF NOT EXISTS admins (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(admins).Error)
	return db
}

func TestRepositoryUserLifecycle(t *testing.T) {
	db := setupAuthTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := &models.User{ID: uuid.New(), Phone: "+15550100", IsActive: true}
	require.NoError(t, repo.CreateUser(ctx, user))

	found, err := repo.FindUserByPhone(ctx, "+15550100")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindUserByPhone(ctx, "+15550199")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	now := time.Now().UTC()
	require.NoError(t, repo.UpdateUser(ctx, user.ID, map[string]any{"last_login_at": now}))
	found, err = repo.FindUserByPhone(ctx, "+15550100")
	require.NoError(t, err)
	require.NotNil(t, found.LastLoginAt)
}

func TestRepositoryFindAdminByEmailIsCaseInsensitive(t *testing.T) {
	db := setupAuthTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	admin := &models.Admin{ID: uuid.New(), Email: "ops@swifthaul.test", PasswordHash: "x", IsActive: true}
	require.NoError(t, db.Create(admin).Error)

	found, err := repo.FindAdminByEmail(ctx, "OPS@SwiftHaul.TEST")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, found.ID)
}
