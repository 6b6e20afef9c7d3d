package documents

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/swifthaul/swifthaul-backend/pkg/db/models"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
	"github.com/swifthaul/swifthaul-backend/pkg/pagination"
)

func setupDocumentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	drivers := `
CREATE TABLE IF NOT EXISTS drivers (
  id TEXT PRIMARY KEY,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  phone TEXT NOT NULL UNIQUE,
  active INTEGER NOT NULL DEFAULT 1,
  availability_status TEXT NOT NULL DEFAULT 'offline',
  profile_picture TEXT,
  vehicle_type TEXT,
  vehicle_capacity REAL,
  vehicle_number TEXT,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	documents := `
CREATE TABLE IF NOT EXISTS driver_documents (
  id TEXT PRIMARY KEY,
  driver_id TEXT NOT NULL UNIQUE,
  driving_license_path TEXT,
  passport_photo_path TEXT,
  vehicle_rc_path TEXT,
  insurance_paper_path TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  rejection_reason TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(drivers).Error)
	require.NoError(t, db.Exec(documents).Error)
	return db
}

func seedDriverWithDocument(t *testing.T, db *gorm.DB, firstName, phone string, status enums.DocumentStatus) *models.DriverDocument {
	t.Helper()

	driver := &models.Driver{
		ID:        uuid.New(),
		FirstName: firstName,
		LastName:  "Driver",
		Email:     phone + "@example.com",
		Phone:     phone,
		Active:    true,
	}
	require.NoError(t, db.Create(driver).Error)

	doc := &models.DriverDocument{
		ID:       uuid.New(),
		DriverID: driver.ID,
		Status:   status,
	}
	require.NoError(t, db.Create(doc).Error)
	return doc
}

func TestRepositoryListDefaultsToAllStatuses(t *testing.T) {
	db := setupDocumentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedDriverWithDocument(t, db, "Ana", "+15550000100", enums.DocumentStatusPending)
	seedDriverWithDocument(t, db, "Ben", "+15550000101", enums.DocumentStatusVerified)
	seedDriverWithDocument(t, db, "Cleo", "+15550000102", enums.DocumentStatusRejected)

	all, err := repo.List(ctx, pagination.OffsetParams{Page: 1, Limit: 10}, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, all.Documents, 3)
	assert.Equal(t, int64(3), all.Total)

	empty := enums.DocumentStatus("")
	allAgain, err := repo.List(ctx, pagination.OffsetParams{Page: 1, Limit: 10}, ListFilters{Status: &empty})
	require.NoError(t, err)
	assert.Len(t, allAgain.Documents, 3)

	verified := enums.DocumentStatusVerified
	onlyVerified, err := repo.List(ctx, pagination.OffsetParams{Page: 1, Limit: 10}, ListFilters{Status: &verified})
	require.NoError(t, err)
	require.Len(t, onlyVerified.Documents, 1)
	assert.Equal(t, enums.DocumentStatusVerified, onlyVerified.Documents[0].Status)
}

func TestRepositoryListSearchesDriverFields(t *testing.T) {
	db := setupDocumentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	target := seedDriverWithDocument(t, db, "Amara", "+15550000110", enums.DocumentStatusPending)
	seedDriverWithDocument(t, db, "Ben", "+15550000111", enums.DocumentStatusPending)

	byName, err := repo.List(ctx, pagination.OffsetParams{Page: 1, Limit: 10}, ListFilters{Search: "amara"})
	require.NoError(t, err)
	require.Len(t, byName.Documents, 1)
	assert.Equal(t, target.ID, byName.Documents[0].ID)
	require.NotNil(t, byName.Documents[0].Driver)
	assert.Equal(t, "Amara", byName.Documents[0].Driver.FirstName)

	byPhone, err := repo.List(ctx, pagination.OffsetParams{Page: 1, Limit: 10}, ListFilters{Search: "+15550000110"})
	require.NoError(t, err)
	require.Len(t, byPhone.Documents, 1)
	assert.Equal(t, target.ID, byPhone.Documents[0].ID)
}

func TestRepositoryFindByDriverAndDelete(t *testing.T) {
	db := setupDocumentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	doc := seedDriverWithDocument(t, db, "Dana", "+15550000120", enums.DocumentStatusPending)

	found, err := repo.FindByDriver(ctx, doc.DriverID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, found.ID)

	require.NoError(t, repo.Delete(ctx, doc.ID))
	_, err = repo.FindByDriver(ctx, doc.DriverID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
