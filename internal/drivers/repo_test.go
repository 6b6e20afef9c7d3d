package drivers

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

func setupDriversTestDB(t *testing.T) *gorm.DB {
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
  vehicle_number TEXT UNIQUE,
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

func seedDriver(t *testing.T, db *gorm.DB, phone, vehicleType string, status enums.DriverAvailability, active bool, docStatus *enums.DocumentStatus) *models.Driver {
	t.Helper()

	driver := &models.Driver{
		ID:                 uuid.New(),
		FirstName:          "Test",
		LastName:           "Driver",
		Email:              phone + "@example.com",
		Phone:              phone,
		Active:             active,
		AvailabilityStatus: status,
		VehicleType:        vehicleType,
	}
	require.NoError(t, db.Create(driver).Error)
	if !active {
		// gorm skips zero values on columns with a default tag, so
		// inactive drivers need an explicit column write.
		require.NoError(t, db.Model(driver).UpdateColumn("active", false).Error)
	}

	if docStatus != nil {
		doc := &models.DriverDocument{
			ID:       uuid.New(),
			DriverID: driver.ID,
			Status:   *docStatus,
		}
		require.NoError(t, db.Create(doc).Error)
	}
	return driver
}

func docStatus(s enums.DocumentStatus) *enums.DocumentStatus { return &s }

func TestRepositoryFindWithDocument(t *testing.T) {
	db := setupDriversTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seeded := seedDriver(t, db, "+15550000001", "truck", enums.DriverAvailabilityOnline, true, docStatus(enums.DocumentStatusVerified))

	driver, err := repo.FindWithDocument(ctx, seeded.ID)
	require.NoError(t, err)
	require.NotNil(t, driver.Document)
	assert.True(t, driver.IsVerified())

	byPhone, err := repo.FindByPhone(ctx, "+15550000001")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, byPhone.ID)
}

func TestRepositoryAvailable(t *testing.T) {
	db := setupDriversTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	match := seedDriver(t, db, "+15550000010", "truck", enums.DriverAvailabilityOnline, true, docStatus(enums.DocumentStatusVerified))
	offline := seedDriver(t, db, "+15550000011", "truck", enums.DriverAvailabilityOffline, true, docStatus(enums.DocumentStatusVerified))
	seedDriver(t, db, "+15550000012", "truck", enums.DriverAvailabilityOnline, true, docStatus(enums.DocumentStatusPending))
	seedDriver(t, db, "+15550000013", "truck", enums.DriverAvailabilityOnline, false, docStatus(enums.DocumentStatusVerified))
	seedDriver(t, db, "+15550000014", "bike", enums.DriverAvailabilityOnline, true, docStatus(enums.DocumentStatusVerified))
	seedDriver(t, db, "+15550000015", "truck", enums.DriverAvailabilityOnline, true, nil)

	online, err := repo.Available(ctx, "truck", true)
	require.NoError(t, err)
	require.Len(t, online, 1)
	assert.Equal(t, match.ID, online[0].ID)

	all, err := repo.Available(ctx, "truck", false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	ids := []uuid.UUID{all[0].ID, all[1].ID}
	assert.Contains(t, ids, match.ID)
	assert.Contains(t, ids, offline.ID)
}

func TestRepositoryListFiltersAndSearch(t *testing.T) {
	db := setupDriversTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	driver := seedDriver(t, db, "+15550000020", "truck", enums.DriverAvailabilityOnline, true, nil)
	require.NoError(t, db.Model(&models.Driver{}).Where("id = ?", driver.ID).Updates(map[string]any{
		"first_name": "Amara",
		"last_name":  "Diallo",
	}).Error)
	seedDriver(t, db, "+15550000021", "bike", enums.DriverAvailabilityOffline, false, nil)

	list, err := repo.List(ctx, pagination.OffsetParams{Page: 1, Limit: 10}, ListFilters{Query: "amara"})
	require.NoError(t, err)
	require.Len(t, list.Drivers, 1)
	assert.Equal(t, driver.ID, list.Drivers[0].ID)
	assert.Equal(t, int64(1), list.Total)

	active := true
	byActive, err := repo.List(ctx, pagination.OffsetParams{Page: 1, Limit: 10}, ListFilters{Active: &active})
	require.NoError(t, err)
	require.Len(t, byActive.Drivers, 1)
}
