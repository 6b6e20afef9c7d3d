package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/swifthaul/swifthaul-backend/pkg/enums"
)

// DriverDocument holds the four uploadable document paths for a driver and
// the record-level review status covering all of them.
type DriverDocument struct {
	ID                 uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DriverID           uuid.UUID            `gorm:"column:driver_id;type:uuid;not null;uniqueIndex" json:"driverId"`
	DrivingLicensePath *string              `gorm:"column:driving_license_path" json:"drivingLicensePath,omitempty"`
	PassportPhotoPath  *string              `gorm:"column:passport_photo_path" json:"passportPhotoPath,omitempty"`
	VehicleRCPath      *string              `gorm:"column:vehicle_rc_path" json:"vehicleRcPath,omitempty"`
	InsurancePaperPath *string              `gorm:"column:insurance_paper_path" json:"insurancePaperPath,omitempty"`
	Status             enums.DocumentStatus `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	RejectionReason    *string              `gorm:"column:rejection_reason" json:"rejectionReason,omitempty"`
	Driver             *Driver              `gorm:"foreignKey:DriverID;references:ID" json:"driver,omitempty"`
	CreatedAt          time.Time            `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// PathFor returns a pointer to the stored path column for the category.
func (d *DriverDocument) PathFor(category enums.DocumentCategory) **string {
	switch category {
	case enums.DocumentCategoryDrivingLicense:
		return &d.DrivingLicensePath
	case enums.DocumentCategoryPassportPhoto:
		return &d.PassportPhotoPath
	case enums.DocumentCategoryVehicleRC:
		return &d.VehicleRCPath
	case enums.DocumentCategoryInsurancePaper:
		return &d.InsurancePaperPath
	default:
		return nil
	}
}

// StoredPaths returns the non-nil document paths.
func (d DriverDocument) StoredPaths() []string {
	paths := []string{}
	for _, p := range []*string{d.DrivingLicensePath, d.PassportPhotoPath, d.VehicleRCPath, d.InsurancePaperPath} {
		if p != nil && *p != "" {
			paths = append(paths, *p)
		}
	}
	return paths
}
