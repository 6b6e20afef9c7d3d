package enums

import "fmt"

// DocumentCategory identifies one of the four uploadable driver documents.
type DocumentCategory string

const (
	DocumentCategoryDrivingLicense DocumentCategory = "driving_license"
	DocumentCategoryPassportPhoto  DocumentCategory = "passport_photo"
	DocumentCategoryVehicleRC      DocumentCategory = "vehicle_rc"
	DocumentCategoryInsurancePaper DocumentCategory = "insurance_paper"
)

var validDocumentCategories = []DocumentCategory{
	DocumentCategoryDrivingLicense,
	DocumentCategoryPassportPhoto,
	DocumentCategoryVehicleRC,
	DocumentCategoryInsurancePaper,
}

// DocumentCategories returns all uploadable categories in display order.
func DocumentCategories() []DocumentCategory {
	out := make([]DocumentCategory, len(validDocumentCategories))
	copy(out, validDocumentCategories)
	return out
}

// IsValid reports whether the value is a known DocumentCategory.
func (d DocumentCategory) IsValid() bool {
	for _, candidate := range validDocumentCategories {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDocumentCategory converts raw input into a DocumentCategory.
func ParseDocumentCategory(value string) (DocumentCategory, error) {
	for _, candidate := range validDocumentCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document category %q", value)
}
