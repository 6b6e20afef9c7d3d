package documents

import (
	"github.com/swifthaul/swifthaul-backend/pkg/db/models"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
)

// ListFilters describe the admin document review queue inputs. A nil or
// empty Status returns documents in every status, not just pending.
type ListFilters struct {
	Status *enums.DocumentStatus
	Search string
}

// List wraps a page of document records plus the total row count.
type List struct {
	Documents []models.DriverDocument `json:"documents"`
	Total     int64                   `json:"total"`
	Page      int                     `json:"page"`
	Limit     int                     `json:"limit"`
}

// ReviewInput carries an admin verdict for a document record.
type ReviewInput struct {
	Status          enums.DocumentStatus
	RejectionReason *string
}
