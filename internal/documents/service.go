package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/swifthaul/swifthaul-backend/pkg/db/models"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
	pkgerrors "github.com/swifthaul/swifthaul-backend/pkg/errors"
	"github.com/swifthaul/swifthaul-backend/pkg/pagination"
	pkgstorage "github.com/swifthaul/swifthaul-backend/pkg/storage/local"
)

type driverSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Driver, error)
}

type fileStore interface {
	Save(ctx context.Context, subdir, originalName string, r io.Reader) (string, error)
	Remove(ctx context.Context, relPath string) error
}

// Service exposes driver document upload and review operations.
type Service interface {
	Upload(ctx context.Context, driverID uuid.UUID, category enums.DocumentCategory, originalName string, file io.Reader) (*models.DriverDocument, error)
	GetForDriver(ctx context.Context, driverID uuid.UUID) (*models.DriverDocument, error)
	AdminList(ctx context.Context, params pagination.OffsetParams, filters ListFilters) (*List, error)
	Review(ctx context.Context, documentID uuid.UUID, input ReviewInput) (*models.DriverDocument, error)
	Delete(ctx context.Context, documentID uuid.UUID) error
}

type service struct {
	repo    Repository
	drivers driverSource
	files   fileStore
}

// NewService builds a documents service with the required dependencies.
func NewService(repo Repository, drivers driverSource, files fileStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("documents repository required")
	}
	if drivers == nil {
		return nil, fmt.Errorf("driver source required")
	}
	if files == nil {
		return nil, fmt.Errorf("file store required")
	}
	return &service{repo: repo, drivers: drivers, files: files}, nil
}

// Upload stores one document file for the driver. Any upload, including a
// replacement, resets the record to pending so the admin reviews the new
// file before the driver is considered verified again.
func (s *service) Upload(ctx context.Context, driverID uuid.UUID, category enums.DocumentCategory, originalName string, file io.Reader) (*models.DriverDocument, error) {
	if driverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "driver identity missing")
	}
	if !category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown document category").
			WithDetails(map[string]any{"category": category})
	}
	if file == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is required")
	}

	if _, err := s.drivers.FindByID(ctx, driverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "driver not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load driver")
	}

	subdir := filepath.Join("drivers", driverID.String())
	stored, err := s.files.Save(ctx, subdir, originalName, file)
	if err != nil {
		switch {
		case errors.Is(err, pkgstorage.ErrFileTooLarge):
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "file exceeds the upload size limit")
		case errors.Is(err, pkgstorage.ErrUnsupportedFileType):
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported file type")
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store document file")
		}
	}

	doc, err := s.repo.FindByDriver(ctx, driverID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.removeQuietly(ctx, stored)
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load document record")
		}
		doc = &models.DriverDocument{
			DriverID: driverID,
			Status:   enums.DocumentStatusPending,
		}
		*doc.PathFor(category) = &stored
		created, err := s.repo.Create(ctx, doc)
		if err != nil {
			s.removeQuietly(ctx, stored)
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create document record")
		}
		return created, nil
	}

	var previous *string
	if p := doc.PathFor(category); p != nil {
		previous = *p
	}

	updates := map[string]any{
		columnFor(category): stored,
		"status":            enums.DocumentStatusPending,
		"rejection_reason":  nil,
	}
	if err := s.repo.Update(ctx, doc.ID, updates); err != nil {
		s.removeQuietly(ctx, stored)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update document record")
	}

	if previous != nil && *previous != "" && *previous != stored {
		s.removeQuietly(ctx, *previous)
	}

	*doc.PathFor(category) = &stored
	doc.Status = enums.DocumentStatusPending
	doc.RejectionReason = nil
	return doc, nil
}

func (s *service) GetForDriver(ctx context.Context, driverID uuid.UUID) (*models.DriverDocument, error) {
	if driverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "driver identity missing")
	}
	doc, err := s.repo.FindByDriver(ctx, driverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no documents submitted")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load document record")
	}
	return doc, nil
}

func (s *service) AdminList(ctx context.Context, params pagination.OffsetParams, filters ListFilters) (*List, error) {
	if filters.Status != nil && *filters.Status != "" && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid document status").
			WithDetails(map[string]any{"status": *filters.Status})
	}
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list documents")
	}
	return list, nil
}

func (s *service) Review(ctx context.Context, documentID uuid.UUID, input ReviewInput) (*models.DriverDocument, error) {
	if documentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document id required")
	}
	if input.Status != enums.DocumentStatusVerified && input.Status != enums.DocumentStatusRejected {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "verdict must be verified or rejected")
	}
	if input.Status == enums.DocumentStatusRejected {
		if input.RejectionReason == nil || strings.TrimSpace(*input.RejectionReason) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejection requires a reason")
		}
	}

	doc, err := s.repo.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load document record")
	}
	if doc.Status != enums.DocumentStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "document already reviewed").
			WithDetails(map[string]any{"status": doc.Status})
	}

	updates := map[string]any{"status": input.Status}
	if input.Status == enums.DocumentStatusRejected {
		reason := strings.TrimSpace(*input.RejectionReason)
		updates["rejection_reason"] = reason
		doc.RejectionReason = &reason
	} else {
		updates["rejection_reason"] = nil
		doc.RejectionReason = nil
	}

	if err := s.repo.Update(ctx, doc.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update document record")
	}
	doc.Status = input.Status
	return doc, nil
}

// Delete removes the record and every stored file. File removal failures
// are aggregated so one bad path does not strand the rest.
func (s *service) Delete(ctx context.Context, documentID uuid.UUID) error {
	if documentID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "document id required")
	}

	doc, err := s.repo.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "document record not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load document record")
	}

	if err := s.repo.Delete(ctx, doc.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete document record")
	}

	var removeErr error
	for _, path := range doc.StoredPaths() {
		removeErr = multierr.Append(removeErr, s.files.Remove(ctx, path))
	}
	if removeErr != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, removeErr, "remove stored files")
	}
	return nil
}

func (s *service) removeQuietly(ctx context.Context, relPath string) {
	_ = s.files.Remove(ctx, relPath)
}

func columnFor(category enums.DocumentCategory) string {
	switch category {
	case enums.DocumentCategoryDrivingLicense:
		return "driving_license_path"
	case enums.DocumentCategoryPassportPhoto:
		return "passport_photo_path"
	case enums.DocumentCategoryVehicleRC:
		return "vehicle_rc_path"
	case enums.DocumentCategoryInsurancePaper:
		return "insurance_paper_path"
	default:
		return ""
	}
}
