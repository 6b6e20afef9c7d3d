package controllers

import (
	"net/http"
	"strings"

	"github.com/swifthaul/swifthaul-backend/api/responses"
	"github.com/swifthaul/swifthaul-backend/api/validators"
	"github.com/swifthaul/swifthaul-backend/internal/documents"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
	pkgerrors "github.com/swifthaul/swifthaul-backend/pkg/errors"
	"github.com/swifthaul/swifthaul-backend/pkg/logger"
)

// multipart parsing buffers up to this much in memory; larger parts spill
// to temp files. The per-file size cap is enforced by the storage layer.
const uploadMemoryLimit = 8 << 20

// DriverUploadDocument accepts one document file for one category. A
// re-upload for an already reviewed category resets the record to pending.
func DriverUploadDocument(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverID, err := principalUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(uploadMemoryLimit); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}

		category, err := enums.ParseDocumentCategory(strings.TrimSpace(r.FormValue("category")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid document category"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "document file required"))
			return
		}
		defer file.Close()

		record, err := svc.Upload(r.Context(), driverID, category, header.Filename, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// DriverDocuments returns the authenticated driver's document record.
func DriverDocuments(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverID, err := principalUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.GetForDriver(r.Context(), driverID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// AdminDocuments serves the review queue. Without a status filter it
// returns records in every status.
func AdminDocuments(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := offsetParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := documents.ListFilters{
			Search: strings.TrimSpace(r.URL.Query().Get("search")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseDocumentStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid document status"))
				return
			}
			filters.Status = &status
		}

		list, err := svc.AdminList(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type documentReviewRequest struct {
	Status          string  `json:"status" validate:"required"`
	RejectionReason *string `json:"rejectionReason"`
}

// AdminReviewDocument records a verified/rejected verdict.
func AdminReviewDocument(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		documentID, err := pathUUID(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req documentReviewRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseDocumentStatus(strings.TrimSpace(req.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid document status"))
			return
		}

		record, err := svc.Review(r.Context(), documentID, documents.ReviewInput{
			Status:          status,
			RejectionReason: req.RejectionReason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// AdminDeleteDocument removes a document record and its stored files. The
// driver drops back to unverified.
func AdminDeleteDocument(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		documentID, err := pathUUID(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), documentID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
