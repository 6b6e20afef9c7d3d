package controllers

import (
	"net/http"
	"strings"

	"github.com/swifthaul/swifthaul-backend/api/responses"
	"github.com/swifthaul/swifthaul-backend/api/validators"
	"github.com/swifthaul/swifthaul-backend/internal/drivers"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
	pkgerrors "github.com/swifthaul/swifthaul-backend/pkg/errors"
	"github.com/swifthaul/swifthaul-backend/pkg/logger"
	"github.com/swifthaul/swifthaul-backend/pkg/pagination"
)

type driverRegisterRequest struct {
	FirstName       string   `json:"firstName" validate:"required"`
	LastName        string   `json:"lastName" validate:"required"`
	Email           string   `json:"email" validate:"required,email"`
	Phone           string   `json:"phone" validate:"required"`
	VehicleType     string   `json:"vehicleType" validate:"required"`
	VehicleCapacity *float64 `json:"vehicleCapacity"`
	VehicleNumber   *string  `json:"vehicleNumber"`
}

// DriverRegister creates a driver account. The account stays unverified
// until documents are uploaded and reviewed.
func DriverRegister(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req driverRegisterRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		driver, err := svc.Register(r.Context(), drivers.RegisterInput{
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			Email:           req.Email,
			Phone:           req.Phone,
			VehicleType:     req.VehicleType,
			VehicleCapacity: req.VehicleCapacity,
			VehicleNumber:   req.VehicleNumber,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, driver)
	}
}

// DriverProfile returns the authenticated driver's profile.
func DriverProfile(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverID, err := principalUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Get(r.Context(), driverID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

type driverProfileUpdateRequest struct {
	FirstName       *string  `json:"firstName"`
	LastName        *string  `json:"lastName"`
	Email           *string  `json:"email"`
	ProfilePicture  *string  `json:"profilePicture"`
	VehicleType     *string  `json:"vehicleType"`
	VehicleCapacity *float64 `json:"vehicleCapacity"`
	VehicleNumber   *string  `json:"vehicleNumber"`
}

func DriverUpdateProfile(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverID, err := principalUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req driverProfileUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.UpdateProfile(r.Context(), driverID, drivers.UpdateProfileInput{
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			Email:           req.Email,
			ProfilePicture:  req.ProfilePicture,
			VehicleType:     req.VehicleType,
			VehicleCapacity: req.VehicleCapacity,
			VehicleNumber:   req.VehicleNumber,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

type driverAvailabilityRequest struct {
	Status string `json:"status" validate:"required"`
}

// DriverSetAvailability flips the authenticated driver online or offline.
func DriverSetAvailability(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverID, err := principalUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req driverAvailabilityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseDriverAvailability(strings.TrimSpace(req.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid availability status"))
			return
		}

		driver, err := svc.SetAvailability(r.Context(), driverID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, driver)
	}
}

// AvailableDrivers lists drivers eligible for assignment to a vehicle type.
func AvailableDrivers(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleType := strings.TrimSpace(r.URL.Query().Get("vehicleType"))
		onlineOnly, err := validators.ParseQueryBool(r, "onlineOnly", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.Available(r.Context(), vehicleType, onlineOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminDrivers lists drivers for the back office with search and filters.
func AdminDrivers(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := offsetParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := drivers.ListFilters{
			Query: strings.TrimSpace(r.URL.Query().Get("search")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("active")); raw != "" {
			active, err := validators.ParseQueryBool(r, "active", false)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			filters.Active = &active
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseDriverAvailability(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid availability status"))
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

type driverActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// AdminSetDriverActive activates or deactivates a driver account.
func AdminSetDriverActive(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverID, err := pathUUID(r, "driverId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req driverActiveRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetActive(r.Context(), driverID, *req.Active); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"active": *req.Active})
	}
}

func offsetParams(r *http.Request) (pagination.OffsetParams, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
	if err != nil {
		return pagination.OffsetParams{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.OffsetParams{}, err
	}
	return pagination.OffsetParams{Page: page, Limit: limit}, nil
}
