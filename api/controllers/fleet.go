package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/swifthaul/swifthaul-backend/api/responses"
	"github.com/swifthaul/swifthaul-backend/api/validators"
	"github.com/swifthaul/swifthaul-backend/internal/fleet"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
	pkgerrors "github.com/swifthaul/swifthaul-backend/pkg/errors"
	"github.com/swifthaul/swifthaul-backend/pkg/logger"
)

func AdminFleetList(svc fleet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status *enums.VehicleStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseVehicleStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vehicle status"))
				return
			}
			status = &parsed
		}

		vehicles, err := svc.List(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vehicles)
	}
}

func AdminFleetGet(svc fleet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "vehicleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicle, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vehicle)
	}
}

type fleetCreateRequest struct {
	VehicleNumber string     `json:"vehicleNumber" validate:"required"`
	Type          string     `json:"type" validate:"required"`
	Model         string     `json:"model"`
	LicensePlate  string     `json:"licensePlate" validate:"required"`
	Capacity      *float64   `json:"capacity"`
	MaxWeight     *float64   `json:"maxWeight"`
	DriverID      *uuid.UUID `json:"driverId"`
}

func AdminFleetCreate(svc fleet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req fleetCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicle, err := svc.Create(r.Context(), fleet.CreateInput{
			VehicleNumber: req.VehicleNumber,
			Type:          req.Type,
			Model:         req.Model,
			LicensePlate:  req.LicensePlate,
			Capacity:      req.Capacity,
			MaxWeight:     req.MaxWeight,
			DriverID:      req.DriverID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, vehicle)
	}
}

type fleetUpdateRequest struct {
	Type         *string    `json:"type"`
	Model        *string    `json:"model"`
	LicensePlate *string    `json:"licensePlate"`
	Capacity     *float64   `json:"capacity"`
	MaxWeight    *float64   `json:"maxWeight"`
	Status       *string    `json:"status"`
	DriverID     *uuid.UUID `json:"driverId"`
	ClearDriver  bool       `json:"clearDriver"`
	CurrentLat   *float64   `json:"currentLat"`
	CurrentLng   *float64   `json:"currentLng"`
}

func AdminFleetUpdate(svc fleet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "vehicleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req fleetUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := fleet.UpdateInput{
			Type:         req.Type,
			Model:        req.Model,
			LicensePlate: req.LicensePlate,
			Capacity:     req.Capacity,
			MaxWeight:    req.MaxWeight,
			DriverID:     req.DriverID,
			ClearDriver:  req.ClearDriver,
			CurrentLat:   req.CurrentLat,
			CurrentLng:   req.CurrentLng,
		}
		if req.Status != nil {
			status, err := enums.ParseVehicleStatus(strings.TrimSpace(*req.Status))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vehicle status"))
				return
			}
			input.Status = &status
		}

		vehicle, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vehicle)
	}
}

func AdminFleetDelete(svc fleet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "vehicleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
