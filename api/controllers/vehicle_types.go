package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/swifthaul/swifthaul-backend/api/responses"
	"github.com/swifthaul/swifthaul-backend/api/validators"
	"github.com/swifthaul/swifthaul-backend/internal/vehicletypes"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
	"github.com/swifthaul/swifthaul-backend/pkg/logger"
)

// PublicVehicleTypes serves the booking page catalog: active entries with
// derived pricing display.
func PublicVehicleTypes(svc vehicletypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.PublicList(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func AdminVehicleTypes(svc vehicletypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.AdminList(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

type vehicleTypeCreateRequest struct {
	VehicleType   string          `json:"vehicleType" validate:"required"`
	Label         string          `json:"label" validate:"required"`
	Capacity      string          `json:"capacity"`
	BasePrice     decimal.Decimal `json:"basePrice"`
	PricePerKm    decimal.Decimal `json:"pricePerKm"`
	StartingPrice decimal.Decimal `json:"startingPrice"`
	IconKey       string          `json:"iconKey"`
}

func AdminCreateVehicleType(svc vehicletypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req vehicleTypeCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), vehicletypes.CreateInput{
			VehicleType:   req.VehicleType,
			Label:         req.Label,
			Capacity:      req.Capacity,
			BasePrice:     req.BasePrice,
			PricePerKm:    req.PricePerKm,
			StartingPrice: req.StartingPrice,
			IconKey:       enums.VehicleIcon(strings.TrimSpace(req.IconKey)),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

type vehicleTypeUpdateRequest struct {
	Label         *string          `json:"label"`
	Capacity      *string          `json:"capacity"`
	BasePrice     *decimal.Decimal `json:"basePrice"`
	PricePerKm    *decimal.Decimal `json:"pricePerKm"`
	StartingPrice *decimal.Decimal `json:"startingPrice"`
	IconKey       *string          `json:"iconKey"`
	IsActive      *bool            `json:"isActive"`
}

func AdminUpdateVehicleType(svc vehicletypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "vehicleTypeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req vehicleTypeUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := vehicletypes.UpdateInput{
			Label:         req.Label,
			Capacity:      req.Capacity,
			BasePrice:     req.BasePrice,
			PricePerKm:    req.PricePerKm,
			StartingPrice: req.StartingPrice,
			IsActive:      req.IsActive,
		}
		if req.IconKey != nil {
			icon := enums.VehicleIcon(strings.TrimSpace(*req.IconKey))
			input.IconKey = &icon
		}

		updated, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// AdminDeactivateVehicleType hides a catalog entry from new bookings.
// Shipments keep the snapshot they were booked with.
func AdminDeactivateVehicleType(svc vehicletypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "vehicleTypeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}
