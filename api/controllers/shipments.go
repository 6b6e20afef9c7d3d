package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/swifthaul/swifthaul-backend/api/middleware"
	"github.com/swifthaul/swifthaul-backend/api/responses"
	"github.com/swifthaul/swifthaul-backend/api/validators"
	"github.com/swifthaul/swifthaul-backend/internal/shipments"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
	pkgerrors "github.com/swifthaul/swifthaul-backend/pkg/errors"
	"github.com/swifthaul/swifthaul-backend/pkg/logger"
	"github.com/swifthaul/swifthaul-backend/pkg/pagination"
)

type bookShipmentRequest struct {
	PickupAddress       string   `json:"pickupAddress" validate:"required"`
	DeliveryAddress     string   `json:"deliveryAddress" validate:"required"`
	PickupLat           *float64 `json:"pickupLat"`
	PickupLng           *float64 `json:"pickupLng"`
	DeliveryLat         *float64 `json:"deliveryLat"`
	DeliveryLng         *float64 `json:"deliveryLng"`
	VehicleType         string   `json:"vehicleType" validate:"required"`
	Weight              *float64 `json:"weight"`
	EstimatedWeight     *float64 `json:"estimatedWeight"`
	Dimensions          *string  `json:"dimensions"`
	SpecialInstructions *string  `json:"specialInstructions"`
	Notes               *string  `json:"notes"`

	ScheduledPickupDate   *time.Time `json:"scheduledPickupDate"`
	EstimatedDeliveryDate *time.Time `json:"estimatedDeliveryDate"`

	Price    decimal.Decimal `json:"price"`
	Distance *float64        `json:"distance"`

	GuestName  string `json:"guestName"`
	GuestPhone string `json:"guestPhone"`
	GuestEmail string `json:"guestEmail"`
}

// BookShipment handles the unified booking endpoint. An authenticated user
// books under their account; without a token the guest contact triple is
// required instead.
func BookShipment(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookShipmentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// older clients send estimatedWeight
		weight := 0.0
		if req.Weight != nil {
			weight = *req.Weight
		} else if req.EstimatedWeight != nil {
			weight = *req.EstimatedWeight
		}

		input := shipments.BookInput{
			GuestName:             validators.SanitizeString(req.GuestName, 255),
			GuestPhone:            validators.SanitizeString(req.GuestPhone, 32),
			GuestEmail:            validators.SanitizeString(req.GuestEmail, 255),
			PickupAddress:         req.PickupAddress,
			DeliveryAddress:       req.DeliveryAddress,
			PickupLat:             req.PickupLat,
			PickupLng:             req.PickupLng,
			DeliveryLat:           req.DeliveryLat,
			DeliveryLng:           req.DeliveryLng,
			ScheduledPickupDate:   req.ScheduledPickupDate,
			EstimatedDeliveryDate: req.EstimatedDeliveryDate,
			Weight:                weight,
			Dimensions:            req.Dimensions,
			SpecialInstructions:   req.SpecialInstructions,
			VehicleType:           req.VehicleType,
			Price:                 req.Price,
			Distance:              req.Distance,
			Notes:                 req.Notes,
		}

		// Only a user token books under its own account. Driver and
		// admin tokens fall through to the guest path so user_id never
		// references a principal outside the users table.
		if raw := middleware.PrincipalIDFromContext(r.Context()); raw != "" &&
			middleware.RoleFromContext(r.Context()) == string(enums.PrincipalRoleUser) {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid principal id"))
				return
			}
			input.UserID = &id
		}

		shipment, err := svc.Book(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, shipment)
	}
}

// TrackShipment is the public tracking endpoint.
func TrackShipment(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trackingNumber := strings.TrimSpace(chi.URLParam(r, "trackingNumber"))
		if trackingNumber == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tracking number required"))
			return
		}

		view, err := svc.Track(r.Context(), trackingNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// UserShipments lists the authenticated user's bookings.
func UserShipments(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := principalUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := cursorParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForUser(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// DriverShipments lists the assignments of the authenticated driver.
func DriverShipments(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverID, err := principalUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := cursorParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForDriver(r.Context(), driverID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminShipments lists all shipments with optional filters.
func AdminShipments(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := cursorParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := shipments.Filters{
			VehicleType: strings.TrimSpace(r.URL.Query().Get("vehicleType")),
			Query:       strings.TrimSpace(r.URL.Query().Get("search")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseShipmentStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filters.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("driverId")); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid driverId"))
				return
			}
			filters.DriverID = &id
		}

		list, err := svc.ListAll(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type assignShipmentRequest struct {
	DriverID              uuid.UUID  `json:"driverId" validate:"required"`
	EstimatedDeliveryDate *time.Time `json:"estimatedDeliveryDate"`
	Notes                 *string    `json:"notes"`
}

// AdminAssignShipment binds a driver to a pending shipment.
func AdminAssignShipment(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shipmentID, err := pathUUID(r, "shipmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req assignShipmentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shipment, err := svc.Assign(r.Context(), shipments.AssignInput{
			ShipmentID:            shipmentID,
			DriverID:              req.DriverID,
			EstimatedDeliveryDate: req.EstimatedDeliveryDate,
			Notes:                 req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shipment)
	}
}

type shipmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateShipmentStatus advances a shipment through its lifecycle. Drivers
// may only move their own assignments; admins may move any shipment.
func UpdateShipmentStatus(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shipmentID, err := pathUUID(r, "shipmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req shipmentStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		next, err := enums.ParseShipmentStatus(strings.TrimSpace(req.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		role := middleware.RoleFromContext(r.Context())
		input := shipments.StatusInput{
			ShipmentID: shipmentID,
			Next:       next,
			ActorRole:  role,
		}
		if role == string(enums.PrincipalRoleDriver) {
			driverID, err := principalUUID(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.DriverID = &driverID
		}

		shipment, err := svc.AdvanceStatus(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shipment)
	}
}

// CancelShipment lets a user cancel their own pending booking.
func CancelShipment(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := principalUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shipmentID, err := pathUUID(r, "shipmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shipment, err := svc.CancelForUser(r.Context(), userID, shipmentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shipment)
	}
}

func cursorParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}
