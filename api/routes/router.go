package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/swifthaul/swifthaul-backend/api/controllers"
	"github.com/swifthaul/swifthaul-backend/api/middleware"
	"github.com/swifthaul/swifthaul-backend/internal/auth"
	"github.com/swifthaul/swifthaul-backend/internal/documents"
	"github.com/swifthaul/swifthaul-backend/internal/drivers"
	"github.com/swifthaul/swifthaul-backend/internal/fleet"
	"github.com/swifthaul/swifthaul-backend/internal/notifications"
	"github.com/swifthaul/swifthaul-backend/internal/shipments"
	"github.com/swifthaul/swifthaul-backend/internal/vehicletypes"
	"github.com/swifthaul/swifthaul-backend/pkg/auth/session"
	"github.com/swifthaul/swifthaul-backend/pkg/config"
	"github.com/swifthaul/swifthaul-backend/pkg/db"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
	"github.com/swifthaul/swifthaul-backend/pkg/logger"
	"github.com/swifthaul/swifthaul-backend/pkg/metrics"
	"github.com/swifthaul/swifthaul-backend/pkg/redis"
)

// Services bundles everything the router mounts.
type Services struct {
	Auth          auth.Service
	Shipments     shipments.Service
	Drivers       drivers.Service
	Documents     documents.Service
	VehicleTypes  vehicletypes.Service
	Fleet         fleet.Service
	Notifications notifications.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	otpPolicy := middleware.NewAuthRateLimitPolicy(
		"otp",
		cfg.AuthRateLimit.OTPWindow,
		cfg.AuthRateLimit.OTPIPLimit,
		cfg.AuthRateLimit.OTPPhoneLimit,
	)
	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	otpLimited := middleware.AuthRateLimit(otpPolicy, redisClient, logg)
	loginLimited := middleware.AuthRateLimit(loginPolicy, redisClient, logg)

	authed := middleware.Auth(cfg.JWT, sessions, logg)
	maybeAuthed := middleware.OptionalAuth(cfg.JWT, sessions, logg)

	userRole := string(enums.PrincipalRoleUser)
	driverRole := string(enums.PrincipalRoleDriver)
	adminRole := string(enums.PrincipalRoleAdmin)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		r.With(otpLimited).Post("/request-otp", controllers.RequestOTP(svcs.Auth, enums.PrincipalRoleUser, logg))
		r.With(otpLimited).Post("/verify-otp", controllers.VerifyOTP(svcs.Auth, enums.PrincipalRoleUser, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, cfg.JWT, logg))
	})

	r.Route("/api/driver-auth", func(r chi.Router) {
		r.Post("/register", controllers.DriverRegister(svcs.Drivers, logg))
		r.With(otpLimited).Post("/request-otp", controllers.RequestOTP(svcs.Auth, enums.PrincipalRoleDriver, logg))
		r.With(otpLimited).Post("/verify-otp", controllers.VerifyOTP(svcs.Auth, enums.PrincipalRoleDriver, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, cfg.JWT, logg))
	})

	r.With(loginLimited).Post("/api/admin/auth/login", controllers.AdminLogin(svcs.Auth, logg))

	r.Get("/api/vehicles", controllers.PublicVehicleTypes(svcs.VehicleTypes, logg))

	r.Route("/api/shipments", func(r chi.Router) {
		r.With(maybeAuthed).Post("/", controllers.BookShipment(svcs.Shipments, logg))
		r.Get("/track/{trackingNumber}", controllers.TrackShipment(svcs.Shipments, logg))

		r.Group(func(r chi.Router) {
			r.Use(authed, middleware.RequireRole(userRole, logg))
			r.Get("/", controllers.UserShipments(svcs.Shipments, logg))
			r.Patch("/{shipmentId}/cancel", controllers.CancelShipment(svcs.Shipments, logg))
		})

		r.With(authed, middleware.RequireAnyRole(logg, driverRole, adminRole)).
			Patch("/{shipmentId}/status", controllers.UpdateShipmentStatus(svcs.Shipments, logg))

		r.Group(func(r chi.Router) {
			r.Use(authed, middleware.RequireRole(adminRole, logg))
			r.Get("/admin", controllers.AdminShipments(svcs.Shipments, logg))
			r.Patch("/admin/assign/{shipmentId}", controllers.AdminAssignShipment(svcs.Shipments, logg))
		})
	})

	r.With(authed, middleware.RequireRole(adminRole, logg)).
		Get("/api/drivers/available", controllers.AvailableDrivers(svcs.Drivers, logg))

	r.Route("/api/driver", func(r chi.Router) {
		r.Use(authed, middleware.RequireRole(driverRole, logg))
		r.Get("/profile", controllers.DriverProfile(svcs.Drivers, logg))
		r.Patch("/profile", controllers.DriverUpdateProfile(svcs.Drivers, logg))
		r.Patch("/availability", controllers.DriverSetAvailability(svcs.Drivers, logg))
		r.Get("/shipments", controllers.DriverShipments(svcs.Shipments, logg))
		r.Post("/documents/upload", controllers.DriverUploadDocument(svcs.Documents, logg))
		r.Get("/documents", controllers.DriverDocuments(svcs.Documents, logg))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authed, middleware.RequireRole(adminRole, logg))

		r.Get("/documents/pending", controllers.AdminDocuments(svcs.Documents, logg))
		r.Route("/driver-documents/{documentId}", func(r chi.Router) {
			r.Patch("/review", controllers.AdminReviewDocument(svcs.Documents, logg))
			r.Delete("/", controllers.AdminDeleteDocument(svcs.Documents, logg))
		})

		r.Route("/drivers", func(r chi.Router) {
			r.Get("/", controllers.AdminDrivers(svcs.Drivers, logg))
			r.Patch("/{driverId}/active", controllers.AdminSetDriverActive(svcs.Drivers, logg))
		})

		r.Route("/vehicle-types", func(r chi.Router) {
			r.Get("/", controllers.AdminVehicleTypes(svcs.VehicleTypes, logg))
			r.Post("/", controllers.AdminCreateVehicleType(svcs.VehicleTypes, logg))
			r.Patch("/{vehicleTypeId}", controllers.AdminUpdateVehicleType(svcs.VehicleTypes, logg))
			r.Delete("/{vehicleTypeId}", controllers.AdminDeactivateVehicleType(svcs.VehicleTypes, logg))
		})

		r.Route("/fleet", func(r chi.Router) {
			r.Get("/", controllers.AdminFleetList(svcs.Fleet, logg))
			r.Post("/", controllers.AdminFleetCreate(svcs.Fleet, logg))
			r.Get("/{vehicleId}", controllers.AdminFleetGet(svcs.Fleet, logg))
			r.Patch("/{vehicleId}", controllers.AdminFleetUpdate(svcs.Fleet, logg))
			r.Delete("/{vehicleId}", controllers.AdminFleetDelete(svcs.Fleet, logg))
		})
	})

	r.Route("/api/notifications", func(r chi.Router) {
		r.Use(authed)
		r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
		r.Post("/{notificationId}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
		r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
	})

	r.Route("/api/devices", func(r chi.Router) {
		r.Use(authed)
		r.Post("/", controllers.RegisterDevice(svcs.Notifications, logg))
		r.Delete("/", controllers.UnregisterDevice(svcs.Notifications, logg))
	})

	return r
}
