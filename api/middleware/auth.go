package middleware

import (
	"context"
	"net/http"

	"github.com/swifthaul/swifthaul-backend/api/responses"
	"github.com/swifthaul/swifthaul-backend/api/validators"
	pkgAuth "github.com/swifthaul/swifthaul-backend/pkg/auth"
	"github.com/swifthaul/swifthaul-backend/pkg/auth/session"
	"github.com/swifthaul/swifthaul-backend/pkg/config"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
	pkgerrors "github.com/swifthaul/swifthaul-backend/pkg/errors"
	"github.com/swifthaul/swifthaul-backend/pkg/logger"
)

// OptionalAuth seeds the principal context when a bearer token is present
// and lets guests through without one. A token that is present but invalid
// is still rejected, so a client with a broken session hears about it
// instead of being silently treated as a guest.
func OptionalAuth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	authed := Auth(cfg, verifier, logg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := validators.BearerToken(r); err != nil {
				next.ServeHTTP(w, r)
				return
			}
			authed(next).ServeHTTP(w, r)
		})
	}
}

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := validators.BearerToken(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxPrincipalID, claims.PrincipalID.String())
			ctx = context.WithValue(ctx, ctxRole, string(claims.Role))
			if claims.Verified != nil {
				ctx = context.WithValue(ctx, ctxVerified, *claims.Verified)
			}

			if logg != nil {
				fields := map[string]any{
					"actor_role": string(claims.Role),
				}
				switch claims.Role {
				case enums.PrincipalRoleDriver:
					fields["driver_id"] = claims.PrincipalID.String()
				case enums.PrincipalRoleAdmin:
					fields["admin_id"] = claims.PrincipalID.String()
				default:
					fields["user_id"] = claims.PrincipalID.String()
				}
				ctx = logg.WithFields(ctx, fields)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
