package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/swifthaul/swifthaul-backend/api/middleware"
	pkgerrors "github.com/swifthaul/swifthaul-backend/pkg/errors"
)

// principalUUID resolves the authenticated principal from the request
// context. Handlers behind the auth middleware can rely on it being set.
func principalUUID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.PrincipalIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing principal")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid principal id")
	}
	return id, nil
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier").
			WithDetails(map[string]any{"field": param})
	}
	return id, nil
}
