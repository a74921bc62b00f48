package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/api/middleware"
	"github.com/jubahomez/jubahomez-backend/api/validators"
	"github.com/jubahomez/jubahomez-backend/internal/authz"
	"github.com/jubahomez/jubahomez-backend/pkg/enums"
	pkgerrors "github.com/jubahomez/jubahomez-backend/pkg/errors"
)

const (
	maxPageLimit  = 200
	maxPageOffset = 1_000_000
)

// actorFromRequest reads the authenticated actor seeded by the auth
// middleware. Nil on anonymous requests.
func actorFromRequest(r *http.Request) *authz.Actor {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &authz.Actor{
		ID:   id,
		Role: enums.UserRole(middleware.RoleFromContext(r.Context())),
	}
}

// requireActor is for routes behind the auth middleware, where a missing
// actor means the context was not seeded.
func requireActor(r *http.Request) (authz.Actor, error) {
	actor := actorFromRequest(r)
	if actor == nil {
		return authz.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "Missing credentials")
	}
	return *actor, nil
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid id").
			WithDetails(map[string]any{"field": name})
	}
	return id, nil
}

func parsePage(r *http.Request) (limit, offset int, err error) {
	limit, err = validators.ParseQueryInt(r, "limit", 0, 0, maxPageLimit)
	if err != nil {
		return 0, 0, err
	}
	offset, err = validators.ParseQueryInt(r, "offset", 0, 0, maxPageOffset)
	if err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

// parseUUIDQuery parses a non-empty query value into a UUID pointer.
func parseUUIDQuery(raw string) (*uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid id in query")
	}
	return &id, nil
}

// parseTimeQuery reads an optional RFC 3339 query parameter.
func parseTimeQuery(r *http.Request, key string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be RFC 3339").
			WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}
