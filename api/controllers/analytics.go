package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/api/responses"
	"github.com/jubahomez/jubahomez-backend/api/validators"
	"github.com/jubahomez/jubahomez-backend/internal/analytics"
	"github.com/jubahomez/jubahomez-backend/internal/events"
	"github.com/jubahomez/jubahomez-backend/pkg/logger"
)

type trackEventRequest struct {
	Type       string         `json:"type" validate:"required"`
	PropertyID *uuid.UUID     `json:"propertyId"`
	SessionID  *string        `json:"sessionId"`
	Meta       map[string]any `json:"meta"`
}

// AnalyticsTrack appends one tracking event, anonymously or signed in.
func AnalyticsTrack(svc analytics.Service, dispatcher *events.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req trackEventRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var actorID *uuid.UUID
		if actor := actorFromRequest(r); actor != nil {
			id := actor.ID
			actorID = &id
		}

		event, list, err := svc.TrackEvent(r.Context(), actorID, analytics.TrackParams{
			Type:       req.Type,
			PropertyID: req.PropertyID,
			SessionID:  req.SessionID,
			Meta:       req.Meta,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dispatcher.Dispatch(r.Context(), list)

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"event": event,
		})
	}
}

// AnalyticsPropertyStats aggregates one property's counters over an
// optional from/to range.
func AnalyticsPropertyStats(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		propertyID, err := parseUUIDParam(r, "propertyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		from, err := parseTimeQuery(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := parseTimeQuery(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.PropertyStats(r.Context(), actor, propertyID, from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"stats": stats,
		})
	}
}

// AnalyticsMyStats returns one counter row per property in the caller's
// portfolio.
func AnalyticsMyStats(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		from, err := parseTimeQuery(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := parseTimeQuery(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.MyPropertiesStats(r.Context(), actor, from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"properties": entries,
		})
	}
}
