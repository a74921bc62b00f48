package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/api/responses"
	"github.com/jubahomez/jubahomez-backend/api/validators"
	"github.com/jubahomez/jubahomez-backend/internal/events"
	"github.com/jubahomez/jubahomez-backend/internal/viewings"
	"github.com/jubahomez/jubahomez-backend/pkg/logger"
)

type createViewingRequestRequest struct {
	Name            string      `json:"name" validate:"required"`
	Email           string      `json:"email" validate:"required,email"`
	Phone           string      `json:"phone"`
	Message         *string     `json:"message"`
	PreferredDates  []time.Time `json:"preferredDates"`
	RecipientRole   string      `json:"recipientRole"`
	RecipientUserID *uuid.UUID  `json:"recipientUserId"`
}

type createViewingRequest struct {
	RequestID    uuid.UUID `json:"requestId" validate:"required"`
	ScheduledAt  time.Time `json:"scheduledAt" validate:"required"`
	LocationNote *string   `json:"locationNote"`
	AgentNote    *string   `json:"agentNote"`
}

type rescheduleViewingRequest struct {
	ScheduledAt  time.Time `json:"scheduledAt" validate:"required"`
	LocationNote *string   `json:"locationNote"`
}

type cancelViewingRequest struct {
	Reason string `json:"reason"`
}

// ViewingRequestList shows requests scoped to the caller: recipients see
// what landed on them, requesters see what they filed, admins see all.
func ViewingRequestList(svc viewings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, offset, err := parsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListRequests(r.Context(), actor, limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"requests": rows,
		})
	}
}

// ViewingCreate schedules a viewing from a pending request.
func ViewingCreate(svc viewings.Service, dispatcher *events.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createViewingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		viewing, list, err := svc.CreateViewing(r.Context(), actor, viewings.CreateViewingParams{
			RequestID:    req.RequestID,
			ScheduledAt:  req.ScheduledAt,
			LocationNote: req.LocationNote,
			AgentNote:    req.AgentNote,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dispatcher.Dispatch(r.Context(), list)

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"viewing": viewing,
		})
	}
}

// ViewingList shows viewings scoped the same way as requests.
func ViewingList(svc viewings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, offset, err := parsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListViewings(r.Context(), actor, limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"viewings": rows,
		})
	}
}

// ViewingReschedule moves an upcoming viewing.
func ViewingReschedule(svc viewings.Service, dispatcher *events.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := parseUUIDParam(r, "viewingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req rescheduleViewingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		viewing, list, err := svc.Reschedule(r.Context(), actor, id, viewings.RescheduleParams{
			ScheduledAt:  req.ScheduledAt,
			LocationNote: req.LocationNote,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dispatcher.Dispatch(r.Context(), list)

		responses.WriteSuccess(w, map[string]any{
			"viewing": viewing,
		})
	}
}

// ViewingCancel calls off an upcoming viewing.
func ViewingCancel(svc viewings.Service, dispatcher *events.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := parseUUIDParam(r, "viewingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req cancelViewingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		viewing, list, err := svc.Cancel(r.Context(), actor, id, req.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dispatcher.Dispatch(r.Context(), list)

		responses.WriteSuccess(w, map[string]any{
			"viewing": viewing,
		})
	}
}
