package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/api/responses"
	"github.com/jubahomez/jubahomez-backend/api/validators"
	"github.com/jubahomez/jubahomez-backend/internal/events"
	"github.com/jubahomez/jubahomez-backend/internal/photojobs"
	"github.com/jubahomez/jubahomez-backend/pkg/logger"
)

type createPhotoJobRequest struct {
	PropertyID              uuid.UUID   `json:"propertyId" validate:"required"`
	Notes                   *string     `json:"notes"`
	PreferredDates          []time.Time `json:"preferredDates"`
	PreferredPhotographerID *uuid.UUID  `json:"preferredPhotographerId"`
}

type acceptPhotoJobRequest struct {
	PhotographerID *uuid.UUID `json:"photographerId"`
}

type rejectPhotoJobRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type schedulePhotoJobRequest struct {
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
}

type photoJobMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

// PhotoJobCreate opens a photography dispatch for a property.
func PhotoJobCreate(svc photojobs.Service, dispatcher *events.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createPhotoJobRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		job, list, err := svc.Create(r.Context(), actor, req.PropertyID, photojobs.CreateParams{
			Notes:                   req.Notes,
			PreferredDates:          req.PreferredDates,
			PreferredPhotographerID: req.PreferredPhotographerID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dispatcher.Dispatch(r.Context(), list)

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"job": job,
		})
	}
}

// PhotoJobListOpen is the photographer marketplace of acceptable jobs.
func PhotoJobListOpen(svc photojobs.Service, logg *logger.Logger) http.HandlerFunc {
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

		jobs, err := svc.ListOpen(r.Context(), actor, limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"jobs": jobs,
		})
	}
}

// PhotoJobListMine lists the caller's jobs: accepted work for
// photographers, requested dispatches for parties, everything for admins.
func PhotoJobListMine(svc photojobs.Service, logg *logger.Logger) http.HandlerFunc {
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

		jobs, err := svc.ListMine(r.Context(), actor, limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"jobs": jobs,
		})
	}
}

// PhotoJobAccept assigns an open job. Admins force-assign by passing an
// explicit photographerId.
func PhotoJobAccept(svc photojobs.Service, dispatcher *events.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		jobID, err := parseUUIDParam(r, "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req acceptPhotoJobRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		job, list, err := svc.Accept(r.Context(), actor, jobID, req.PhotographerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dispatcher.Dispatch(r.Context(), list)

		responses.WriteSuccess(w, map[string]any{
			"job": job,
		})
	}
}

// PhotoJobReject declines an open job with a reason.
func PhotoJobReject(svc photojobs.Service, dispatcher *events.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		jobID, err := parseUUIDParam(r, "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req rejectPhotoJobRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		job, list, err := svc.Reject(r.Context(), actor, jobID, req.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dispatcher.Dispatch(r.Context(), list)

		responses.WriteSuccess(w, map[string]any{
			"job": job,
		})
	}
}

// PhotoJobSchedule sets or moves the shoot time on an assigned job.
func PhotoJobSchedule(svc photojobs.Service, dispatcher *events.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		jobID, err := parseUUIDParam(r, "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req schedulePhotoJobRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		job, list, err := svc.Schedule(r.Context(), actor, jobID, req.ScheduledAt)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dispatcher.Dispatch(r.Context(), list)

		responses.WriteSuccess(w, map[string]any{
			"job": job,
		})
	}
}

// PhotoJobComplete closes a scheduled job.
func PhotoJobComplete(svc photojobs.Service, dispatcher *events.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		jobID, err := parseUUIDParam(r, "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		job, list, err := svc.Complete(r.Context(), actor, jobID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dispatcher.Dispatch(r.Context(), list)

		responses.WriteSuccess(w, map[string]any{
			"job": job,
		})
	}
}

// PhotoJobMessageCreate appends to the job's message thread.
func PhotoJobMessageCreate(svc photojobs.Service, dispatcher *events.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		jobID, err := parseUUIDParam(r, "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req photoJobMessageRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, list, err := svc.SendMessage(r.Context(), actor, jobID, req.Message)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dispatcher.Dispatch(r.Context(), list)

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"message": message,
		})
	}
}

// PhotoJobMessageList returns the thread in chronological order.
func PhotoJobMessageList(svc photojobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		jobID, err := parseUUIDParam(r, "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		messages, err := svc.ListMessages(r.Context(), actor, jobID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"messages": messages,
		})
	}
}
