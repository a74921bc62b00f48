package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/jubahomez/jubahomez-backend/api/responses"
	"github.com/jubahomez/jubahomez-backend/api/validators"
	"github.com/jubahomez/jubahomez-backend/internal/admin"
	"github.com/jubahomez/jubahomez-backend/internal/audit"
	"github.com/jubahomez/jubahomez-backend/internal/events"
	"github.com/jubahomez/jubahomez-backend/internal/properties"
	"github.com/jubahomez/jubahomez-backend/internal/users"
	"github.com/jubahomez/jubahomez-backend/pkg/enums"
	pkgerrors "github.com/jubahomez/jubahomez-backend/pkg/errors"
	"github.com/jubahomez/jubahomez-backend/pkg/logger"
)

type rejectPropertyRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type createAnnouncementRequest struct {
	Title     string     `json:"title" validate:"required"`
	Message   string     `json:"message" validate:"required"`
	Audience  []string   `json:"audience" validate:"required,min=1"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// AdminUserList filters accounts by role and status.
func AdminUserList(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset, err := parsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := users.ListUsersParams{Limit: limit, Offset: offset}
		if raw := strings.TrimSpace(r.URL.Query().Get("role")); raw != "" {
			role, err := enums.ParseUserRole(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid role"))
				return
			}
			params.Role = &role
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseUserStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid status"))
				return
			}
			params.Status = &status
		}

		rows, err := svc.ListUsers(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"users": rows,
		})
	}
}

// AdminUserApprove activates a pending account.
func AdminUserApprove(svc admin.Service, dispatcher *events.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := parseUUIDParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, list, err := svc.ApproveUser(r.Context(), actor.ID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dispatcher.Dispatch(r.Context(), list)

		responses.WriteSuccess(w, map[string]any{
			"user": user,
		})
	}
}

// AdminUserReject blocks an account from signing in.
func AdminUserReject(svc admin.Service, dispatcher *events.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := parseUUIDParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, list, err := svc.RejectUser(r.Context(), actor.ID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dispatcher.Dispatch(r.Context(), list)

		responses.WriteSuccess(w, map[string]any{
			"user": user,
		})
	}
}

// AdminPropertyList is the approval queue, filterable by status.
func AdminPropertyList(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset, err := parsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := properties.ListPropertiesParams{Limit: limit, Offset: offset}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseApprovalStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid approval status"))
				return
			}
			params.Status = &status
		}

		rows, err := svc.ListProperties(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"properties": rows,
		})
	}
}

// AdminPropertyApprove publishes a listing.
func AdminPropertyApprove(svc admin.Service, dispatcher *events.Dispatcher, logg *logger.Logger) http.HandlerFunc {
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

		property, list, err := svc.ApproveProperty(r.Context(), actor.ID, propertyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dispatcher.Dispatch(r.Context(), list)

		responses.WriteSuccess(w, map[string]any{
			"property": property,
		})
	}
}

// AdminPropertyReject takes a listing off the public surface.
func AdminPropertyReject(svc admin.Service, dispatcher *events.Dispatcher, logg *logger.Logger) http.HandlerFunc {
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

		var req rejectPropertyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		property, list, err := svc.RejectProperty(r.Context(), actor.ID, propertyID, req.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dispatcher.Dispatch(r.Context(), list)

		responses.WriteSuccess(w, map[string]any{
			"property": property,
		})
	}
}

// AdminAuditLogList pages the audit trail with actor/action/date filters.
func AdminAuditLogList(svc audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _, err := parsePage(r)
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

		params := audit.ListParams{
			Action: strings.TrimSpace(r.URL.Query().Get("action")),
			From:   from,
			To:     to,
			Limit:  limit,
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("actorId")); raw != "" {
			actorID, err := parseUUIDQuery(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			params.ActorID = actorID
		}

		entries, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"entries": entries,
		})
	}
}

// AdminAnnouncementCreate broadcasts to the named audience roles.
func AdminAnnouncementCreate(svc admin.Service, dispatcher *events.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createAnnouncementRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		announcement, list, err := svc.Announce(r.Context(), actor.ID, admin.AnnounceParams{
			Title:     req.Title,
			Message:   req.Message,
			Audience:  req.Audience,
			ExpiresAt: req.ExpiresAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dispatcher.Dispatch(r.Context(), list)

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"announcement": announcement,
		})
	}
}

// AnnouncementList shows the live announcements to any signed-in user.
func AnnouncementList(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset, err := parsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListAnnouncements(r.Context(), limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"announcements": rows,
		})
	}
}
