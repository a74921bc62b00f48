package controllers

import (
	"net/http"
	"strings"

	"github.com/jubahomez/jubahomez-backend/api/responses"
	"github.com/jubahomez/jubahomez-backend/api/validators"
	"github.com/jubahomez/jubahomez-backend/internal/events"
	"github.com/jubahomez/jubahomez-backend/internal/media"
	"github.com/jubahomez/jubahomez-backend/pkg/config"
	"github.com/jubahomez/jubahomez-backend/pkg/enums"
	pkgerrors "github.com/jubahomez/jubahomez-backend/pkg/errors"
	"github.com/jubahomez/jubahomez-backend/pkg/logger"
)

type rejectMediaRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// MediaUpload ingests a multipart batch of files for a property. Files
// that are not images or videos are skipped, not fatal.
func MediaUpload(svc media.Service, uploadCfg config.UploadConfig, dispatcher *events.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	maxBytes := uploadCfg.MaxUploadMB << 20
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

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "upload exceeds the size limit or is not multipart"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		parts := r.MultipartForm.File["files"]
		if len(parts) == 0 {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "at least one file is required"))
			return
		}

		files := make([]media.UploadFile, 0, len(parts))
		for _, part := range parts {
			opened, err := part.Open()
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable multipart file"))
				return
			}
			defer opened.Close()
			files = append(files, media.UploadFile{Name: part.Filename, Contents: opened})
		}

		result, list, err := svc.Upload(r.Context(), actor, propertyID, files)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dispatcher.Dispatch(r.Context(), list)

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"uploaded": result.Uploaded,
			"skipped":  result.Skipped,
		})
	}
}

// MediaListPublic lists the approved media of a property.
func MediaListPublic(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID, err := parseUUIDParam(r, "propertyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListPublic(r.Context(), propertyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"media": rows,
		})
	}
}

// MediaDelete soft-deletes one media row.
func MediaDelete(svc media.Service, dispatcher *events.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mediaID, err := parseUUIDParam(r, "mediaId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.SoftDelete(r.Context(), actor, mediaID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dispatcher.Dispatch(r.Context(), list)

		responses.WriteSuccess(w, map[string]any{
			"deleted": true,
		})
	}
}

// MediaModerationList is the admin queue, filterable by status and property.
func MediaModerationList(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset, err := parsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := media.ListModerationParams{Limit: limit, Offset: offset}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseApprovalStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid approval status"))
				return
			}
			params.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("propertyId")); raw != "" {
			propertyID, err := parseUUIDQuery(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			params.PropertyID = propertyID
		}

		rows, err := svc.ListForModeration(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"media": rows,
		})
	}
}

// MediaApprove publishes one media row. Re-approving is a no-op.
func MediaApprove(svc media.Service, dispatcher *events.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mediaID, err := parseUUIDParam(r, "mediaId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, list, err := svc.Approve(r.Context(), actor, mediaID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dispatcher.Dispatch(r.Context(), list)

		responses.WriteSuccess(w, map[string]any{
			"media": row,
		})
	}
}

// MediaReject rejects one media row with a mandatory reason.
func MediaReject(svc media.Service, dispatcher *events.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mediaID, err := parseUUIDParam(r, "mediaId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req rejectMediaRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, list, err := svc.Reject(r.Context(), actor, mediaID, req.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dispatcher.Dispatch(r.Context(), list)

		responses.WriteSuccess(w, map[string]any{
			"media": row,
		})
	}
}
