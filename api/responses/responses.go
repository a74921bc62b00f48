package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/jubahomez/jubahomez-backend/pkg/errors"
	"github.com/jubahomez/jubahomez-backend/pkg/logger"
)

// WriteSuccess answers with {"ok":true, ...payload}.
func WriteSuccess(w http.ResponseWriter, payload map[string]any) {
	WriteSuccessStatus(w, http.StatusOK, payload)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, payload map[string]any) {
	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["ok"] = true
	writeJSON(w, status, body)
}

// WriteError maps a typed error onto its HTTP status and answers with
// {"ok":false,"message":...}. Internal errors keep their generic public
// message; everything else surfaces the caller-facing text.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeBadRequest,
		pkgerrors.CodeConflict,
		pkgerrors.CodeRateLimit:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	body := map[string]any{
		"ok":      false,
		"message": msg,
	}

	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			body["details"] = details
		}
	}

	if logg != nil {
		dump := pkgerrors.Dump(err)

		fields := map[string]any{
			"error":         dump.TopMessage,
			"error_code":    dump.Code,
			"error_chain":   dump.Chain,
			"pg_code":       dump.PGCode,
			"pg_detail":     dump.PGDetail,
			"pg_message":    dump.PGMessage,
			"pg_table":      dump.PGTable,
			"pg_column":     dump.PGColumn,
			"pg_constraint": dump.PGConstraint,
		}

		ctx = logg.WithFields(ctx, fields)
		logg.Error(ctx, "request.error", err)
	}

	writeJSON(w, meta.HTTPStatus, body)
}

// WriteRaw writes the payload without touching the envelope. The health
// surface uses it to report a degraded state.
func WriteRaw(w http.ResponseWriter, status int, payload map[string]any) {
	writeJSON(w, status, payload)
}

// WriteNotFoundRoute is the catch-all for unknown paths.
func WriteNotFoundRoute(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"ok":      false,
		"message": "Route not found",
		"method":  r.Method,
		"path":    r.URL.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
