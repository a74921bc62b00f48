package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/jubahomez/jubahomez-backend/api/responses"
	"github.com/jubahomez/jubahomez-backend/pkg/config"
	"github.com/jubahomez/jubahomez-backend/pkg/db"
	"github.com/jubahomez/jubahomez-backend/pkg/logger"
	"github.com/jubahomez/jubahomez-backend/pkg/redis"
)

const dependencyCheckTimeout = 2 * time.Second

// HealthLive answers as soon as the process serves traffic.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"status": "live",
			"env":    cfg.App.Env,
		})
	}
}

// HealthReady checks the backing dependencies.
func HealthReady(logg *logger.Logger, database db.Pinger, cache redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), dependencyCheckTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		if database != nil {
			if err := database.Ping(ctx); err != nil {
				checks["db"] = err.Error()
				healthy = false
			} else {
				checks["db"] = "ok"
			}
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				checks["redis"] = err.Error()
				healthy = false
			} else {
				checks["redis"] = "ok"
			}
		}

		if !healthy {
			if logg != nil {
				logg.Warn(logg.WithField(ctx, "checks", checks), "health.not_ready")
			}
			responses.WriteRaw(w, http.StatusServiceUnavailable, map[string]any{
				"ok":     false,
				"status": "degraded",
				"checks": checks,
			})
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"status": "ready",
			"checks": checks,
		})
	}
}
