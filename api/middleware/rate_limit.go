package middleware

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/jubahomez/jubahomez-backend/api/responses"
	"github.com/jubahomez/jubahomez-backend/pkg/config"
	pkgerrors "github.com/jubahomez/jubahomez-backend/pkg/errors"
	"github.com/jubahomez/jubahomez-backend/pkg/logger"
)

// RateLimiter is the window counter the limiter middleware depends on.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimit applies a per-client fixed window limit. Limiter outages fail
// open so the API keeps serving when redis is down.
func RateLimit(cfg config.RateLimitConfig, limiter RateLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || cfg.Max <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			scope := clientScope(r)
			allowed, _, err := limiter.FixedWindowAllow(r.Context(), scope, cfg.Max, cfg.Window)
			if err != nil {
				if logg != nil {
					ctx := logg.WithField(r.Context(), "error", err.Error())
					logg.Warn(ctx, "rate_limit.unavailable")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "Too many requests"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientScope(r *http.Request) string {
	if uid := UserIDFromContext(r.Context()); uid != "" {
		return "user:" + uid
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
