package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/api/responses"
	pkgAuth "github.com/jubahomez/jubahomez-backend/pkg/auth"
	"github.com/jubahomez/jubahomez-backend/pkg/config"
	"github.com/jubahomez/jubahomez-backend/pkg/enums"
	pkgerrors "github.com/jubahomez/jubahomez-backend/pkg/errors"
	"github.com/jubahomez/jubahomez-backend/pkg/logger"
)

// AccountChecker reports the account status of a token subject. Tokens for
// deleted accounts fail with 401; tokens for accounts that exist but are not
// active fail with 403.
type AccountChecker interface {
	AccountStatus(ctx context.Context, userID uuid.UUID) (enums.UserStatus, error)
}

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, accounts AccountChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := claimsFromRequest(cfg, r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			if accounts != nil {
				status, err := accounts.AccountStatus(r.Context(), claims.UserID)
				if err != nil {
					if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
						responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid credentials"))
						return
					}
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check account"))
					return
				}
				if status != enums.UserStatusActive {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "Account is not active"))
					return
				}
			}

			ctx := WithUserID(r.Context(), claims.UserID.String())
			ctx = WithRole(ctx, string(claims.Role))

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    claims.UserID.String(),
					"actor_role": string(claims.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth seeds context from a bearer token when one is present and
// valid, and lets the request through anonymously otherwise.
func OptionalAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := claimsFromRequest(cfg, r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithUserID(r.Context(), claims.UserID.String())
			ctx = WithRole(ctx, string(claims.Role))
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    claims.UserID.String(),
					"actor_role": string(claims.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func claimsFromRequest(cfg config.JWTConfig, r *http.Request) (*pkgAuth.AccessTokenClaims, error) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Missing credentials")
	}

	token := raw
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Missing credentials")
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Invalid token")
	}
	return claims, nil
}
