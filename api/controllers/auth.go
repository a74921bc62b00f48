package controllers

import (
	"net/http"

	"github.com/jubahomez/jubahomez-backend/api/responses"
	"github.com/jubahomez/jubahomez-backend/api/validators"
	"github.com/jubahomez/jubahomez-backend/internal/auth"
	"github.com/jubahomez/jubahomez-backend/internal/users"
	"github.com/jubahomez/jubahomez-backend/pkg/enums"
	"github.com/jubahomez/jubahomez-backend/pkg/logger"
)

type registerRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Name     string  `json:"name" validate:"required"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthRegister creates a pending account awaiting admin approval.
func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Register(r.Context(), auth.RegisterParams{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
			Phone:    req.Phone,
			Role:     enums.UserRole(req.Role),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"user": user,
		})
	}
}

// AuthLogin exchanges credentials for an access token.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"token": result.Token,
			"user":  result.User,
		})
	}
}

// AuthMe returns the authenticated account.
func AuthMe(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.GetByID(r.Context(), actor.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"user": user,
		})
	}
}
