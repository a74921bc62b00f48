package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jubahomez/jubahomez-backend/api/responses"
	"github.com/jubahomez/jubahomez-backend/api/validators"
	"github.com/jubahomez/jubahomez-backend/internal/events"
	"github.com/jubahomez/jubahomez-backend/internal/properties"
	"github.com/jubahomez/jubahomez-backend/internal/viewings"
	"github.com/jubahomez/jubahomez-backend/pkg/enums"
	pkgerrors "github.com/jubahomez/jubahomez-backend/pkg/errors"
	"github.com/jubahomez/jubahomez-backend/pkg/logger"
)

type createPropertyRequest struct {
	Title       string          `json:"title" validate:"required"`
	Description *string         `json:"description"`
	Type        string          `json:"type" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Location    string          `json:"location" validate:"required"`
	AreaSqm     *float64        `json:"areaSqm"`
	OwnerID     *uuid.UUID      `json:"ownerId"`
	BrokerID    *uuid.UUID      `json:"brokerId"`
}

type createInquiryRequest struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone"`
	Message string  `json:"message" validate:"required"`
}

// PropertyCreate submits a new listing into the approval queue.
func PropertyCreate(svc properties.Service, dispatcher *events.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createPropertyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		property, list, err := svc.Create(r.Context(), actor, properties.CreateParams{
			Title:       req.Title,
			Description: req.Description,
			Type:        enums.PropertyType(req.Type),
			Price:       req.Price,
			Location:    req.Location,
			AreaSqm:     req.AreaSqm,
			OwnerID:     req.OwnerID,
			BrokerID:    req.BrokerID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dispatcher.Dispatch(r.Context(), list)

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"property": property,
		})
	}
}

// PropertyList is the public catalogue of approved listings.
func PropertyList(svc properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset, err := parsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := properties.PublicListParams{Limit: limit, Offset: offset}
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			propertyType, err := enums.ParsePropertyType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid property type"))
				return
			}
			params.Type = &propertyType
		}

		rows, err := svc.PublicList(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"properties": rows,
		})
	}
}

// PropertyGet returns one listing. Unapproved listings stay invisible to
// everyone but their party and admins.
func PropertyGet(svc properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "propertyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		property, err := svc.Get(r.Context(), actorFromRequest(r), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"property": property,
		})
	}
}

// PropertyListMine lists the actor's portfolio regardless of approval status.
func PropertyListMine(svc properties.Service, logg *logger.Logger) http.HandlerFunc {
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

		rows, err := svc.ListMine(r.Context(), actor, limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"properties": rows,
		})
	}
}

// PropertyInquiryCreate records a question about an approved listing.
// Anonymous callers are welcome.
func PropertyInquiryCreate(svc properties.Service, dispatcher *events.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "propertyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createInquiryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inquiry, list, err := svc.CreateInquiry(r.Context(), actorFromRequest(r), id, properties.InquiryParams{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Message: req.Message,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dispatcher.Dispatch(r.Context(), list)

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"inquiry": inquiry,
		})
	}
}

// PropertyViewingRequestCreate files a viewing request against a listing.
func PropertyViewingRequestCreate(svc viewings.Service, dispatcher *events.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "propertyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createViewingRequestRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, list, err := svc.CreateRequest(r.Context(), actorFromRequest(r), id, viewings.CreateRequestParams{
			Name:            req.Name,
			Email:           req.Email,
			Phone:           req.Phone,
			Message:         req.Message,
			PreferredDates:  req.PreferredDates,
			RecipientRole:   req.RecipientRole,
			RecipientUserID: req.RecipientUserID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dispatcher.Dispatch(r.Context(), list)

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"request":   result.Request,
			"reference": result.Reference,
		})
	}
}
