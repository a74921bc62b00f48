package viewings

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/internal/authz"
	"github.com/jubahomez/jubahomez-backend/internal/events"
	"github.com/jubahomez/jubahomez-backend/pkg/db/models"
	"github.com/jubahomez/jubahomez-backend/pkg/enums"
	pkgerrors "github.com/jubahomez/jubahomez-backend/pkg/errors"
)

const defaultListLimit = 50

// PropertyDirectory is the slice of the properties repository the viewing
// workflow needs.
type PropertyDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
}

// Service implements the viewing request and viewing lifecycle.
type Service interface {
	CreateRequest(ctx context.Context, actor *authz.Actor, propertyID uuid.UUID, params CreateRequestParams) (*RequestResult, *events.List, error)
	ListRequests(ctx context.Context, actor authz.Actor, limit, offset int) ([]RequestResult, error)
	CreateViewing(ctx context.Context, actor authz.Actor, params CreateViewingParams) (*models.Viewing, *events.List, error)
	ListViewings(ctx context.Context, actor authz.Actor, limit, offset int) ([]models.Viewing, error)
	Reschedule(ctx context.Context, actor authz.Actor, viewingID uuid.UUID, params RescheduleParams) (*models.Viewing, *events.List, error)
	Cancel(ctx context.Context, actor authz.Actor, viewingID uuid.UUID, reason string) (*models.Viewing, *events.List, error)
}

type service struct {
	repo       Repository
	properties PropertyDirectory
}

// CreateRequestParams carries the (possibly anonymous) request payload.
// RecipientRole/RecipientUserID override the default broker-then-owner
// routing; an explicit id must belong to the property's party set.
type CreateRequestParams struct {
	Name            string
	Email           string
	Phone           string
	Message         *string
	PreferredDates  []time.Time
	RecipientRole   string
	RecipientUserID *uuid.UUID
}

// RequestResult decorates a request row with its public reference.
type RequestResult struct {
	Request   models.ViewingRequest `json:"request"`
	Reference string                `json:"reference"`
}

// CreateViewingParams schedules a viewing from a pending request.
type CreateViewingParams struct {
	RequestID    uuid.UUID
	ScheduledAt  time.Time
	LocationNote *string
	AgentNote    *string
}

// RescheduleParams moves an upcoming viewing.
type RescheduleParams struct {
	ScheduledAt  time.Time
	LocationNote *string
}

// NewService wires viewing dependencies.
func NewService(repo Repository, properties PropertyDirectory) (Service, error) {
	if repo == nil || properties == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "viewings service dependencies required")
	}
	return &service{repo: repo, properties: properties}, nil
}

// Reference renders the public identifier, e.g. VR-2026-000042.
func Reference(request models.ViewingRequest) string {
	year := request.CreatedAt.Year()
	if year == 1 {
		year = time.Now().UTC().Year()
	}
	return fmt.Sprintf("VR-%d-%06d", year, request.Seq)
}

func (s *service) CreateRequest(ctx context.Context, actor *authz.Actor, propertyID uuid.UUID, params CreateRequestParams) (*RequestResult, *events.List, error) {
	if strings.TrimSpace(params.Name) == "" || strings.TrimSpace(params.Email) == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "name and email are required")
	}

	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load property")
	}
	if property == nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "Property not found")
	}

	recipient, err := resolveRecipient(property, params)
	if err != nil {
		return nil, nil, err
	}

	request := models.ViewingRequest{
		PropertyID:      property.ID,
		RecipientUserID: recipient,
		RequesterName:   strings.TrimSpace(params.Name),
		RequesterEmail:  strings.TrimSpace(params.Email),
		RequesterPhone:  strings.TrimSpace(params.Phone),
		Message:         params.Message,
		Status:          enums.ViewingRequestStatusPending,
	}
	if actor != nil {
		id := actor.ID
		request.RequesterUserID = &id
	}
	if len(params.PreferredDates) > 0 {
		raw, err := json.Marshal(params.PreferredDates)
		if err == nil {
			encoded := string(raw)
			request.PreferredDatesJSON = &encoded
		}
	}

	if err := s.repo.CreateRequest(ctx, &request); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create viewing request")
	}

	reference := Reference(request)
	requestRef := request.ID
	entry := events.AuditEntry{
		Action:     "viewing_request.created",
		EntityType: "viewing_request",
		EntityID:   &requestRef,
		Meta:       map[string]any{"reference": reference},
	}
	if actor != nil {
		actorID := actor.ID
		entry.ActorID = &actorID
	}
	list := events.NewList().Audit(entry)

	list.NotifyOnce(events.Notice{
		UserID:  recipient,
		Type:    enums.NotificationTypeViewing,
		Title:   "New viewing request",
		Message: fmt.Sprintf("%s requested a viewing of %s (%s)", request.RequesterName, property.Title, reference),
		RefType: "viewing_request",
		RefID:   &requestRef,
	})
	if request.RequesterUserID != nil {
		list.NotifyOnce(events.Notice{
			UserID:  *request.RequesterUserID,
			Type:    enums.NotificationTypeViewing,
			Title:   "Viewing request sent",
			Message: fmt.Sprintf("Your viewing request %s was sent for %s", reference, property.Title),
			RefType: "viewing_request",
			RefID:   &requestRef,
		})
	}

	return &RequestResult{Request: request, Reference: reference}, list, nil
}

// resolveRecipient applies the broker-then-owner default, with optional
// role or explicit-id overrides validated against the property's parties.
func resolveRecipient(property *models.Property, params CreateRequestParams) (uuid.UUID, error) {
	if params.RecipientUserID != nil {
		id := *params.RecipientUserID
		if (property.BrokerID != nil && *property.BrokerID == id) ||
			(property.OwnerID != nil && *property.OwnerID == id) {
			return id, nil
		}
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeBadRequest, "recipientUserId is not a party of this property")
	}

	switch strings.ToLower(params.RecipientRole) {
	case "owner":
		if property.OwnerID == nil {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeBadRequest, "property has no owner")
		}
		return *property.OwnerID, nil
	case "broker":
		if property.BrokerID == nil {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeBadRequest, "property has no broker")
		}
		return *property.BrokerID, nil
	case "":
	default:
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "recipientRole must be owner or broker")
	}

	if recipient := property.ResponsibleParty(); recipient != nil {
		return *recipient, nil
	}
	return uuid.Nil, pkgerrors.New(pkgerrors.CodeBadRequest, "property has no responsible party")
}

func (s *service) ListRequests(ctx context.Context, actor authz.Actor, limit, offset int) ([]RequestResult, error) {
	params := scopeFor(actor, limit, offset)
	rows, err := s.repo.ListRequests(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list viewing requests")
	}
	results := make([]RequestResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, RequestResult{Request: row, Reference: Reference(row)})
	}
	return results, nil
}

func (s *service) CreateViewing(ctx context.Context, actor authz.Actor, params CreateViewingParams) (*models.Viewing, *events.List, error) {
	if params.ScheduledAt.IsZero() {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "scheduledAt is required")
	}

	request, err := s.repo.GetRequestByID(ctx, params.RequestID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load viewing request")
	}
	if request == nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "Viewing request not found")
	}

	// Only the recipient or an admin may schedule; the requester is
	// deliberately left out of the descriptor here.
	recipient := request.RecipientUserID
	if !authz.Allow(actor, authz.Resource{RecipientID: &recipient}, authz.ActionManage) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "Only the recipient can schedule this viewing")
	}
	if request.Status != enums.ViewingRequestStatusPending {
		return nil, nil, pkgerrors.New(pkgerrors.CodeBadRequest, "Viewing request was already accepted")
	}

	viewing := models.Viewing{
		RequestID:       request.ID,
		PropertyID:      request.PropertyID,
		RecipientUserID: request.RecipientUserID,
		RequesterUserID: request.RequesterUserID,
		ScheduledAt:     params.ScheduledAt,
		LocationNote:    params.LocationNote,
		AgentNote:       params.AgentNote,
		Status:          enums.ViewingStatusUpcoming,
	}
	accepted, err := s.repo.AcceptRequestAndCreateViewing(ctx, request.ID, &viewing)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "accept viewing request")
	}
	if !accepted {
		return nil, nil, pkgerrors.New(pkgerrors.CodeBadRequest, "Viewing request was already accepted")
	}

	actorID := actor.ID
	viewingRef := viewing.ID
	list := events.NewList().Audit(events.AuditEntry{
		ActorID:    &actorID,
		Action:     "viewing.scheduled",
		EntityType: "viewing",
		EntityID:   &viewingRef,
		Meta:       map[string]any{"reference": Reference(*request)},
	})
	if request.RequesterUserID != nil {
		list.NotifyOnce(events.Notice{
			UserID:  *request.RequesterUserID,
			Type:    enums.NotificationTypeViewing,
			Title:   "Viewing scheduled",
			Message: fmt.Sprintf("Your viewing %s is scheduled for %s", Reference(*request), viewing.ScheduledAt.Format(time.RFC1123)),
			RefType: "viewing",
			RefID:   &viewingRef,
		})
	}

	return &viewing, list, nil
}

func (s *service) ListViewings(ctx context.Context, actor authz.Actor, limit, offset int) ([]models.Viewing, error) {
	rows, err := s.repo.ListViewings(ctx, scopeFor(actor, limit, offset))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list viewings")
	}
	return rows, nil
}

func (s *service) Reschedule(ctx context.Context, actor authz.Actor, viewingID uuid.UUID, params RescheduleParams) (*models.Viewing, *events.List, error) {
	if params.ScheduledAt.IsZero() {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "scheduledAt is required")
	}

	viewing, err := s.authorizeViewingChange(ctx, actor, viewingID)
	if err != nil {
		return nil, nil, err
	}

	updated, err := s.repo.Reschedule(ctx, viewing.ID, params.ScheduledAt, params.LocationNote)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reschedule viewing")
	}
	if !updated {
		return nil, nil, pkgerrors.New(pkgerrors.CodeBadRequest, "Only upcoming viewings can be rescheduled")
	}
	viewing.ScheduledAt = params.ScheduledAt
	if params.LocationNote != nil {
		viewing.LocationNote = params.LocationNote
	}

	list := s.changeEvents(actor, viewing, "viewing.rescheduled", "Viewing rescheduled",
		"The viewing was moved to "+params.ScheduledAt.Format(time.RFC1123), nil)
	return viewing, list, nil
}

func (s *service) Cancel(ctx context.Context, actor authz.Actor, viewingID uuid.UUID, reason string) (*models.Viewing, *events.List, error) {
	viewing, err := s.authorizeViewingChange(ctx, actor, viewingID)
	if err != nil {
		return nil, nil, err
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}
	updated, err := s.repo.Cancel(ctx, viewing.ID, reasonPtr)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel viewing")
	}
	if !updated {
		return nil, nil, pkgerrors.New(pkgerrors.CodeBadRequest, "Only upcoming viewings can be cancelled")
	}
	viewing.Status = enums.ViewingStatusCancelled
	viewing.CancelReason = reasonPtr

	message := "The viewing was cancelled"
	var meta map[string]any
	if reason != "" {
		message += ": " + reason
		meta = map[string]any{"reason": reason}
	}
	list := s.changeEvents(actor, viewing, "viewing.cancelled", "Viewing cancelled", message, meta)
	return viewing, list, nil
}

// authorizeViewingChange loads the viewing and applies the three-way
// admin/recipient/requester gate shared by reschedule and cancel.
func (s *service) authorizeViewingChange(ctx context.Context, actor authz.Actor, viewingID uuid.UUID) (*models.Viewing, error) {
	viewing, err := s.repo.GetViewingByID(ctx, viewingID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load viewing")
	}
	if viewing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Viewing not found")
	}

	recipient := viewing.RecipientUserID
	if !authz.Allow(actor, authz.Resource{
		RecipientID: &recipient,
		RequesterID: viewing.RequesterUserID,
	}, authz.ActionManage) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Not allowed to change this viewing")
	}
	return viewing, nil
}

// changeEvents builds the audit entry plus deduplicated requester/recipient
// notices for reschedule and cancel.
func (s *service) changeEvents(actor authz.Actor, viewing *models.Viewing, action, title, message string, meta map[string]any) *events.List {
	actorID := actor.ID
	viewingRef := viewing.ID

	list := events.NewList().Audit(events.AuditEntry{
		ActorID:    &actorID,
		Action:     action,
		EntityType: "viewing",
		EntityID:   &viewingRef,
		Meta:       meta,
	})
	if viewing.RequesterUserID != nil {
		list.NotifyOnce(events.Notice{
			UserID:  *viewing.RequesterUserID,
			Type:    enums.NotificationTypeViewing,
			Title:   title,
			Message: message,
			RefType: "viewing",
			RefID:   &viewingRef,
		})
	}
	list.NotifyOnce(events.Notice{
		UserID:  viewing.RecipientUserID,
		Type:    enums.NotificationTypeViewing,
		Title:   title,
		Message: message,
		RefType: "viewing",
		RefID:   &viewingRef,
	})
	return list
}

func scopeFor(actor authz.Actor, limit, offset int) ListScopeParams {
	if limit <= 0 || limit > 100 {
		limit = defaultListLimit
	}
	params := ListScopeParams{Limit: limit, Offset: offset}
	id := actor.ID
	switch actor.Role {
	case enums.UserRoleAdmin:
	case enums.UserRoleOwner, enums.UserRoleBroker:
		params.RecipientID = &id
	default:
		params.RequesterID = &id
	}
	return params
}
