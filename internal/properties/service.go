package properties

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jubahomez/jubahomez-backend/internal/authz"
	"github.com/jubahomez/jubahomez-backend/internal/events"
	"github.com/jubahomez/jubahomez-backend/pkg/db/models"
	"github.com/jubahomez/jubahomez-backend/pkg/enums"
	pkgerrors "github.com/jubahomez/jubahomez-backend/pkg/errors"
)

const defaultListLimit = 50

// Service implements listing creation, the public read surface, and
// inquiries. Mutations return a post-commit event list for the dispatcher.
type Service interface {
	Create(ctx context.Context, actor authz.Actor, params CreateParams) (*models.Property, *events.List, error)
	Get(ctx context.Context, actor *authz.Actor, id uuid.UUID) (*models.Property, error)
	PublicList(ctx context.Context, params PublicListParams) ([]models.Property, error)
	ListMine(ctx context.Context, actor authz.Actor, limit, offset int) ([]models.Property, error)
	CreateInquiry(ctx context.Context, actor *authz.Actor, propertyID uuid.UUID, params InquiryParams) (*models.Inquiry, *events.List, error)
}

type service struct {
	repo Repository
}

// CreateParams carries the new-listing payload.
type CreateParams struct {
	Title       string
	Description *string
	Type        enums.PropertyType
	Price       decimal.Decimal
	Location    string
	AreaSqm     *float64

	// OwnerID/BrokerID are honored only for admin callers; owners and
	// brokers always become the responsible party themselves.
	OwnerID  *uuid.UUID
	BrokerID *uuid.UUID
}

// PublicListParams filters the public catalogue.
type PublicListParams struct {
	Type   *enums.PropertyType
	Limit  int
	Offset int
}

// InquiryParams carries a buyer/tenant question about a listing.
type InquiryParams struct {
	Name    string
	Email   string
	Phone   *string
	Message string
}

// NewService wires property dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "properties repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, actor authz.Actor, params CreateParams) (*models.Property, *events.List, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(params.Location) == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "location is required")
	}
	if !params.Type.IsValid() {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid property type")
	}
	if params.Price.IsNegative() {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	property := models.Property{
		Title:          strings.TrimSpace(params.Title),
		Description:    params.Description,
		Type:           params.Type,
		Price:          params.Price,
		Location:       strings.TrimSpace(params.Location),
		AreaSqm:        params.AreaSqm,
		ApprovalStatus: enums.ApprovalStatusPending,
	}

	switch actor.Role {
	case enums.UserRoleOwner:
		id := actor.ID
		property.OwnerID = &id
	case enums.UserRoleBroker:
		id := actor.ID
		property.BrokerID = &id
	case enums.UserRoleAdmin:
		if (params.OwnerID == nil) == (params.BrokerID == nil) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "exactly one of ownerId or brokerId is required")
		}
		property.OwnerID = params.OwnerID
		property.BrokerID = params.BrokerID
	default:
		return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "Only owners and brokers can create listings")
	}

	if err := s.repo.Create(ctx, &property); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create property")
	}

	actorID := actor.ID
	propertyID := property.ID
	list := events.NewList().Audit(events.AuditEntry{
		ActorID:    &actorID,
		Action:     "property.created",
		EntityType: "property",
		EntityID:   &propertyID,
		Meta:       map[string]any{"type": string(property.Type)},
	})

	return &property, list, nil
}

func (s *service) Get(ctx context.Context, actor *authz.Actor, id uuid.UUID) (*models.Property, error) {
	property, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load property")
	}
	if property == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Property not found")
	}
	if property.ApprovalStatus == enums.ApprovalStatusApproved {
		return property, nil
	}

	// Unapproved listings stay invisible except to their own party; hiding
	// them as missing avoids leaking that the listing exists.
	if actor != nil && authz.Allow(*actor, authz.Resource{
		OwnerID:  property.OwnerID,
		BrokerID: property.BrokerID,
	}, authz.ActionView) {
		return property, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Property not found")
}

func (s *service) PublicList(ctx context.Context, params PublicListParams) ([]models.Property, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = defaultListLimit
	}
	properties, err := s.repo.List(ctx, ListPropertiesParams{
		ApprovedOnly: true,
		Type:         params.Type,
		Limit:        limit,
		Offset:       params.Offset,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list properties")
	}
	return properties, nil
}

func (s *service) ListMine(ctx context.Context, actor authz.Actor, limit, offset int) ([]models.Property, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultListLimit
	}
	partyID := actor.ID
	params := ListPropertiesParams{Limit: limit, Offset: offset}
	if actor.Role != enums.UserRoleAdmin {
		params.PartyID = &partyID
	}
	properties, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list properties")
	}
	return properties, nil
}

func (s *service) CreateInquiry(ctx context.Context, actor *authz.Actor, propertyID uuid.UUID, params InquiryParams) (*models.Inquiry, *events.List, error) {
	if strings.TrimSpace(params.Name) == "" || strings.TrimSpace(params.Email) == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "name and email are required")
	}
	if strings.TrimSpace(params.Message) == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}

	property, err := s.repo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load property")
	}
	if property == nil || property.ApprovalStatus != enums.ApprovalStatusApproved {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "Property not found")
	}

	inquiry := models.Inquiry{
		PropertyID: property.ID,
		Name:       strings.TrimSpace(params.Name),
		Email:      strings.TrimSpace(params.Email),
		Phone:      params.Phone,
		Message:    strings.TrimSpace(params.Message),
	}
	if actor != nil {
		id := actor.ID
		inquiry.UserID = &id
	}
	if err := s.repo.CreateInquiry(ctx, &inquiry); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create inquiry")
	}

	list := events.NewList()
	inquiryID := inquiry.ID
	if actor != nil {
		actorID := actor.ID
		list.Audit(events.AuditEntry{
			ActorID:    &actorID,
			Action:     "inquiry.created",
			EntityType: "inquiry",
			EntityID:   &inquiryID,
		})
	}
	if recipient := property.ResponsibleParty(); recipient != nil {
		propertyRef := property.ID
		list.Notify(events.Notice{
			UserID:  *recipient,
			Type:    enums.NotificationTypeMessage,
			Title:   "New inquiry",
			Message: "You received a new inquiry about " + property.Title,
			RefType: "property",
			RefID:   &propertyRef,
		})
	}

	return &inquiry, list, nil
}
