package analytics

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jubahomez/jubahomez-backend/internal/authz"
	"github.com/jubahomez/jubahomez-backend/internal/events"
	"github.com/jubahomez/jubahomez-backend/pkg/db/models"
	"github.com/jubahomez/jubahomez-backend/pkg/enums"
	pkgerrors "github.com/jubahomez/jubahomez-backend/pkg/errors"
)

// EventTypeView is the tracking type the view counters aggregate.
const EventTypeView = "view"

const maxEventTypeLen = 64

const portfolioConcurrency = 4

// PropertyDirectory is the slice of the properties repository the stats
// paths need.
type PropertyDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	ListForParty(ctx context.Context, userID uuid.UUID) ([]models.Property, error)
	ListAll(ctx context.Context) ([]models.Property, error)
}

// ViewingCounter counts scheduled viewings per property set.
type ViewingCounter interface {
	CountForProperties(ctx context.Context, propertyIDs []uuid.UUID, from, to *time.Time) (int64, error)
}

// Service appends tracking events and aggregates per-property stats.
type Service interface {
	TrackEvent(ctx context.Context, actorID *uuid.UUID, params TrackParams) (*models.AnalyticsEvent, *events.List, error)
	PropertyStats(ctx context.Context, actor authz.Actor, propertyID uuid.UUID, from, to *time.Time) (*Stats, error)
	MyPropertiesStats(ctx context.Context, actor authz.Actor, from, to *time.Time) ([]PortfolioEntry, error)
}

type service struct {
	repo       Repository
	properties PropertyDirectory
	viewings   ViewingCounter
}

// TrackParams carries one raw tracking event.
type TrackParams struct {
	Type       string
	PropertyID *uuid.UUID
	SessionID  *string
	Meta       map[string]any
}

// Stats is the aggregate returned by the single-property stats endpoint.
type Stats struct {
	Properties int   `json:"properties"`
	Views      int64 `json:"views"`
	Inquiries  int64 `json:"inquiries"`
	Viewings   int64 `json:"viewings"`
}

// PortfolioEntry is one property's counters in the batch stats response.
type PortfolioEntry struct {
	PropertyID uuid.UUID `json:"propertyId"`
	Title      string    `json:"title"`
	Views      int64     `json:"views"`
	Inquiries  int64     `json:"inquiries"`
	Viewings   int64     `json:"viewings"`
}

// NewService wires analytics dependencies.
func NewService(repo Repository, properties PropertyDirectory, viewings ViewingCounter) (Service, error) {
	if repo == nil || properties == nil || viewings == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "analytics service dependencies required")
	}
	return &service{repo: repo, properties: properties, viewings: viewings}, nil
}

// TrackEvent appends one event. Anonymous traffic is accepted; signed-in
// callers are recorded on the event and get an audit entry.
func (s *service) TrackEvent(ctx context.Context, actorID *uuid.UUID, params TrackParams) (*models.AnalyticsEvent, *events.List, error) {
	eventType := strings.ToLower(strings.TrimSpace(params.Type))
	if eventType == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "type is required")
	}
	if len(eventType) > maxEventTypeLen {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "type is too long")
	}

	event := models.AnalyticsEvent{
		Type:       eventType,
		PropertyID: params.PropertyID,
		UserID:     actorID,
		SessionID:  params.SessionID,
		MetaJSON:   events.MarshalMeta(params.Meta),
	}
	if err := s.repo.Create(ctx, &event); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "track event")
	}

	list := events.NewList()
	if actorID != nil {
		meta := map[string]any{"type": eventType}
		if params.PropertyID != nil {
			meta["propertyId"] = params.PropertyID.String()
		}
		list.Audit(events.AuditEntry{
			ActorID:    actorID,
			Action:     "analytics.event_tracked",
			EntityType: "analytics_event",
			EntityID:   &event.ID,
			Meta:       meta,
		})
	}
	return &event, list, nil
}

// PropertyStats aggregates views, inquiries and viewings for one property.
// Only the responsible party and admins may read it.
func (s *service) PropertyStats(ctx context.Context, actor authz.Actor, propertyID uuid.UUID, from, to *time.Time) (*Stats, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load property")
	}
	if property == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Property not found")
	}
	if !authz.Allow(actor, authz.Resource{
		OwnerID:  property.OwnerID,
		BrokerID: property.BrokerID,
	}, authz.ActionManage) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Only the property's party can read its stats")
	}

	return s.aggregate(ctx, []uuid.UUID{property.ID}, from, to)
}

// MyPropertiesStats returns one row of counters per property the actor is
// the responsible party for. Admins get a row for every property.
func (s *service) MyPropertiesStats(ctx context.Context, actor authz.Actor, from, to *time.Time) ([]PortfolioEntry, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	var (
		props []models.Property
		err   error
	)
	switch actor.Role {
	case enums.UserRoleAdmin:
		props, err = s.properties.ListAll(ctx)
	case enums.UserRoleOwner, enums.UserRoleBroker:
		props, err = s.properties.ListForParty(ctx, actor.ID)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "No property portfolio for this role")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list properties")
	}

	entries := make([]PortfolioEntry, len(props))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(portfolioConcurrency)
	for i, property := range props {
		group.Go(func() error {
			stats, err := s.aggregate(groupCtx, []uuid.UUID{property.ID}, from, to)
			if err != nil {
				return err
			}
			entries[i] = PortfolioEntry{
				PropertyID: property.ID,
				Title:      property.Title,
				Views:      stats.Views,
				Inquiries:  stats.Inquiries,
				Viewings:   stats.Viewings,
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// aggregate fans the three counters out concurrently.
func (s *service) aggregate(ctx context.Context, ids []uuid.UUID, from, to *time.Time) (*Stats, error) {
	stats := Stats{Properties: len(ids)}
	if len(ids) == 0 {
		return &stats, nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		count, err := s.repo.CountEvents(groupCtx, EventTypeView, ids, from, to)
		stats.Views = count
		return err
	})
	group.Go(func() error {
		count, err := s.repo.CountInquiries(groupCtx, ids, from, to)
		stats.Inquiries = count
		return err
	})
	group.Go(func() error {
		count, err := s.viewings.CountForProperties(groupCtx, ids, from, to)
		stats.Viewings = count
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate stats")
	}
	return &stats, nil
}

func validateRange(from, to *time.Time) error {
	if from != nil && to != nil && to.Before(*from) {
		return pkgerrors.New(pkgerrors.CodeValidation, "date range is inverted")
	}
	return nil
}
