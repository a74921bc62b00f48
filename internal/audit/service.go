package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/internal/events"
	"github.com/jubahomez/jubahomez-backend/pkg/db/models"
	pkgerrors "github.com/jubahomez/jubahomez-backend/pkg/errors"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// Service records audit entries and serves the admin listing.
type Service interface {
	Record(ctx context.Context, entry events.AuditEntry) error
	List(ctx context.Context, params ListParams) ([]models.AuditLog, error)
}

type service struct {
	repo Repository
}

// ListParams filters the admin audit-log listing.
type ListParams struct {
	ActorID *uuid.UUID
	Action  string
	From    *time.Time
	To      *time.Time
	Limit   int
}

// NewService wires audit dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "audit repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, entry events.AuditEntry) error {
	if entry.Action == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "audit action required")
	}
	if entry.EntityType == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "audit entity type required")
	}

	row := models.AuditLog{
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		MetaJSON:   events.MarshalMeta(entry.Meta),
	}
	if err := s.repo.Create(ctx, &row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record audit entry")
	}
	return nil
}

func (s *service) List(ctx context.Context, params ListParams) ([]models.AuditLog, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if params.From != nil && params.To != nil && params.To.Before(*params.From) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range is inverted")
	}

	entries, err := s.repo.List(ctx, listAuditLogsParams{
		ActorID: params.ActorID,
		Action:  params.Action,
		From:    params.From,
		To:      params.To,
		Limit:   limit,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list audit logs")
	}
	return entries, nil
}
