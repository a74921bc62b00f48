package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jubahomez/jubahomez-backend/pkg/db/models"
)

// Repository exposes persistence helpers for audit logs. Rows are append
// only; there is no update or delete path.
type Repository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, params listAuditLogsParams) ([]models.AuditLog, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an audit repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listAuditLogsParams struct {
	ActorID *uuid.UUID
	Action  string
	From    *time.Time
	To      *time.Time
	Limit   int
}

func (r *repositoryImpl) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repositoryImpl) List(ctx context.Context, params listAuditLogsParams) ([]models.AuditLog, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditLog{})
	if params.ActorID != nil {
		query = query.Where("actor_id = ?", *params.ActorID)
	}
	if params.Action != "" {
		query = query.Where("action = ?", params.Action)
	}
	if params.From != nil {
		query = query.Where("created_at >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("created_at <= ?", *params.To)
	}

	var entries []models.AuditLog
	if err := query.Order("created_at DESC, id DESC").Limit(params.Limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
