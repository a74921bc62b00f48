package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jubahomez/jubahomez-backend/pkg/db/models"
)

// Repository appends raw tracking events and serves the aggregate counts
// behind the stats endpoints.
type Repository interface {
	Create(ctx context.Context, event *models.AnalyticsEvent) error
	CountEvents(ctx context.Context, eventType string, propertyIDs []uuid.UUID, from, to *time.Time) (int64, error)
	CountInquiries(ctx context.Context, propertyIDs []uuid.UUID, from, to *time.Time) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an analytics repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, event *models.AnalyticsEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repositoryImpl) CountEvents(ctx context.Context, eventType string, propertyIDs []uuid.UUID, from, to *time.Time) (int64, error) {
	if len(propertyIDs) == 0 {
		return 0, nil
	}
	query := r.db.WithContext(ctx).
		Model(&models.AnalyticsEvent{}).
		Where("type = ? AND property_id IN ?", eventType, propertyIDs)
	query = applyRange(query, from, to)

	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *repositoryImpl) CountInquiries(ctx context.Context, propertyIDs []uuid.UUID, from, to *time.Time) (int64, error) {
	if len(propertyIDs) == 0 {
		return 0, nil
	}
	query := r.db.WithContext(ctx).
		Model(&models.Inquiry{}).
		Where("property_id IN ?", propertyIDs)
	query = applyRange(query, from, to)

	var count int64
	err := query.Count(&count).Error
	return count, err
}

func applyRange(query *gorm.DB, from, to *time.Time) *gorm.DB {
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}
	return query
}
