package admin

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jubahomez/jubahomez-backend/pkg/db/models"
)

// Repository exposes persistence helpers for announcements.
type Repository interface {
	CreateAnnouncement(ctx context.Context, announcement *models.Announcement) error
	ListAnnouncements(ctx context.Context, at time.Time, limit, offset int) ([]models.Announcement, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an admin repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) CreateAnnouncement(ctx context.Context, announcement *models.Announcement) error {
	return r.db.WithContext(ctx).Create(announcement).Error
}

// ListAnnouncements returns announcements still live at the given instant,
// newest first.
func (r *repositoryImpl) ListAnnouncements(ctx context.Context, at time.Time, limit, offset int) ([]models.Announcement, error) {
	var rows []models.Announcement
	err := r.db.WithContext(ctx).
		Where("expires_at IS NULL OR expires_at > ?", at).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
