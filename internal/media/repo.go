package media

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jubahomez/jubahomez-backend/pkg/db/models"
	"github.com/jubahomez/jubahomez-backend/pkg/enums"
)

// Repository exposes persistence helpers for media rows.
type Repository interface {
	Create(ctx context.Context, media *models.Media) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Media, error)
	ListPublic(ctx context.Context, propertyID uuid.UUID) ([]models.Media, error)
	ListForModeration(ctx context.Context, params ListModerationParams) ([]models.Media, error)
	UpdateApproval(ctx context.Context, id uuid.UUID, status enums.ApprovalStatus) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a media repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// ListModerationParams filters the admin moderation queue.
type ListModerationParams struct {
	Status     *enums.ApprovalStatus
	PropertyID *uuid.UUID
	Limit      int
	Offset     int
}

func (r *repositoryImpl) Create(ctx context.Context, media *models.Media) error {
	return r.db.WithContext(ctx).Create(media).Error
}

func (r *repositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	var media models.Media
	err := r.db.WithContext(ctx).First(&media, "id = ? AND deleted_at IS NULL", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *repositoryImpl) ListPublic(ctx context.Context, propertyID uuid.UUID) ([]models.Media, error) {
	var rows []models.Media
	err := r.db.WithContext(ctx).
		Where("property_id = ? AND approval_status = ? AND deleted_at IS NULL",
			propertyID, enums.ApprovalStatusApproved).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) ListForModeration(ctx context.Context, params ListModerationParams) ([]models.Media, error) {
	query := r.db.WithContext(ctx).Model(&models.Media{}).Where("deleted_at IS NULL")
	if params.Status != nil {
		query = query.Where("approval_status = ?", *params.Status)
	}
	if params.PropertyID != nil {
		query = query.Where("property_id = ?", *params.PropertyID)
	}

	var rows []models.Media
	err := query.Order("created_at DESC, id DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) UpdateApproval(ctx context.Context, id uuid.UUID, status enums.ApprovalStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Media{}).
		Where("id = ? AND deleted_at IS NULL", id).
		UpdateColumn("approval_status", status).Error
}

func (r *repositoryImpl) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Media{}).
		Where("id = ? AND deleted_at IS NULL", id).
		UpdateColumn("deleted_at", at)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
