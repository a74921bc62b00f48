package properties

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jubahomez/jubahomez-backend/pkg/db/models"
	"github.com/jubahomez/jubahomez-backend/pkg/enums"
)

// Repository exposes persistence helpers for properties and inquiries.
type Repository interface {
	Create(ctx context.Context, property *models.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	List(ctx context.Context, params ListPropertiesParams) ([]models.Property, error)
	ListForParty(ctx context.Context, userID uuid.UUID) ([]models.Property, error)
	ListAll(ctx context.Context) ([]models.Property, error)
	UpdateApproval(ctx context.Context, id uuid.UUID, status enums.ApprovalStatus) (bool, error)
	CreateInquiry(ctx context.Context, inquiry *models.Inquiry) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a properties repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// ListPropertiesParams filters property listings. ApprovedOnly drives the
// public surface; PartyID scopes to a responsible party.
type ListPropertiesParams struct {
	ApprovedOnly bool
	Status       *enums.ApprovalStatus
	Type         *enums.PropertyType
	PartyID      *uuid.UUID
	Limit        int
	Offset       int
}

func (r *repositoryImpl) Create(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

func (r *repositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).First(&property, "id = ? AND deleted_at IS NULL", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *repositoryImpl) List(ctx context.Context, params ListPropertiesParams) ([]models.Property, error) {
	query := r.db.WithContext(ctx).Model(&models.Property{}).Where("deleted_at IS NULL")
	if params.ApprovedOnly {
		query = query.Where("approval_status = ?", enums.ApprovalStatusApproved)
	} else if params.Status != nil {
		query = query.Where("approval_status = ?", *params.Status)
	}
	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}
	if params.PartyID != nil {
		query = query.Where("owner_id = ? OR broker_id = ?", *params.PartyID, *params.PartyID)
	}

	var properties []models.Property
	err := query.Order("created_at DESC, id DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *repositoryImpl) ListForParty(ctx context.Context, userID uuid.UUID) ([]models.Property, error) {
	var properties []models.Property
	err := r.db.WithContext(ctx).
		Select("id", "title", "owner_id", "broker_id").
		Where("deleted_at IS NULL AND (owner_id = ? OR broker_id = ?)", userID, userID).
		Order("created_at DESC").
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *repositoryImpl) ListAll(ctx context.Context) ([]models.Property, error) {
	var properties []models.Property
	err := r.db.WithContext(ctx).
		Select("id", "title", "owner_id", "broker_id").
		Where("deleted_at IS NULL").
		Order("created_at DESC").
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *repositoryImpl) UpdateApproval(ctx context.Context, id uuid.UUID, status enums.ApprovalStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Property{}).
		Where("id = ? AND deleted_at IS NULL", id).
		UpdateColumn("approval_status", status)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) CreateInquiry(ctx context.Context, inquiry *models.Inquiry) error {
	return r.db.WithContext(ctx).Create(inquiry).Error
}
