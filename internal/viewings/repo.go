package viewings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jubahomez/jubahomez-backend/pkg/db/models"
	"github.com/jubahomez/jubahomez-backend/pkg/enums"
)

// Repository exposes persistence helpers for viewing requests and viewings.
type Repository interface {
	CreateRequest(ctx context.Context, request *models.ViewingRequest) error
	GetRequestByID(ctx context.Context, id uuid.UUID) (*models.ViewingRequest, error)
	ListRequests(ctx context.Context, params ListScopeParams) ([]models.ViewingRequest, error)
	AcceptRequestAndCreateViewing(ctx context.Context, requestID uuid.UUID, viewing *models.Viewing) (bool, error)
	GetViewingByID(ctx context.Context, id uuid.UUID) (*models.Viewing, error)
	ListViewings(ctx context.Context, params ListScopeParams) ([]models.Viewing, error)
	Reschedule(ctx context.Context, id uuid.UUID, at time.Time, locationNote *string) (bool, error)
	Cancel(ctx context.Context, id uuid.UUID, reason *string) (bool, error)
	CountForProperties(ctx context.Context, propertyIDs []uuid.UUID, from, to *time.Time) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a viewings repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// ListScopeParams scopes listings to a recipient, a requester, or neither
// (admin sees everything).
type ListScopeParams struct {
	RecipientID *uuid.UUID
	RequesterID *uuid.UUID
	Limit       int
	Offset      int
}

func (r *repositoryImpl) CreateRequest(ctx context.Context, request *models.ViewingRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repositoryImpl) GetRequestByID(ctx context.Context, id uuid.UUID) (*models.ViewingRequest, error) {
	var request models.ViewingRequest
	err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repositoryImpl) ListRequests(ctx context.Context, params ListScopeParams) ([]models.ViewingRequest, error) {
	query := r.db.WithContext(ctx).Model(&models.ViewingRequest{})
	if params.RecipientID != nil {
		query = query.Where("recipient_user_id = ?", *params.RecipientID)
	}
	if params.RequesterID != nil {
		query = query.Where("requester_user_id = ?", *params.RequesterID)
	}

	var requests []models.ViewingRequest
	err := query.Order("created_at DESC, id DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// AcceptRequestAndCreateViewing flips a pending request to accepted and
// inserts its viewing in one transaction. The conditional update is the
// guard against two concurrent accepts; zero affected rows means the
// request was not pending anymore.
func (r *repositoryImpl) AcceptRequestAndCreateViewing(ctx context.Context, requestID uuid.UUID, viewing *models.Viewing) (bool, error) {
	accepted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ViewingRequest{}).
			Where("id = ? AND status = ?", requestID, enums.ViewingRequestStatusPending).
			UpdateColumn("status", enums.ViewingRequestStatusAccepted)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		if err := tx.Create(viewing).Error; err != nil {
			return err
		}
		accepted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return accepted, nil
}

func (r *repositoryImpl) GetViewingByID(ctx context.Context, id uuid.UUID) (*models.Viewing, error) {
	var viewing models.Viewing
	err := r.db.WithContext(ctx).First(&viewing, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &viewing, nil
}

func (r *repositoryImpl) ListViewings(ctx context.Context, params ListScopeParams) ([]models.Viewing, error) {
	query := r.db.WithContext(ctx).Model(&models.Viewing{})
	if params.RecipientID != nil {
		query = query.Where("recipient_user_id = ?", *params.RecipientID)
	}
	if params.RequesterID != nil {
		query = query.Where("requester_user_id = ?", *params.RequesterID)
	}

	var viewings []models.Viewing
	err := query.Order("scheduled_at DESC, id DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&viewings).Error
	if err != nil {
		return nil, err
	}
	return viewings, nil
}

func (r *repositoryImpl) Reschedule(ctx context.Context, id uuid.UUID, at time.Time, locationNote *string) (bool, error) {
	updates := map[string]any{"scheduled_at": at}
	if locationNote != nil {
		updates["location_note"] = *locationNote
	}
	result := r.db.WithContext(ctx).
		Model(&models.Viewing{}).
		Where("id = ? AND status = ?", id, enums.ViewingStatusUpcoming).
		UpdateColumns(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) Cancel(ctx context.Context, id uuid.UUID, reason *string) (bool, error) {
	updates := map[string]any{"status": enums.ViewingStatusCancelled}
	if reason != nil {
		updates["cancel_reason"] = *reason
	}
	result := r.db.WithContext(ctx).
		Model(&models.Viewing{}).
		Where("id = ? AND status = ?", id, enums.ViewingStatusUpcoming).
		UpdateColumns(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) CountForProperties(ctx context.Context, propertyIDs []uuid.UUID, from, to *time.Time) (int64, error) {
	if len(propertyIDs) == 0 {
		return 0, nil
	}
	query := r.db.WithContext(ctx).Model(&models.Viewing{}).Where("property_id IN ?", propertyIDs)
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}
