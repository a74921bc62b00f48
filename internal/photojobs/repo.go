package photojobs

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jubahomez/jubahomez-backend/pkg/db/models"
	"github.com/jubahomez/jubahomez-backend/pkg/enums"
)

// Repository exposes persistence helpers for photo jobs. Every status
// transition is a conditional update checked against the expected source
// status so concurrent writers cannot double-apply it.
type Repository interface {
	Create(ctx context.Context, job *models.PhotoJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PhotoJob, error)
	ListOpen(ctx context.Context, eligibleFor *uuid.UUID, limit, offset int) ([]models.PhotoJob, error)
	ListForUser(ctx context.Context, params ListJobsParams) ([]models.PhotoJob, error)
	Assign(ctx context.Context, id, photographerID uuid.UUID) (bool, error)
	Reject(ctx context.Context, id uuid.UUID, reason string) (bool, error)
	Schedule(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	Complete(ctx context.Context, id uuid.UUID) (bool, error)
	CreateMessage(ctx context.Context, message *models.PhotoJobMessage) error
	ListMessages(ctx context.Context, jobID uuid.UUID) ([]models.PhotoJobMessage, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a photo jobs repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// ListJobsParams scopes job listings to a requester or photographer.
type ListJobsParams struct {
	RequestedBy    *uuid.UUID
	PhotographerID *uuid.UUID
	Limit          int
	Offset         int
}

func (r *repositoryImpl) Create(ctx context.Context, job *models.PhotoJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *repositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.PhotoJob, error) {
	var job models.PhotoJob
	err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// ListOpen returns open jobs. With eligibleFor set it keeps only the jobs
// that photographer may accept: no preference or preferring them.
func (r *repositoryImpl) ListOpen(ctx context.Context, eligibleFor *uuid.UUID, limit, offset int) ([]models.PhotoJob, error) {
	query := r.db.WithContext(ctx).Where("status = ?", enums.PhotoJobStatusOpen)
	if eligibleFor != nil {
		query = query.Where("preferred_photographer_id IS NULL OR preferred_photographer_id = ?", *eligibleFor)
	}

	var jobs []models.PhotoJob
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *repositoryImpl) ListForUser(ctx context.Context, params ListJobsParams) ([]models.PhotoJob, error) {
	query := r.db.WithContext(ctx).Model(&models.PhotoJob{})
	if params.RequestedBy != nil {
		query = query.Where("requested_by = ?", *params.RequestedBy)
	}
	if params.PhotographerID != nil {
		query = query.Where("photographer_id = ?", *params.PhotographerID)
	}

	var jobs []models.PhotoJob
	err := query.Order("created_at DESC, id DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *repositoryImpl) Assign(ctx context.Context, id, photographerID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PhotoJob{}).
		Where("id = ? AND status = ?", id, enums.PhotoJobStatusOpen).
		UpdateColumns(map[string]any{
			"status":          enums.PhotoJobStatusAssigned,
			"photographer_id": photographerID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) Reject(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PhotoJob{}).
		Where("id = ? AND status = ?", id, enums.PhotoJobStatusOpen).
		UpdateColumns(map[string]any{
			"status":        enums.PhotoJobStatusRejected,
			"reject_reason": reason,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) Schedule(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PhotoJob{}).
		Where("id = ? AND status IN ?", id, []enums.PhotoJobStatus{
			enums.PhotoJobStatusAssigned,
			enums.PhotoJobStatusScheduled,
		}).
		UpdateColumns(map[string]any{
			"status":       enums.PhotoJobStatusScheduled,
			"scheduled_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) Complete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PhotoJob{}).
		Where("id = ? AND status = ?", id, enums.PhotoJobStatusScheduled).
		UpdateColumn("status", enums.PhotoJobStatusCompleted)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) CreateMessage(ctx context.Context, message *models.PhotoJobMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *repositoryImpl) ListMessages(ctx context.Context, jobID uuid.UUID) ([]models.PhotoJobMessage, error) {
	var messages []models.PhotoJobMessage
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
