package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/pkg/enums"
)

// PhotoJob is a photography dispatch request for a property. A preferred
// photographer, when set, restricts who may accept the job while it is open.
type PhotoJob struct {
	ID                      uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PropertyID              uuid.UUID            `gorm:"type:uuid;not null;index" json:"propertyId"`
	RequestedBy             uuid.UUID            `gorm:"column:requested_by;type:uuid;not null" json:"requestedBy"`
	PreferredPhotographerID *uuid.UUID           `gorm:"column:preferred_photographer_id;type:uuid" json:"preferredPhotographerId"`
	PhotographerID          *uuid.UUID           `gorm:"column:photographer_id;type:uuid;index" json:"photographerId"`
	Notes                   *string              `gorm:"type:text" json:"notes"`
	PreferredDatesJSON      *string              `gorm:"column:preferred_dates_json;type:text" json:"preferredDates"`
	Status                  enums.PhotoJobStatus `gorm:"type:photo_job_status;not null;default:'open'" json:"status"`
	RejectReason            *string              `gorm:"column:reject_reason;type:text" json:"rejectReason"`
	ScheduledAt             *time.Time           `gorm:"column:scheduled_at" json:"scheduledAt"`
	CreatedAt               time.Time            `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt               time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
