package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/pkg/enums"
)

// Media is an uploaded asset attached to a property. Rows are created
// pending and become publicly visible only once approved and not deleted.
type Media struct {
	ID             uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PropertyID     uuid.UUID            `gorm:"type:uuid;not null;index" json:"propertyId"`
	UploadedBy     uuid.UUID            `gorm:"column:uploaded_by;type:uuid;not null" json:"uploadedBy"`
	Kind           enums.MediaKind      `gorm:"type:media_kind;not null" json:"kind"`
	URL            string               `gorm:"type:text;not null" json:"url"`
	ThumbURL       *string              `gorm:"column:thumb_url;type:text" json:"thumbUrl"`
	MimeType       string               `gorm:"column:mime_type;type:text;not null" json:"mimeType"`
	SizeBytes      int64                `gorm:"column:size_bytes;not null" json:"sizeBytes"`
	ApprovalStatus enums.ApprovalStatus `gorm:"type:approval_status;not null;default:'pending'" json:"approvalStatus"`
	DeletedAt      *time.Time           `gorm:"column:deleted_at" json:"-"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
