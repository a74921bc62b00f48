package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/pkg/enums"
)

// Notification stores in-app inbox payloads scoped to users. Rows are
// created unread and only ever mutated by read-marking.
type Notification struct {
	ID        uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	Type      enums.NotificationType `gorm:"type:notification_type;not null" json:"type"`
	Title     string                 `gorm:"type:text;not null" json:"title"`
	Message   string                 `gorm:"type:text;not null" json:"message"`
	RefType   *string                `gorm:"column:ref_type;type:text" json:"refType"`
	RefID     *uuid.UUID             `gorm:"column:ref_id;type:uuid" json:"refId"`
	ReadAt    *time.Time             `gorm:"column:read_at" json:"readAt"`
	CreatedAt time.Time              `gorm:"column:created_at;default:now()" json:"createdAt"`
}
