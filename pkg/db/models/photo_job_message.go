package models

import (
	"time"

	"github.com/google/uuid"
)

// PhotoJobMessage is one entry in the append-only thread attached to a job.
type PhotoJobMessage struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	JobID        uuid.UUID `gorm:"column:job_id;type:uuid;not null;index" json:"jobId"`
	SenderUserID uuid.UUID `gorm:"column:sender_user_id;type:uuid;not null" json:"senderUserId"`
	Message      string    `gorm:"type:text;not null" json:"message"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
