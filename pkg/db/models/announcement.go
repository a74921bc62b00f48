package models

import (
	"time"

	"github.com/google/uuid"
)

// Announcement is an admin broadcast with an audience tag set serialized as
// JSON (e.g. ["all"] or ["broker","owner"]).
type Announcement struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title        string     `gorm:"type:text;not null" json:"title"`
	Message      string     `gorm:"type:text;not null" json:"message"`
	AudienceJSON string     `gorm:"column:audience_json;type:text;not null" json:"audience"`
	ExpiresAt    *time.Time `gorm:"column:expires_at" json:"expiresAt"`
	CreatedBy    uuid.UUID  `gorm:"column:created_by;type:uuid;not null" json:"createdBy"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
