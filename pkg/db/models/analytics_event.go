package models

import (
	"time"

	"github.com/google/uuid"
)

// AnalyticsEvent is a raw tracking row aggregated by the analytics read
// paths.
type AnalyticsEvent struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Type       string     `gorm:"type:text;not null;index" json:"type"`
	PropertyID *uuid.UUID `gorm:"type:uuid;index" json:"propertyId"`
	UserID     *uuid.UUID `gorm:"column:user_id;type:uuid" json:"userId"`
	SessionID  *string    `gorm:"column:session_id;type:text" json:"sessionId"`
	MetaJSON   *string    `gorm:"column:meta_json;type:text" json:"meta"`
	CreatedAt  time.Time  `gorm:"column:created_at;default:now()" json:"createdAt"`
}
