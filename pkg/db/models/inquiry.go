package models

import (
	"time"

	"github.com/google/uuid"
)

// Inquiry is a buyer/tenant question about a property; it feeds the
// per-property analytics counters.
type Inquiry struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PropertyID uuid.UUID  `gorm:"type:uuid;not null;index" json:"propertyId"`
	UserID     *uuid.UUID `gorm:"column:user_id;type:uuid" json:"userId"`
	Name       string     `gorm:"type:text;not null" json:"name"`
	Email      string     `gorm:"type:text;not null" json:"email"`
	Phone      *string    `gorm:"type:text" json:"phone"`
	Message    string     `gorm:"type:text;not null" json:"message"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
