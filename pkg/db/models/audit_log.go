package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only compliance record. Rows are never mutated or
// deleted.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ActorID    *uuid.UUID `gorm:"column:actor_id;type:uuid;index" json:"actorId"`
	Action     string     `gorm:"type:text;not null;index" json:"action"`
	EntityType string     `gorm:"column:entity_type;type:text;not null" json:"entityType"`
	EntityID   *uuid.UUID `gorm:"column:entity_id;type:uuid" json:"entityId"`
	MetaJSON   *string    `gorm:"column:meta_json;type:text" json:"meta"`
	CreatedAt  time.Time  `gorm:"column:created_at;default:now()" json:"createdAt"`
}
