package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/pkg/enums"
)

// Viewing is a scheduled appointment created from a pending ViewingRequest.
type Viewing struct {
	ID              uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID       uuid.UUID           `gorm:"column:request_id;type:uuid;not null;uniqueIndex" json:"requestId"`
	PropertyID      uuid.UUID           `gorm:"type:uuid;not null;index" json:"propertyId"`
	RecipientUserID uuid.UUID           `gorm:"column:recipient_user_id;type:uuid;not null;index" json:"recipientUserId"`
	RequesterUserID *uuid.UUID          `gorm:"column:requester_user_id;type:uuid" json:"requesterUserId"`
	ScheduledAt     time.Time           `gorm:"column:scheduled_at;not null" json:"scheduledAt"`
	LocationNote    *string             `gorm:"column:location_note;type:text" json:"locationNote"`
	AgentNote       *string             `gorm:"column:agent_note;type:text" json:"agentNote"`
	Status          enums.ViewingStatus `gorm:"type:viewing_status;not null;default:'upcoming'" json:"status"`
	CancelReason    *string             `gorm:"column:cancel_reason;type:text" json:"cancelReason"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
